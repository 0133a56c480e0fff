package wrapper

import (
	"fmt"

	pdferrors "github.com/a3tai/pdf-layout-analyzer/internal/pdf/errors"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/grid"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document is an opened PDF. It is owned by a single analysis run and must be
// closed when the run completes.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int
	// Page returns the page at the 0-based index.
	Page(index int) (Page, error)
	// FormFieldDictionary returns the document-level AcroForm fields, or nil
	// when the document has no AcroForm.
	FormFieldDictionary() (*FieldDictionary, error)
	Close() error
}

// Page is a read-only view of one page. All coordinates are in PDF points
// with the origin at the top-left corner of the page's visible box.
//
// The page's /Rotate entry is ignored: sizes and coordinates are those of the
// unrotated CropBox (or MediaBox), so a landscape page stored as a portrait
// box rotated by 90 degrees reports portrait width and height.
type Page interface {
	// Number returns the 1-based page number.
	Number() int
	// Size returns the unrotated width and height of the visible box.
	Size() PageSize
	Words() ([]Word, error)
	Drawings() ([]Drawing, error)
	Widgets() ([]Widget, error)
	Tables() ([]grid.Table, error)
}

// LibraryType represents the underlying PDF library being used
type LibraryType string

const (
	LibraryPDFCPU     LibraryType = "pdfcpu"
	LibraryLedongthuc LibraryType = "ledongthuc"
)

// Rect is an axis-aligned box with X0 <= X1 and Y0 <= Y1.
type Rect = grid.Rect

// PageSize represents the dimensions of a PDF page
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Word is a whitespace-delimited run of glyphs.
type Word struct {
	Text string
	Box  Rect
}

// Drawing is one painted path: its bounding box plus the straight segments it
// is made of.
type Drawing struct {
	Box      Rect
	Segments []grid.Segment
	Stroked  bool
	Filled   bool
}

// Widget is an on-page form field annotation.
type Widget struct {
	Name      string
	FieldType string // PDF /FT value: Tx, Btn, Ch, Sig or empty
	Flags     int64
	Value     string
	Box       Rect
}

// ObjectResolver resolves indirect references in the document's object graph.
// *model.Context satisfies it.
type ObjectResolver interface {
	Dereference(o types.Object) (types.Object, error)
}

// FieldEntry is one named AcroForm field, terminal or parent. Value is the raw /V object,
// which may still be an indirect reference.
type FieldEntry struct {
	Name     string
	Value    types.Object
	HasValue bool
}

// FieldDictionary is the flattened AcroForm field tree in document order.
type FieldDictionary struct {
	Entries  []FieldEntry
	Resolver ObjectResolver
}

// Len returns the number of fields.
func (fd *FieldDictionary) Len() int {
	if fd == nil {
		return 0
	}
	return len(fd.Entries)
}

// Error types for wrapper operations
type WrapperError struct {
	Library LibraryType `json:"library"`
	Op      string      `json:"operation"`
	Err     error       `json:"error"`
}

func (e *WrapperError) Error() string {
	if e.Library == "" {
		return fmt.Sprintf("PDF %s error: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

// Common error variables
var (
	ErrDocumentOpen   = pdferrors.ErrDocumentOpen
	ErrDocumentClosed = &WrapperError{Op: "document", Err: fmt.Errorf("document is closed")}
	ErrInvalidPage    = &WrapperError{Op: "page", Err: fmt.Errorf("invalid page number")}
)
