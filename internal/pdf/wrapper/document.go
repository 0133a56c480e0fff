package wrapper

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// document combines the two engine libraries over the same bytes: pdfcpu
// supplies the object graph, ledongthuc/pdf supplies page content.
type document struct {
	ctx    *model.Context
	reader *pdf.Reader
	closed bool
}

// Open parses data as a PDF. Every failure wraps ErrDocumentOpen.
func Open(data []byte) (Document, error) {
	if len(data) == 0 {
		return nil, openError(LibraryPDFCPU, fmt.Errorf("empty input"))
	}

	ctx, err := openObjectGraph(bytes.NewReader(data))
	if err != nil {
		return nil, openError(LibraryPDFCPU, err)
	}

	reader, err := openContentReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, openError(LibraryLedongthuc, err)
	}

	return &document{ctx: ctx, reader: reader}, nil
}

func openError(lib LibraryType, err error) error {
	return fmt.Errorf("%w: %w", ErrDocumentOpen, &WrapperError{Library: lib, Op: "open", Err: err})
}

// PageCount returns the number of pages in the document
func (d *document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.ctx.PageCount
}

// Page returns the page at the 0-based index
func (d *document) Page(index int) (Page, error) {
	if d.closed {
		return nil, ErrDocumentClosed
	}
	if index < 0 || index >= d.ctx.PageCount {
		return nil, fmt.Errorf("%w: index %d (document has %d pages)", ErrInvalidPage, index, d.ctx.PageCount)
	}

	var p pdf.Page
	if err := guard(LibraryLedongthuc, "page", func() error {
		p = d.reader.Page(index + 1)
		return nil
	}); err != nil {
		return nil, err
	}
	if p.V.IsNull() {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "page",
			Err:     fmt.Errorf("page %d not found in page tree", index+1),
		}
	}

	return newContentPage(p, index+1), nil
}

// FormFieldDictionary returns the flattened AcroForm field tree
func (d *document) FormFieldDictionary() (*FieldDictionary, error) {
	if d.closed {
		return nil, ErrDocumentClosed
	}

	var fd *FieldDictionary
	err := guard(LibraryPDFCPU, "form_fields", func() error {
		var err error
		fd, err = formFieldDictionary(d.ctx)
		return err
	})
	return fd, err
}

// Close releases the document. It is safe to call more than once.
func (d *document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.ctx = nil
	d.reader = nil
	return nil
}

// guard runs fn and converts a panic raised inside an engine library into an
// error.
func guard(lib LibraryType, op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &WrapperError{Library: lib, Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &WrapperError{Library: lib, Op: op, Err: err}
	}
	return nil
}
