package extraction

import (
	"encoding/json"

	pdferrors "github.com/a3tai/pdf-layout-analyzer/internal/pdf/errors"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/wrapper"
)

// Extractor names as they appear in diagnostics; they match the result keys.
const (
	ExtractorFormFields        = "acroform_fields"
	ExtractorInteractiveFields = "interactive_fields"
	ExtractorText              = "text_content"
	ExtractorVisualElements    = "visual_elements"
	ExtractorTables            = "tables"
)

// BBox is a bounding box [x0, y0, x1, y1] in page points, origin top-left.
type BBox [4]float64

func bboxOf(r wrapper.Rect) BBox {
	r = r.Normalize()
	return BBox{r.X0, r.Y0, r.X1, r.Y1}
}

// Width returns x1 - x0.
func (b BBox) Width() float64 { return b[2] - b[0] }

// Height returns y1 - y0.
func (b BBox) Height() float64 { return b[3] - b[1] }

// FieldValueKind tags the variants of FieldValue.
type FieldValueKind int

const (
	// FieldValueMissing means the field has no /V entry.
	FieldValueMissing FieldValueKind = iota
	// FieldValueUnresolved means /V exists but could not be turned into text.
	FieldValueUnresolved
	// FieldValueText means /V resolved to text.
	FieldValueText
)

// FieldValue is the current value of an AcroForm field.
type FieldValue struct {
	kind FieldValueKind
	text string
}

// TextValue returns a resolved field value.
func TextValue(s string) FieldValue {
	return FieldValue{kind: FieldValueText, text: s}
}

// UnresolvedValue returns the value of a field whose /V could not be read.
func UnresolvedValue() FieldValue {
	return FieldValue{kind: FieldValueUnresolved}
}

// MissingValue returns the value of a field without /V.
func MissingValue() FieldValue {
	return FieldValue{kind: FieldValueMissing}
}

// Kind reports which variant v holds.
func (v FieldValue) Kind() FieldValueKind {
	return v.kind
}

// Text returns the resolved text and whether v holds one.
func (v FieldValue) Text() (string, bool) {
	return v.text, v.kind == FieldValueText
}

// MarshalJSON renders resolved values as strings and everything else as null.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.kind != FieldValueText {
		return []byte("null"), nil
	}
	return json.Marshal(v.text)
}

// FormFields maps fully qualified field names to their values.
type FormFields map[string]FieldValue

// TextToken is one word on a page.
type TextToken struct {
	Text         string `json:"text"`
	BBox         BBox   `json:"bbox"`
	IsListMarker bool   `json:"is_list_marker"`
}

// PageText holds the words of one page.
type PageText struct {
	PageNumber    int         `json:"page_number"`
	Width         float64     `json:"width"`
	Height        float64     `json:"height"`
	TextAndCoords []TextToken `json:"text_and_coords"`
}

// TextContent holds the words of every page.
type TextContent struct {
	PageCount int        `json:"page_count"`
	Pages     []PageText `json:"pages"`
}

// ShapeKind is the classification of a drawn shape.
type ShapeKind string

const (
	ShapeLine ShapeKind = "line"
	ShapeBox  ShapeKind = "box"
)

// PageShapes holds the classified shapes of one page.
type PageShapes struct {
	PageNumber int    `json:"page_number"`
	Lines      []BBox `json:"lines"`
	Boxes      []BBox `json:"boxes"`
}

// TableRegion is a detected table grid.
type TableRegion struct {
	PageNumber int  `json:"page_number"`
	BBox       BBox `json:"bbox"`
	RowCount   int  `json:"row_count"`
	ColCount   int  `json:"col_count"`
}

// FieldType is the widget-level type tag of an interactive field.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeSelect    FieldType = "select"
	FieldTypeButton    FieldType = "button"
	FieldTypeSignature FieldType = "signature"
	FieldTypeUnknown   FieldType = "unknown"
)

// InteractiveField is a form field widget placed on a page.
type InteractiveField struct {
	PageNumber int       `json:"page_number"`
	Name       string    `json:"name"`
	Value      string    `json:"value"`
	BBox       BBox      `json:"bbox"`
	Type       FieldType `json:"type"`
}

// report records a page-level problem on the diagnostics collection, if any.
func report(diags *pdferrors.ErrorCollection, extractor string, page int, err error) {
	reportAs(diags, pdferrors.ErrorTypeMalformedPage, extractor, page, err)
}

func reportAs(diags *pdferrors.ErrorCollection, errorType pdferrors.ErrorType, extractor string, page int, err error) {
	if diags == nil || err == nil {
		return
	}
	diags.Add(pdferrors.WrapError(errorType, err).
		WithExtractor(extractor).
		WithPage(page))
}
