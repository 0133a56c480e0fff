package extraction

import (
	pdferrors "github.com/a3tai/pdf-layout-analyzer/internal/pdf/errors"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/wrapper"
)

// Button field flags (PDF 32000-1, table 226).
const (
	flagRadio      = 1 << 15 // bit 16
	flagPushbutton = 1 << 16 // bit 17
)

// ExtractInteractiveFields lists the form field widgets placed on each page.
func ExtractInteractiveFields(doc wrapper.Document, diags *pdferrors.ErrorCollection) ([]InteractiveField, error) {
	fields := []InteractiveField{}

	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.Page(i)
		if err != nil {
			report(diags, ExtractorInteractiveFields, i+1, err)
			continue
		}

		widgets, err := page.Widgets()
		if err != nil {
			reportAs(diags, pdferrors.ErrorTypeInvalidAnnotation, ExtractorInteractiveFields, i+1, err)
			continue
		}

		for _, w := range widgets {
			fields = append(fields, InteractiveField{
				PageNumber: page.Number(),
				Name:       w.Name,
				Value:      w.Value,
				BBox:       bboxOf(w.Box),
				Type:       WidgetFieldType(w.FieldType, w.Flags),
			})
		}
	}

	return fields, nil
}

// WidgetFieldType maps a PDF field type and its flags to a type tag.
func WidgetFieldType(ft string, flags int64) FieldType {
	switch ft {
	case "Tx":
		return FieldTypeText
	case "Btn":
		switch {
		case flags&flagRadio != 0:
			return FieldTypeRadio
		case flags&flagPushbutton != 0:
			return FieldTypeButton
		default:
			return FieldTypeCheckbox
		}
	case "Ch":
		return FieldTypeSelect
	case "Sig":
		return FieldTypeSignature
	default:
		return FieldTypeUnknown
	}
}
