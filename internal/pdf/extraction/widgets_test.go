package extraction

import (
	"testing"

	pdferrors "github.com/a3tai/pdf-layout-analyzer/internal/pdf/errors"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/wrapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidgetFieldType(t *testing.T) {
	tests := []struct {
		ft    string
		flags int64
		want  FieldType
	}{
		{"Tx", 0, FieldTypeText},
		{"Tx", 1 << 12, FieldTypeText},
		{"Btn", 0, FieldTypeCheckbox},
		{"Btn", 1 << 15, FieldTypeRadio},
		{"Btn", 1 << 16, FieldTypeButton},
		{"Btn", 1<<15 | 1<<14, FieldTypeRadio},
		{"Ch", 1 << 17, FieldTypeSelect},
		{"Sig", 0, FieldTypeSignature},
		{"", 0, FieldTypeUnknown},
		{"Xx", 0, FieldTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.ft+"_"+string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, WidgetFieldType(tt.ft, tt.flags))
		})
	}
}

func TestExtractInteractiveFields(t *testing.T) {
	pages := newPages(3)
	pages[0].widgets = []wrapper.Widget{
		{Name: "person.first", FieldType: "Tx", Value: "Ada", Box: wrapper.Rect{X0: 100, Y0: 72, X1: 250, Y1: 92}},
	}
	pages[1].err = errBroken
	pages[2].widgets = []wrapper.Widget{
		{Name: "agree", FieldType: "Btn", Value: "/Yes", Box: wrapper.Rect{X0: 10, Y0: 20, X1: 22, Y1: 32}},
	}

	diags := pdferrors.NewErrorCollection("form.pdf")
	got, err := ExtractInteractiveFields(&fakeDoc{pages: pages}, diags)
	require.NoError(t, err)

	require.Equal(t, 1, diags.Count())
	assert.Equal(t, pdferrors.ErrorTypeInvalidAnnotation, diags.Errors[0].Type)
	assert.Equal(t, 2, diags.Errors[0].PageNumber)
	assert.ErrorIs(t, diags.Errors[0], errBroken)

	want := []InteractiveField{
		{PageNumber: 1, Name: "person.first", Value: "Ada", BBox: BBox{100, 72, 250, 92}, Type: FieldTypeText},
		{PageNumber: 3, Name: "agree", Value: "/Yes", BBox: BBox{10, 20, 22, 32}, Type: FieldTypeCheckbox},
	}
	assert.Equal(t, want, got)
}
