package wrapper

import (
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

func readWidgets(annots pdf.Value, toPageRect func(Rect) Rect) []Widget {
	var widgets []Widget
	for i := 0; i < annots.Len(); i++ {
		annot := annots.Index(i)
		if annot.Key("Subtype").Name() != "Widget" {
			continue
		}
		box, ok := boxFromValue(annot.Key("Rect"))
		if !ok {
			continue
		}
		widgets = append(widgets, Widget{
			Name:      qualifiedName(annot),
			FieldType: findInherited(annot, "FT").Name(),
			Flags:     findInherited(annot, "Ff").Int64(),
			Value:     valueText(findInherited(annot, "V")),
			Box:       toPageRect(box),
		})
	}
	return widgets
}

// qualifiedName joins the partial /T names from the root field down to v.
func qualifiedName(v pdf.Value) string {
	var parts []string
	for depth := 0; !v.IsNull() && depth < maxFieldDepth; depth++ {
		if t := v.Key("T"); t.Kind() == pdf.String {
			parts = append(parts, t.Text())
		}
		v = v.Key("Parent")
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// valueText renders a field value the way it appears to a reader of the
// form: strings decoded, names with their leading slash.
func valueText(v pdf.Value) string {
	switch v.Kind() {
	case pdf.String:
		return v.Text()
	case pdf.Name:
		return "/" + v.Name()
	case pdf.Integer:
		return strconv.FormatInt(v.Int64(), 10)
	case pdf.Real:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case pdf.Bool:
		return strconv.FormatBool(v.Bool())
	case pdf.Array:
		items := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			items = append(items, valueText(v.Index(i)))
		}
		return strings.Join(items, ", ")
	default:
		return ""
	}
}
