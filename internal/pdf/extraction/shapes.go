package extraction

import (
	pdferrors "github.com/a3tai/pdf-layout-analyzer/internal/pdf/errors"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/wrapper"
)

// Shape thresholds in absolute PDF points.
const (
	lineMaxHeight      = 5.0
	lineMinWidth       = 20.0
	boxMinSide         = 8.0
	boxMaxPageFraction = 0.9
)

// ClassifyShape decides whether a drawn rectangle is an underline-style line
// or a bordered box. Rules are applied in order and the first match wins;
// shapes matching neither are discarded (ok is false). Boxes spanning nearly
// the full page width are page borders and are discarded too.
func ClassifyShape(rect wrapper.Rect, pageWidth float64) (kind ShapeKind, ok bool) {
	rect = rect.Normalize()
	width, height := rect.Width(), rect.Height()

	if height < lineMaxHeight && width > lineMinWidth {
		return ShapeLine, true
	}
	if height > boxMinSide && width > boxMinSide && width < boxMaxPageFraction*pageWidth {
		return ShapeBox, true
	}
	return "", false
}

// ExtractVisualElements classifies the drawings of every page. Each page gets
// an entry, possibly with empty lists.
func ExtractVisualElements(doc wrapper.Document, diags *pdferrors.ErrorCollection) ([]PageShapes, error) {
	elements := make([]PageShapes, 0, doc.PageCount())

	for i := 0; i < doc.PageCount(); i++ {
		entry := PageShapes{PageNumber: i + 1, Lines: []BBox{}, Boxes: []BBox{}}

		page, err := doc.Page(i)
		if err != nil {
			report(diags, ExtractorVisualElements, i+1, err)
			elements = append(elements, entry)
			continue
		}

		drawings, err := page.Drawings()
		if err != nil {
			report(diags, ExtractorVisualElements, i+1, err)
			elements = append(elements, entry)
			continue
		}

		pageWidth := page.Size().Width
		for _, d := range drawings {
			kind, ok := ClassifyShape(d.Box, pageWidth)
			if !ok {
				continue
			}
			switch kind {
			case ShapeLine:
				entry.Lines = append(entry.Lines, bboxOf(d.Box))
			case ShapeBox:
				entry.Boxes = append(entry.Boxes, bboxOf(d.Box))
			}
		}
		elements = append(elements, entry)
	}

	return elements, nil
}
