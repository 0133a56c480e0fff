package extraction

import (
	pdferrors "github.com/a3tai/pdf-layout-analyzer/internal/pdf/errors"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/wrapper"
)

// ExtractTables collects the grids found on every page, in page order and,
// within a page, in detection order.
func ExtractTables(doc wrapper.Document, diags *pdferrors.ErrorCollection) ([]TableRegion, error) {
	tables := []TableRegion{}

	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.Page(i)
		if err != nil {
			report(diags, ExtractorTables, i+1, err)
			continue
		}

		found, err := page.Tables()
		if err != nil {
			report(diags, ExtractorTables, i+1, err)
			continue
		}

		for _, t := range found {
			tables = append(tables, TableRegion{
				PageNumber: page.Number(),
				BBox:       bboxOf(t.BBox),
				RowCount:   t.Rows,
				ColCount:   t.Cols,
			})
		}
	}

	return tables, nil
}
