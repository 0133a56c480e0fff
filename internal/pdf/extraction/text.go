package extraction

import (
	"regexp"

	pdferrors "github.com/a3tai/pdf-layout-analyzer/internal/pdf/errors"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/wrapper"
)

// listMarkerPattern matches checklist markers such as "a." or "D.".
var listMarkerPattern = regexp.MustCompile(`^[a-dA-D]\.$`)

// IsListMarker reports whether the whole token is a single letter a-d
// followed by a period.
func IsListMarker(text string) bool {
	return listMarkerPattern.MatchString(text)
}

// ExtractText returns the word tokens of every page. A page that cannot be
// read keeps its entry with an empty token list and is reported on diags.
func ExtractText(doc wrapper.Document, diags *pdferrors.ErrorCollection) (*TextContent, error) {
	content := &TextContent{Pages: make([]PageText, 0, doc.PageCount())}

	for i := 0; i < doc.PageCount(); i++ {
		entry := PageText{PageNumber: i + 1, TextAndCoords: []TextToken{}}

		page, err := doc.Page(i)
		if err != nil {
			report(diags, ExtractorText, i+1, err)
			content.Pages = append(content.Pages, entry)
			continue
		}

		size := page.Size()
		entry.Width, entry.Height = size.Width, size.Height

		words, err := page.Words()
		if err != nil {
			report(diags, ExtractorText, i+1, err)
			content.Pages = append(content.Pages, entry)
			continue
		}

		for _, w := range words {
			if w.Text == "" {
				continue
			}
			entry.TextAndCoords = append(entry.TextAndCoords, TextToken{
				Text:         w.Text,
				BBox:         bboxOf(w.Box),
				IsListMarker: IsListMarker(w.Text),
			})
		}
		content.Pages = append(content.Pages, entry)
	}

	content.PageCount = len(content.Pages)
	return content, nil
}
