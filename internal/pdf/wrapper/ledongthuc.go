package wrapper

import (
	"fmt"
	"io"
	"math"

	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/grid"
	"github.com/ledongthuc/pdf"
)

func openContentReader(r io.ReaderAt, size int64) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while reading PDF: %v", rec)
		}
	}()

	reader, err = pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return reader, nil
}

// contentPage implements Page on top of ledongthuc/pdf.
type contentPage struct {
	page   pdf.Page
	number int
	box    Rect // visible box in PDF user space, /Rotate not applied
}

func newContentPage(p pdf.Page, number int) *contentPage {
	box, ok := boxFromValue(findInherited(p.V, "CropBox"))
	if !ok {
		box, ok = boxFromValue(findInherited(p.V, "MediaBox"))
	}
	if !ok {
		// US Letter when the page tree carries no usable box
		box = Rect{X0: 0, Y0: 0, X1: 612, Y1: 792}
	}
	return &contentPage{page: p, number: number, box: box}
}

// Number returns the 1-based page number
func (p *contentPage) Number() int {
	return p.number
}

// Size returns the dimensions of the visible page box, ignoring /Rotate
func (p *contentPage) Size() PageSize {
	return PageSize{Width: p.box.Width(), Height: p.box.Height()}
}

// Words returns the page's words in content stream order
func (p *contentPage) Words() ([]Word, error) {
	var words []Word
	err := guard(LibraryLedongthuc, "words", func() error {
		content := p.page.Content()
		words = groupWords(content.Text, p.toPage)
		return nil
	})
	return words, err
}

// Drawings returns every painted path on the page
func (p *contentPage) Drawings() ([]Drawing, error) {
	var drawings []Drawing
	err := guard(LibraryLedongthuc, "drawings", func() error {
		contents := p.page.V.Key("Contents")
		if contents.IsNull() {
			return nil
		}
		drawings = walkDrawings(contents, p.toPage)
		return nil
	})
	return drawings, err
}

// Widgets returns the page's widget annotations
func (p *contentPage) Widgets() ([]Widget, error) {
	var widgets []Widget
	err := guard(LibraryLedongthuc, "widgets", func() error {
		widgets = readWidgets(p.page.V.Key("Annots"), p.toPageRect)
		return nil
	})
	return widgets, err
}

// Tables runs grid detection over the page's straight line segments
func (p *contentPage) Tables() ([]grid.Table, error) {
	drawings, err := p.Drawings()
	if err != nil {
		return nil, err
	}
	var segments []grid.Segment
	for _, d := range drawings {
		segments = append(segments, d.Segments...)
	}
	size := p.Size()
	return grid.Detect(segments, size.Width, size.Height), nil
}

// toPage maps a point from PDF user space to top-left page space.
func (p *contentPage) toPage(x, y float64) (float64, float64) {
	return x - p.box.X0, p.box.Y1 - y
}

func (p *contentPage) toPageRect(r Rect) Rect {
	x0, y0 := p.toPage(r.X0, r.Y0)
	x1, y1 := p.toPage(r.X1, r.Y1)
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}.Normalize()
}

func findInherited(v pdf.Value, key string) pdf.Value {
	for depth := 0; !v.IsNull() && depth < maxFieldDepth; depth++ {
		if r := v.Key(key); !r.IsNull() {
			return r
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

func boxFromValue(v pdf.Value) (Rect, bool) {
	if v.Kind() != pdf.Array || v.Len() != 4 {
		return Rect{}, false
	}
	r := Rect{
		X0: v.Index(0).Float64(),
		Y0: v.Index(1).Float64(),
		X1: v.Index(2).Float64(),
		Y1: v.Index(3).Float64(),
	}.Normalize()
	if r.Width() <= 0 || r.Height() <= 0 || math.IsNaN(r.Width()) || math.IsNaN(r.Height()) {
		return Rect{}, false
	}
	return r, true
}
