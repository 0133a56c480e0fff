package wrapper

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

const (
	baselineTolerance = 0.5  // of font size
	gapTolerance      = 0.25 // of font size
	descentRatio      = 0.2
	ascentRatio       = 0.8
	// estimatedAdvance is the glyph width assumed when the font carries no
	// width table.
	estimatedAdvance = 0.5
	defaultFontSize  = 10.0
)

type wordBuilder struct {
	text     strings.Builder
	box      Rect // PDF user space
	baseline float64
	size     float64
	endX     float64
	active   bool
}

// cursor tracks where the previous glyph ended. Without a width table the
// text matrix never advances, so consecutive glyphs of one string report the
// same origin and have to be laid out from the estimated advance instead.
type cursor struct {
	rawX, rawY float64
	rawW       float64
	end        float64
	valid      bool
}

func (c *cursor) place(g pdf.Text, w float64) float64 {
	x := g.X
	if c.valid && c.rawW == 0 && g.W == 0 &&
		math.Abs(g.X-c.rawX) < 0.01 && math.Abs(g.Y-c.rawY) < 0.01 {
		x = c.end
	}
	c.rawX, c.rawY, c.rawW = g.X, g.Y, g.W
	c.end = x + w
	c.valid = true
	return x
}

// groupWords segments glyph runs into words. A word ends at whitespace, a
// baseline change, a horizontal gap or a backward jump.
func groupWords(glyphs []pdf.Text, toPage func(x, y float64) (float64, float64)) []Word {
	var words []Word
	var wb wordBuilder
	var cur cursor

	flush := func() {
		if !wb.active {
			return
		}
		text := norm.NFC.String(wb.text.String())
		if text != "" {
			x0, y0 := toPage(wb.box.X0, wb.box.Y0)
			x1, y1 := toPage(wb.box.X1, wb.box.Y1)
			words = append(words, Word{
				Text: text,
				Box:  Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}.Normalize(),
			})
		}
		wb = wordBuilder{}
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}

		size := math.Abs(g.FontSize)
		if size == 0 {
			size = defaultFontSize
		}
		w := g.W
		if w <= 0 {
			w = estimatedAdvance * size * float64(utf8.RuneCountInString(g.S))
		}

		if g.S == "\n" {
			// emitted by ledongthuc after a TJ array; it carries no position
			flush()
			continue
		}

		x := cur.place(g, w)
		if isSpace(g.S) {
			flush()
			continue
		}

		if wb.active {
			tol := gapTolerance * wb.size
			switch {
			case math.Abs(g.Y-wb.baseline) > baselineTolerance*wb.size:
				flush()
			case x-wb.endX > tol:
				flush()
			case x < wb.endX-tol:
				flush()
			}
		}

		glyphBox := Rect{
			X0: x,
			Y0: g.Y - descentRatio*size,
			X1: x + w,
			Y1: g.Y + ascentRatio*size,
		}
		if !wb.active {
			wb.active = true
			wb.baseline = g.Y
			wb.size = size
			wb.box = glyphBox
		} else {
			wb.box = wb.box.Union(glyphBox)
		}
		wb.text.WriteString(g.S)
		wb.endX = x + w
	}
	flush()

	return words
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
