package wrapper

import (
	"math"

	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/grid"
	"github.com/ledongthuc/pdf"
)

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// multiply returns m followed by n.
func (m matrix) multiply(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return x*m[0] + y*m[2] + m[4], x*m[1] + y*m[3] + m[5]
}

type point struct {
	x, y float64
}

// pathBuilder accumulates the current path in top-left page space.
type pathBuilder struct {
	ctm      matrix
	toPage   func(x, y float64) (float64, float64)
	points   []point
	segments []grid.Segment
	start    point
	current  point
	open     bool
}

func (b *pathBuilder) transform(x, y float64) point {
	dx, dy := b.ctm.apply(x, y)
	px, py := b.toPage(dx, dy)
	return point{px, py}
}

func (b *pathBuilder) moveTo(x, y float64) {
	p := b.transform(x, y)
	b.points = append(b.points, p)
	b.start, b.current, b.open = p, p, true
}

func (b *pathBuilder) lineTo(x, y float64) {
	p := b.transform(x, y)
	if !b.open {
		b.start, b.open = p, true
	} else {
		b.addSegment(b.current, p)
	}
	b.points = append(b.points, p)
	b.current = p
}

// curveTo records control points for the bounding box; curves never
// contribute straight segments.
func (b *pathBuilder) curveTo(coords ...float64) {
	for i := 0; i+1 < len(coords); i += 2 {
		b.points = append(b.points, b.transform(coords[i], coords[i+1]))
	}
	if len(b.points) > 0 {
		b.current = b.points[len(b.points)-1]
	}
	if !b.open {
		b.start, b.open = b.current, true
	}
}

func (b *pathBuilder) closePath() {
	if b.open && b.current != b.start {
		b.addSegment(b.current, b.start)
		b.current = b.start
	}
}

func (b *pathBuilder) rect(x, y, w, h float64) {
	b.moveTo(x, y)
	b.lineTo(x+w, y)
	b.lineTo(x+w, y+h)
	b.lineTo(x, y+h)
	b.closePath()
}

func (b *pathBuilder) addSegment(from, to point) {
	b.segments = append(b.segments, grid.Segment{X0: from.x, Y0: from.y, X1: to.x, Y1: to.y})
}

// finish turns the current path into a drawing and starts a new path.
func (b *pathBuilder) finish(stroked, filled bool) (Drawing, bool) {
	defer b.reset()
	if len(b.points) == 0 {
		return Drawing{}, false
	}
	box := Rect{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	for _, p := range b.points {
		box.X0 = math.Min(box.X0, p.x)
		box.Y0 = math.Min(box.Y0, p.y)
		box.X1 = math.Max(box.X1, p.x)
		box.Y1 = math.Max(box.Y1, p.y)
	}
	return Drawing{Box: box, Segments: b.segments, Stroked: stroked, Filled: filled}, true
}

func (b *pathBuilder) reset() {
	b.points = nil
	b.segments = nil
	b.open = false
}

// walkDrawings interprets a page content stream and returns one Drawing per
// painted path. Form XObjects are not entered.
func walkDrawings(contents pdf.Value, toPage func(x, y float64) (float64, float64)) []Drawing {
	var drawings []Drawing
	var stack []matrix
	b := &pathBuilder{ctm: identity, toPage: toPage}

	paint := func(stroked, filled bool) {
		if d, ok := b.finish(stroked, filled); ok {
			drawings = append(drawings, d)
		}
	}

	pdf.Interpret(contents, func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]float64, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop().Float64()
		}

		switch op {
		case "q":
			stack = append(stack, b.ctm)
		case "Q":
			if len(stack) > 0 {
				b.ctm = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
		case "cm":
			if n == 6 {
				b.ctm = matrix{args[0], args[1], args[2], args[3], args[4], args[5]}.multiply(b.ctm)
			}
		case "m":
			if n == 2 {
				b.moveTo(args[0], args[1])
			}
		case "l":
			if n == 2 {
				b.lineTo(args[0], args[1])
			}
		case "c":
			if n == 6 {
				b.curveTo(args...)
			}
		case "v", "y":
			if n == 4 {
				b.curveTo(args...)
			}
		case "h":
			b.closePath()
		case "re":
			if n == 4 {
				b.rect(args[0], args[1], args[2], args[3])
			}
		case "S":
			paint(true, false)
		case "s":
			b.closePath()
			paint(true, false)
		case "f", "F", "f*":
			b.closePath()
			paint(false, true)
		case "B", "B*", "b", "b*":
			b.closePath()
			paint(true, true)
		case "n":
			b.reset()
		}
	})

	return drawings
}
