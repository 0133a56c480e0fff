// Package grid infers ruled tables from the straight line segments drawn on a
// page. Segments are expected in top-left page space (y grows downward).
package grid

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"
)

const (
	axisTolerance  = 1.0   // max skew for a segment to count as horizontal/vertical
	minEdgeLength  = 2.0   // shorter segments are noise (dots, ticks)
	snapTolRatio   = 0.005 // of page width
	joinTolRatio   = 0.005 // of page width
	intersectRatio = 0.0015
	minSnapTol     = 1.0
	minCellSize    = 2.0
)

// Rect is an axis-aligned rectangle in page points.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns the area of r.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// Normalize orders the corners so that X0 <= X1 and Y0 <= Y1.
func (r Rect) Normalize() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Segment is a straight line between two points.
type Segment struct {
	X0, Y0, X1, Y1 float64
}

// Table is a detected grid of closed cells.
type Table struct {
	BBox  Rect
	Rows  int
	Cols  int
	Cells []Rect
}

type point struct {
	X, Y float64
}

type edge struct {
	pos        float64 // y for horizontal edges, x for vertical ones
	start, end float64
}

// Detect finds ruled tables in the given segments. A table needs at least two
// cells, so single rows and single columns are reported but a lone box is not.
// Tables are ordered top-to-bottom and then left-to-right.
func Detect(segments []Segment, pageWidth, pageHeight float64) []Table {
	hEdges, vEdges := splitEdges(segments)
	if !enoughEdges(hEdges, vEdges) {
		return nil
	}

	snapTol := math.Max(minSnapTol, pageWidth*snapTolRatio)
	joinTol := math.Max(minSnapTol, pageWidth*joinTolRatio)
	hEdges = mergeEdges(hEdges, snapTol, joinTol)
	vEdges = mergeEdges(vEdges, snapTol, joinTol)
	if !enoughEdges(hEdges, vEdges) {
		return nil
	}

	eps := math.Max(minSnapTol, math.Hypot(pageWidth, pageHeight)*intersectRatio)
	var tr rtree.RTreeG[point]
	findIntersections(vEdges, hEdges, &tr, eps)
	if tr.Len() < 6 {
		return nil
	}

	cells := findCells(&tr, hEdges, vEdges, eps)
	if len(cells) == 0 {
		return nil
	}
	cells = deduplicateCells(cells)

	return groupCellsIntoTables(cells, eps)
}

// enoughEdges reports whether the edges can bound two adjacent cells.
func enoughEdges(hEdges, vEdges []edge) bool {
	if len(hEdges) < 2 || len(vEdges) < 2 {
		return false
	}
	return len(hEdges) >= 3 || len(vEdges) >= 3
}

func splitEdges(segments []Segment) (hEdges, vEdges []edge) {
	for _, s := range segments {
		dx, dy := math.Abs(s.X1-s.X0), math.Abs(s.Y1-s.Y0)
		switch {
		case dy <= axisTolerance && dx >= minEdgeLength:
			hEdges = append(hEdges, edge{
				pos:   (s.Y0 + s.Y1) / 2,
				start: math.Min(s.X0, s.X1),
				end:   math.Max(s.X0, s.X1),
			})
		case dx <= axisTolerance && dy >= minEdgeLength:
			vEdges = append(vEdges, edge{
				pos:   (s.X0 + s.X1) / 2,
				start: math.Min(s.Y0, s.Y1),
				end:   math.Max(s.Y0, s.Y1),
			})
		}
	}
	return hEdges, vEdges
}

// mergeEdges snaps nearly collinear edges onto a shared position and joins
// overlapping or touching runs along that position.
func mergeEdges(edges []edge, snapTol, joinTol float64) []edge {
	if len(edges) == 0 {
		return nil
	}
	sorted := make([]edge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].pos != sorted[j].pos {
			return sorted[i].pos < sorted[j].pos
		}
		return sorted[i].start < sorted[j].start
	})

	var result []edge
	for i := 0; i < len(sorted); {
		sum := sorted[i].pos
		count := 1
		j := i + 1
		for j < len(sorted) && math.Abs(sorted[j].pos-sum/float64(count)) <= snapTol {
			sum += sorted[j].pos
			count++
			j++
		}
		snapped := sum / float64(count)

		group := make([]edge, j-i)
		copy(group, sorted[i:j])
		sort.Slice(group, func(a, b int) bool { return group[a].start < group[b].start })

		joined := edge{pos: snapped, start: group[0].start, end: group[0].end}
		for _, next := range group[1:] {
			if next.start-joined.end <= joinTol {
				joined.end = math.Max(joined.end, next.end)
				continue
			}
			result = append(result, joined)
			joined = edge{pos: snapped, start: next.start, end: next.end}
		}
		result = append(result, joined)
		i = j
	}
	return result
}

func findIntersections(vEdges, hEdges []edge, tr *rtree.RTreeG[point], eps float64) {
	for _, v := range vEdges {
		for _, h := range hEdges {
			if h.pos < v.start-eps || h.pos > v.end+eps {
				continue
			}
			if v.pos < h.start-eps || v.pos > h.end+eps {
				continue
			}
			p := point{X: v.pos, Y: h.pos}
			if _, ok := lookup(tr, p, 0.1); ok {
				continue
			}
			tr.Insert([2]float64{p.X, p.Y}, [2]float64{p.X, p.Y}, p)
		}
	}
}

func lookup(tr *rtree.RTreeG[point], p point, eps float64) (point, bool) {
	var found point
	ok := false
	tr.Search([2]float64{p.X - eps, p.Y - eps}, [2]float64{p.X + eps, p.Y + eps},
		func(_, _ [2]float64, data point) bool {
			found = data
			ok = true
			return false
		})
	return found, ok
}

func hasEdge(edges []edge, pos, from, to, eps float64) bool {
	lo, hi := math.Min(from, to), math.Max(from, to)
	for _, e := range edges {
		if math.Abs(e.pos-pos) <= eps && e.start-eps <= lo && e.end+eps >= hi {
			return true
		}
	}
	return false
}

// findCells builds, for every intersection taken as a top-left corner, the
// smallest rectangle whose four sides are all backed by edges.
func findCells(tr *rtree.RTreeG[point], hEdges, vEdges []edge, eps float64) []Rect {
	var points []point
	tr.Scan(func(_, _ [2]float64, p point) bool {
		points = append(points, p)
		return true
	})
	sort.Slice(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})

	var cells []Rect
	for _, p1 := range points {
		var right, below []point
		for _, p := range points {
			if math.Abs(p.Y-p1.Y) <= eps && p.X > p1.X+minCellSize {
				right = append(right, p)
			}
			if math.Abs(p.X-p1.X) <= eps && p.Y > p1.Y+minCellSize {
				below = append(below, p)
			}
		}
		sort.Slice(right, func(i, j int) bool { return right[i].X < right[j].X })
		sort.Slice(below, func(i, j int) bool { return below[i].Y < below[j].Y })

		if cell, ok := smallestCell(tr, p1, right, below, hEdges, vEdges, eps); ok {
			cells = append(cells, cell)
		}
	}
	return cells
}

func smallestCell(tr *rtree.RTreeG[point], p1 point, right, below []point, hEdges, vEdges []edge, eps float64) (Rect, bool) {
	for _, p3 := range below {
		if !hasEdge(vEdges, p1.X, p1.Y, p3.Y, eps) {
			continue
		}
		for _, p2 := range right {
			if !hasEdge(hEdges, p1.Y, p1.X, p2.X, eps) {
				continue
			}
			p4, ok := lookup(tr, point{X: p2.X, Y: p3.Y}, eps)
			if !ok {
				continue
			}
			if hasEdge(vEdges, p2.X, p2.Y, p4.Y, eps) && hasEdge(hEdges, p3.Y, p3.X, p4.X, eps) {
				return Rect{X0: p1.X, Y0: p1.Y, X1: p2.X, Y1: p3.Y}, true
			}
		}
	}
	return Rect{}, false
}

func deduplicateCells(cells []Rect) []Rect {
	result := make([]Rect, 0, len(cells))
	for _, c := range cells {
		duplicate := false
		for _, kept := range result {
			if nearlyEqual(c, kept) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			result = append(result, c)
		}
	}
	return result
}

func nearlyEqual(a, b Rect) bool {
	const tol = 0.5
	return math.Abs(a.X0-b.X0) <= tol && math.Abs(a.Y0-b.Y0) <= tol &&
		math.Abs(a.X1-b.X1) <= tol && math.Abs(a.Y1-b.Y1) <= tol
}

// groupCellsIntoTables joins cells that share a corner into one table.
func groupCellsIntoTables(cells []Rect, eps float64) []Table {
	parent := make([]int, len(cells))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	for i := range cells {
		for j := i + 1; j < len(cells); j++ {
			if shareCorner(cells[i], cells[j], eps) {
				parent[find(i)] = find(j)
			}
		}
	}

	groups := make(map[int][]Rect)
	var roots []int
	for i, c := range cells {
		r := find(i)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], c)
	}

	var tables []Table
	for _, r := range roots {
		group := groups[r]
		if len(group) < 2 {
			continue
		}
		rows := countDistinct(group, func(c Rect) float64 { return c.Y0 }, eps)
		cols := countDistinct(group, func(c Rect) float64 { return c.X0 }, eps)
		sort.Slice(group, func(a, b int) bool {
			if math.Abs(group[a].Y0-group[b].Y0) > eps {
				return group[a].Y0 < group[b].Y0
			}
			return group[a].X0 < group[b].X0
		})
		bbox := group[0]
		for _, c := range group[1:] {
			bbox = bbox.Union(c)
		}
		tables = append(tables, Table{BBox: bbox, Rows: rows, Cols: cols, Cells: group})
	}

	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].BBox.Y0 != tables[j].BBox.Y0 {
			return tables[i].BBox.Y0 < tables[j].BBox.Y0
		}
		return tables[i].BBox.X0 < tables[j].BBox.X0
	})
	return tables
}

func shareCorner(a, b Rect, eps float64) bool {
	ca := [4]point{{a.X0, a.Y0}, {a.X1, a.Y0}, {a.X0, a.Y1}, {a.X1, a.Y1}}
	cb := [4]point{{b.X0, b.Y0}, {b.X1, b.Y0}, {b.X0, b.Y1}, {b.X1, b.Y1}}
	for _, p := range ca {
		for _, q := range cb {
			if math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps {
				return true
			}
		}
	}
	return false
}

func countDistinct(cells []Rect, key func(Rect) float64, eps float64) int {
	values := make([]float64, 0, len(cells))
	for _, c := range cells {
		values = append(values, key(c))
	}
	sort.Float64s(values)
	count := 0
	last := math.Inf(-1)
	for _, v := range values {
		if v-last > eps {
			count++
			last = v
		}
	}
	return count
}
