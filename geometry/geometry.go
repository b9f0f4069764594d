// Package geometry implements the quantised point/line primitives that
// the skeleton builder intersects to reconstruct a table's ruling
// grid: integer-quantised points carrying direction flags, and
// canonically oriented line segments with tolerance-based equality.
package geometry

import "math"

// Point is an integer-quantised 2-D coordinate carrying four direction
// flags recording which sides of a drawn line touch it. Two points are
// considered the same location iff their coordinates are within eps on
// each axis (see Equal); the struct itself stays a plain comparable
// value so it remains cheap to carry around and compare exactly when
// exact comparison is what's wanted (e.g. map keys after dedup).
type Point struct {
	X, Y                  int
	Up, Down, Left, Right bool
}

// NewPoint quantises floating point renderer coordinates by rounding
// up, matching the renderer's convention that a coordinate belongs to
// the cell it bounds from below.
func NewPoint(x, y float64) Point {
	return Point{X: int(math.Ceil(x)), Y: int(math.Ceil(y))}
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// Equal reports whether p and o refer to the same location within eps
// on each axis.
func (p Point) Equal(o Point, eps float64) bool {
	return almostEqual(float64(p.X), float64(o.X), eps) && almostEqual(float64(p.Y), float64(o.Y), eps)
}

// Distance returns the Euclidean distance between p and o.
func (p Point) Distance(o Point) float64 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Merge ORs o's direction flags into p.
func (p *Point) Merge(o Point) {
	p.Up = p.Up || o.Up
	p.Down = p.Down || o.Down
	p.Left = p.Left || o.Left
	p.Right = p.Right || o.Right
}

// SetAllFlags marks p as a full junction: every direction flag set.
// Used by the skeleton builder to promote a point to "on a drawn grid
// crossing" status once an intersection lands on it.
func (p *Point) SetAllFlags() {
	p.Up, p.Down, p.Left, p.Right = true, true, true, true
}

// PointsToRight returns the points from others on the same horizontal
// line as p (within eps), strictly to p's right, excluding points that
// are themselves within eps of p, sorted by ascending X.
func (p Point) PointsToRight(others []Point, eps float64) []Point {
	out := make([]Point, 0, len(others))
	for _, o := range others {
		if !almostEqual(float64(p.Y), float64(o.Y), eps) {
			continue
		}
		if p.Equal(o, eps) {
			continue
		}
		if o.X <= p.X {
			continue
		}
		out = append(out, o)
	}
	sortPointsBy(out, func(a Point) int { return a.X })
	return out
}

// PointsBelow returns the points from others on the same vertical line
// as p (within eps), strictly below p, excluding points within eps of
// p, sorted by ascending Y.
func (p Point) PointsBelow(others []Point, eps float64) []Point {
	out := make([]Point, 0, len(others))
	for _, o := range others {
		if !almostEqual(float64(p.X), float64(o.X), eps) {
			continue
		}
		if p.Equal(o, eps) {
			continue
		}
		if o.Y <= p.Y {
			continue
		}
		out = append(out, o)
	}
	sortPointsBy(out, func(a Point) int { return a.Y })
	return out
}

func sortPointsBy(pts []Point, key func(Point) int) {
	// insertion sort: candidate lists are small (a handful of grid
	// neighbours), and a stable tie-break matters more than raw speed.
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && key(pts[j]) < key(pts[j-1]); j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}

// GetRight returns the leftmost point to the right of p whose Down flag
// is set — the next column-neighbour that also anchors a line heading
// down, i.e. a candidate top-right corner of a skeleton cell.
func (p Point) GetRight(others []Point, eps float64) (Point, bool) {
	for _, o := range p.PointsToRight(others, eps) {
		if o.Down {
			return o, true
		}
	}
	return Point{}, false
}

// GetBottom returns the topmost point below p whose Up flag is set. If
// left is requested the candidate must also have its Right flag set
// (it anchors a line heading right, along the cell's bottom edge); if
// right is requested the candidate must have its Left flag set. At most one of
// left/right should be requested at a time.
func (p Point) GetBottom(others []Point, eps float64, left, right bool) (Point, bool) {
	for _, o := range p.PointsBelow(others, eps) {
		if !o.Up {
			continue
		}
		if left && !o.Right {
			continue
		}
		if right && !o.Left {
			continue
		}
		return o, true
	}
	return Point{}, false
}

// Line is a canonically oriented segment: vertical lines have P1 above
// P2, horizontal lines have P1 left of P2. Equality between lines is
// co-linearity (see SameLine), not endpoint identity.
type Line struct {
	P1, P2   Point
	Vertical bool
}

// NewLine canonically orients (p1,p2) and stamps direction flags onto
// the (possibly swapped) endpoints it returns as part of the Line:
// vertical lines get P1.Down and P2.Up; horizontal lines get P1.Right
// and P2.Left.
func NewLine(p1, p2 Point, eps float64) Line {
	vertical := almostEqual(float64(p1.X), float64(p2.X), eps)
	if vertical {
		if p1.Y > p2.Y {
			p1, p2 = p2, p1
		}
		p1.Down = true
		p2.Up = true
	} else {
		if p2.X < p1.X {
			p1, p2 = p2, p1
		}
		p1.Right = true
		p2.Left = true
	}
	return Line{P1: p1, P2: p2, Vertical: vertical}
}

// Length returns the Euclidean length of the segment.
func (l Line) Length() float64 {
	return l.P1.Distance(l.P2)
}

// SameLine reports whether l and o are co-linear: both vertical with
// the same (eps-equal) X, or both horizontal with the same Y.
func (l Line) SameLine(o Line, eps float64) bool {
	if l.Vertical != o.Vertical {
		return false
	}
	if l.Vertical {
		return almostEqual(float64(l.P1.X), float64(o.P1.X), eps)
	}
	return almostEqual(float64(l.P1.Y), float64(o.P1.Y), eps)
}

// Parallel reports whether l and o share an orientation.
func (l Line) Parallel(o Line) bool {
	return l.Vertical == o.Vertical
}

// Corner reports whether l and o share an endpoint, mirroring the
// original engine's corner test exactly (including its asymmetry: it
// does not check l.P2 against o.P1).
func (l Line) Corner(o Line, eps float64) bool {
	if l.P1.Equal(o.P1, eps) || l.P2.Equal(o.P2, eps) || l.P1.Equal(o.P2, eps) {
		return true
	}
	return false
}

// OnCorners reports whether p is one of l's two endpoints.
func (l Line) OnCorners(p Point, eps float64) bool {
	return p.Equal(l.P1, eps) || p.Equal(l.P2, eps)
}

// IsBetween reports whether point lies on the finite segment l, using
// a cross-product tolerance (the deliberately loose math.E constant
// carried over from the original engine) plus projection-length
// bounds.
func (l Line) IsBetween(point Point) bool {
	pt1, pt2 := l.P1, l.P2
	cross := float64((point.Y-pt1.Y)*(pt2.X-pt1.X) - (point.X-pt1.X)*(pt2.Y-pt1.Y))
	if math.Abs(cross) > math.E {
		return false
	}
	dot := float64((point.X-pt1.X)*(pt2.X-pt1.X) + (point.Y-pt1.Y)*(pt2.Y-pt1.Y))
	if dot < 0 {
		return false
	}
	sqLen := float64((pt2.X-pt1.X)*(pt2.X-pt1.X) + (pt2.Y-pt1.Y)*(pt2.Y-pt1.Y))
	if dot > sqLen {
		return false
	}
	return true
}

// OnLine reports whether point lies on l's infinite extension: for a
// vertical line, its X matches; for a horizontal line, its Y matches.
func (l Line) OnLine(point Point, eps float64) bool {
	if l.Vertical {
		return almostEqual(float64(l.P1.X), float64(point.X), eps)
	}
	return almostEqual(float64(l.P1.Y), float64(point.Y), eps)
}

// InfiniteIntersect returns the intersection of the infinite lines
// containing l and o. ok is false when the lines are parallel
// (determinant is exactly zero).
func (l Line) InfiniteIntersect(o Line) (Point, bool) {
	x1, y1 := float64(l.P1.X), float64(l.P1.Y)
	x2, y2 := float64(l.P2.X), float64(l.P2.Y)
	x3, y3 := float64(o.P1.X), float64(o.P1.Y)
	x4, y4 := float64(o.P2.X), float64(o.P2.Y)

	xDiff1, xDiff2 := x1-x2, x3-x4
	yDiff1, yDiff2 := y1-y2, y3-y4

	div := xDiff1*yDiff2 - yDiff1*xDiff2
	if div == 0 {
		return Point{}, false
	}

	d1 := x1*y2 - y1*x2
	d2 := x3*y4 - y3*x4

	x := (d1*xDiff2 - d2*xDiff1) / div
	y := (d1*yDiff2 - d2*yDiff1) / div
	return NewPoint(x, y), true
}

// Intersects is the bounded segment-intersection predicate: it
// computes the parametric r (position along l) and s (position along
// o) of the infinite intersection and accepts it as a true segment
// crossing iff both are at most 1 and at least -0.1 — a deliberate
// small-negative slack for grid-corner touches. It also short-circuits
// false when a vertical operand's own Y span does not cover the other
// line's Y (checked only when that operand was not canonically
// oriented, which NewLine never produces — the check matters only for
// Line values built directly as struct literals).
func (l Line) Intersects(o Line) bool {
	x1, y1 := float64(l.P1.X), float64(l.P1.Y)
	x2, y2 := float64(l.P2.X), float64(l.P2.Y)
	xa, ya := float64(o.P1.X), float64(o.P1.Y)
	xb, yb := float64(o.P2.X), float64(o.P2.Y)

	if l.Vertical {
		if y1 > y2 {
			if !(y1 >= ya && ya >= y2) {
				return false
			}
		}
	} else {
		if ya > yb {
			if !(ya >= y1 && y1 >= yb) {
				return false
			}
		}
	}

	const detTolerance = 0.0001
	dx1, dy1 := x2-x1, y2-y1
	dx, dy := xb-xa, yb-ya
	det := -dx1*dy + dy1*dx
	if math.Abs(det) < detTolerance {
		return false
	}
	detInv := 1.0 / det
	r := detInv * (-dy*(xa-x1) + dx*(ya-y1))
	s := detInv * (-dy1*(xa-x1) + dx1*(ya-y1))
	if r > 1 || s > 1 {
		return false
	}
	return r >= -0.1 && s >= -0.1
}

// Crosses reports whether l and o intersect within their finite
// segments: they must have different orientations (two co-oriented
// lines never form a grid crossing), and then it defers to Intersects.
func (l Line) Crosses(o Line) bool {
	if l.Vertical == o.Vertical {
		return false
	}
	return l.Intersects(o)
}

// Connected reports whether either endpoint of o lies on l's finite
// segment.
func (l Line) Connected(o Line) bool {
	return l.IsBetween(o.P1) || l.IsBetween(o.P2)
}
