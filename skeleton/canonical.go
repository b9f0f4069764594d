// Package skeleton turns a page's raw drawn rectangles into a
// canonical line set and then into the grid's skeleton points and
// minimal four-cornered skeleton cells.
package skeleton

import (
	"tablegrid/geometry"
	"tablegrid/primitive"
)

// CanonicalizeLines converts every raw rectangle's four edges into
// Lines, drops edges shorter than minLength, deduplicates co-linear
// lines, and merges direction flags across endpoints that land on the
// same (within eps) coordinate.
func CanonicalizeLines(rects []primitive.LineRect, eps, minLength float64) []geometry.Line {
	var raw []geometry.Line
	for _, r := range rects {
		raw = append(raw, rectEdges(r, eps, minLength)...)
	}
	return Canonicalize(raw, eps)
}

// Canonicalize deduplicates co-linear lines and merges direction flags
// across shared endpoints. It is idempotent: Canonicalize(Canonicalize(xs))
// yields the same line set as Canonicalize(xs).
func Canonicalize(lines []geometry.Line, eps float64) []geometry.Line {
	var deduped []geometry.Line
	for _, l := range lines {
		if sameLineExists(deduped, l, eps) {
			continue
		}
		deduped = append(deduped, l)
	}
	return mergeEndpointFlags(deduped, eps)
}

func rectEdges(r primitive.LineRect, eps, minLength float64) []geometry.Line {
	tl := geometry.NewPoint(r.X0, r.Y0)
	tr := geometry.NewPoint(r.X1, r.Y0)
	br := geometry.NewPoint(r.X1, r.Y1)
	bl := geometry.NewPoint(r.X0, r.Y1)

	edges := [4][2]geometry.Point{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
	out := make([]geometry.Line, 0, 4)
	for _, e := range edges {
		if e[0].Distance(e[1]) < minLength {
			continue
		}
		out = append(out, geometry.NewLine(e[0], e[1], eps))
	}
	return out
}

func sameLineExists(lines []geometry.Line, l geometry.Line, eps float64) bool {
	for _, o := range lines {
		if o.SameLine(l, eps) {
			return true
		}
	}
	return false
}

// mergeEndpointFlags unions direction flags across every endpoint that
// shares a coordinate (within eps), so a corner touched by several
// distinct edges ends up with the union of all their flags rather than
// whichever single edge happened to produce it.
func mergeEndpointFlags(lines []geometry.Line, eps float64) []geometry.Line {
	idx := newPointIndex(eps)
	for _, l := range lines {
		idx.add(l.P1)
		idx.add(l.P2)
	}

	out := make([]geometry.Line, len(lines))
	for i, l := range lines {
		out[i] = geometry.Line{
			P1:       idx.find(l.P1),
			P2:       idx.find(l.P2),
			Vertical: l.Vertical,
		}
	}
	return out
}

// pointIndex is the side-table the skeleton builder uses to merge
// direction flags into a canonical point without requiring interior
// mutability on a shared Point value.
type pointIndex struct {
	eps float64
	pts []geometry.Point
}

func newPointIndex(eps float64) *pointIndex {
	return &pointIndex{eps: eps}
}

// add inserts p, merging its flags into an existing eps-equal point if
// one is already present.
func (idx *pointIndex) add(p geometry.Point) {
	for i := range idx.pts {
		if idx.pts[i].Equal(p, idx.eps) {
			idx.pts[i].Merge(p)
			return
		}
	}
	idx.pts = append(idx.pts, p)
}

// addJunction records an intersection point: an eps-equal existing
// point is promoted to a full junction (every direction flag set); if
// none exists, p itself is appended as a full junction.
func (idx *pointIndex) addJunction(p geometry.Point) {
	found := false
	for i := range idx.pts {
		if idx.pts[i].Equal(p, idx.eps) {
			found = true
			idx.pts[i].SetAllFlags()
			idx.pts[i].Merge(p)
		}
	}
	if !found {
		p.SetAllFlags()
		idx.pts = append(idx.pts, p)
	}
}

// find returns the canonical point matching p, or p itself if absent.
func (idx *pointIndex) find(p geometry.Point) geometry.Point {
	for i := range idx.pts {
		if idx.pts[i].Equal(p, idx.eps) {
			return idx.pts[i]
		}
	}
	return p
}

func (idx *pointIndex) points() []geometry.Point {
	return idx.pts
}
