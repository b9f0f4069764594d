package skeleton

import "tablegrid/geometry"

// Build computes skeleton points and skeleton cells from a
// canonicalised line set: every vertical line (at least minLength
// long) is intersected against every horizontal line; a finite
// intersection promotes the matching point (or a fresh one) to a full
// junction. The resulting point set is then walked into the minimal
// four-cornered cells.
func Build(lines []geometry.Line, eps, minLength float64) ([]geometry.Point, []Cell) {
	var vertical, horizontal []geometry.Line
	for _, l := range lines {
		if l.Vertical {
			vertical = append(vertical, l)
		} else {
			horizontal = append(horizontal, l)
		}
	}

	idx := newPointIndex(eps)
	for _, v := range vertical {
		idx.add(v.P1)
		idx.add(v.P2)
	}
	for _, h := range horizontal {
		idx.add(h.P1)
		idx.add(h.P2)
	}

	for _, v := range vertical {
		if v.Length() < minLength {
			continue
		}
		for _, h := range horizontal {
			p, ok := v.InfiniteIntersect(h)
			if !ok {
				continue
			}
			idx.addJunction(p)
		}
	}

	points := idx.points()
	return points, walkCells(points, eps)
}

// walkCells implements the grid-corner walk: for each point p1 (in
// ascending-Y order), find its right neighbour p2, then p2's bottom
// neighbour with Left set (p3) and p1's bottom neighbour with Right
// set (p4). Missing neighbours are skipped silently, which is how a
// spanning region collapses what would otherwise be two adjacent
// skeleton cells into one.
func walkCells(points []geometry.Point, eps float64) []Cell {
	ordered := append([]geometry.Point(nil), points...)
	sortPointsByY(ordered)

	var cells []Cell
	for _, p1 := range ordered {
		p2, ok := p1.GetRight(points, eps)
		if !ok {
			continue
		}
		p3, ok := p2.GetBottom(points, eps, false, true)
		if !ok {
			continue
		}
		p4, ok := p1.GetBottom(points, eps, true, false)
		if !ok {
			continue
		}
		cell := NewCell(p1, p2, p3, p4)
		if !containsCell(cells, cell, eps) {
			cells = append(cells, cell)
		}
	}
	return cells
}

func sortPointsByY(pts []geometry.Point) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && pts[j].Y < pts[j-1].Y; j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}
