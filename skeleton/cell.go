package skeleton

import "tablegrid/geometry"

// Cell is the minimal four-cornered polygon between four adjacent
// skeleton points: P1 top-left, P2 top-right, P3 bottom-right, P4
// bottom-left.
type Cell struct {
	P1, P2, P3, P4 geometry.Point
}

// NewCell builds a skeleton cell from its four corners.
func NewCell(p1, p2, p3, p4 geometry.Point) Cell {
	return Cell{P1: p1, P2: p2, P3: p3, P4: p4}
}

func (c Cell) corners() [4]geometry.Point {
	return [4]geometry.Point{c.P1, c.P2, c.P3, c.P4}
}

// Equal reports whether c and o describe the same quadrilateral,
// invariant under cyclic rotation of the corners.
func (c Cell) Equal(o Cell, eps float64) bool {
	a := c.corners()
	b := o.corners()
	for shift := 0; shift < 4; shift++ {
		match := true
		for i := 0; i < 4; i++ {
			if !a[i].Equal(b[(i+shift)%4], eps) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Center returns the centroid of the cell's four corners.
func (c Cell) Center() geometry.Point {
	return geometry.Point{
		X: (c.P1.X + c.P2.X + c.P3.X + c.P4.X) / 4,
		Y: (c.P1.Y + c.P2.Y + c.P3.Y + c.P4.Y) / 4,
	}
}

// OnSameRow reports whether c and o share a top-edge Y, i.e. belong to
// the same visual row.
func (c Cell) OnSameRow(o Cell) bool {
	return c.P1.Y == o.P1.Y
}

func containsCell(cells []Cell, c Cell, eps float64) bool {
	for _, o := range cells {
		if o.Equal(c, eps) {
			return true
		}
	}
	return false
}
