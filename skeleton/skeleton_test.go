package skeleton

import (
	"testing"

	"tablegrid/geometry"
	"tablegrid/primitive"
)

const (
	eps       = 5.0
	minLength = 3.0
)

func gridRects() []primitive.LineRect {
	// A 2x2 grid: outer border plus one internal vertical and one
	// internal horizontal divider, each drawn as a degenerate
	// (zero-width or zero-height) "line rectangle".
	return []primitive.LineRect{
		{X0: 0, Y0: 0, X1: 200, Y1: 0},     // top border
		{X0: 0, Y0: 100, X1: 200, Y1: 100}, // bottom border
		{X0: 0, Y0: 0, X1: 0, Y1: 100},     // left border
		{X0: 200, Y0: 0, X1: 200, Y1: 100}, // right border
		{X0: 100, Y0: 0, X1: 100, Y1: 100}, // internal vertical divider
		{X0: 0, Y0: 50, X1: 200, Y1: 50},   // internal horizontal divider
	}
}

func TestBuildProducesFourCells(t *testing.T) {
	lines := CanonicalizeLines(gridRects(), eps, minLength)
	points, cells := Build(lines, eps, minLength)

	if len(points) != 9 {
		t.Fatalf("got %d skeleton points, want 9 (3x3 grid of corners)", len(points))
	}
	if len(cells) != 4 {
		t.Fatalf("got %d skeleton cells, want 4", len(cells))
	}
}

func TestBuildSpanningRegionCollapsesCells(t *testing.T) {
	// Same grid but with the internal horizontal divider removed
	// entirely: with only two distinct rows (y=0, y=100) instead of
	// three, each of the two columns becomes one full-height spanning
	// cell instead of two stacked ones.
	rects := []primitive.LineRect{
		{X0: 0, Y0: 0, X1: 200, Y1: 0},
		{X0: 0, Y0: 100, X1: 200, Y1: 100},
		{X0: 0, Y0: 0, X1: 0, Y1: 100},
		{X0: 200, Y0: 0, X1: 200, Y1: 100},
		{X0: 100, Y0: 0, X1: 100, Y1: 100},
	}
	lines := CanonicalizeLines(rects, eps, minLength)
	_, cells := Build(lines, eps, minLength)

	if len(cells) != 2 {
		t.Fatalf("got %d cells, want 2 (each spanning the full height)", len(cells))
	}
	for _, c := range cells {
		if c.P3.Y-c.P1.Y != 100 {
			t.Fatalf("cell %+v does not span the full height", c)
		}
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	lines := CanonicalizeLines(gridRects(), eps, minLength)
	once := Canonicalize(lines, eps)
	twice := Canonicalize(once, eps)

	if len(once) != len(twice) {
		t.Fatalf("canon(canon(xs)) changed line count: %d vs %d", len(once), len(twice))
	}
	for _, a := range once {
		if !sameLineExists(twice, a, eps) {
			t.Fatalf("line %+v present in canon(xs) missing from canon(canon(xs))", a)
		}
	}
}

func TestCellEqualIsRotationInvariant(t *testing.T) {
	p1 := geometry.Point{X: 0, Y: 0}
	p2 := geometry.Point{X: 10, Y: 0}
	p3 := geometry.Point{X: 10, Y: 10}
	p4 := geometry.Point{X: 0, Y: 10}

	a := NewCell(p1, p2, p3, p4)
	b := NewCell(p2, p3, p4, p1)
	if !a.Equal(b, eps) {
		t.Fatal("expected rotated corner order to compare equal")
	}
}
