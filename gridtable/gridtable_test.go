package gridtable

import (
	"testing"

	"tablegrid/geometry"
	"tablegrid/primitive"
	"tablegrid/skeleton"
)

func twoByTwoSkeleton() []skeleton.Cell {
	pt := func(x, y int) geometry.Point { return geometry.Point{X: x, Y: y} }
	return []skeleton.Cell{
		skeleton.NewCell(pt(0, 0), pt(100, 0), pt(100, 50), pt(0, 50)),
		skeleton.NewCell(pt(100, 0), pt(200, 0), pt(200, 50), pt(100, 50)),
		skeleton.NewCell(pt(0, 50), pt(100, 50), pt(100, 100), pt(0, 100)),
		skeleton.NewCell(pt(100, 50), pt(200, 50), pt(200, 100), pt(100, 100)),
	}
}

func TestRowsGroupsAndSorts(t *testing.T) {
	rows := Rows(twoByTwoSkeleton())
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if len(row) != 2 {
			t.Fatalf("got row of length %d, want 2", len(row))
		}
		if row[0].P1.X > row[1].P1.X {
			t.Fatal("row not sorted by ascending X")
		}
	}
	if rows[0][0].P1.Y > rows[1][0].P1.Y {
		t.Fatal("rows not sorted by ascending Y")
	}
}

func TestMaterializeAssignsWordsExclusively(t *testing.T) {
	rows := Rows(twoByTwoSkeleton())
	rawCells := []primitive.RawCell{
		{X0: 0, Y0: 0, X1: 100, Y1: 50},
		{X0: 100, Y0: 0, X1: 200, Y1: 50},
		{X0: 0, Y0: 50, X1: 100, Y1: 100},
		{X0: 100, Y0: 50, X1: 200, Y1: 100},
	}
	ugly := [][]string{{"A", "B"}, {"C", "D"}}
	words := []primitive.Word{
		{Text: "hello", X0: 10, Top: 10},
		{Text: "outside", X0: 9999, Top: 9999},
	}

	table := Materialize(rawCells, rows, ugly, words)

	if len(table.Cells) != 4 {
		t.Fatalf("got %d cells, want 4", len(table.Cells))
	}
	total := 0
	for _, c := range table.Cells {
		total += len(c.Words)
	}
	if total != 1 {
		t.Fatalf("got %d total assigned words, want exactly 1 (the out-of-bounds word must be dropped)", total)
	}
	if table.Cells[0].Text != "A" {
		t.Fatalf("got text %q, want %q", table.Cells[0].Text, "A")
	}
}

func TestCellSpanForSpanningCell(t *testing.T) {
	rows := Rows(twoByTwoSkeleton())
	// One raw cell spans both rows in column 0; a second covers column 1 fully split.
	rawCells := []primitive.RawCell{
		{X0: 0, Y0: 0, X1: 100, Y1: 100},
		{X0: 100, Y0: 0, X1: 200, Y1: 50},
		{X0: 100, Y0: 50, X1: 200, Y1: 100},
	}
	ugly := [][]string{{"A", "B"}, {"A", "C"}}
	table := Materialize(rawCells, rows, ugly, nil)

	spanning := table.GlobalMap[0][0]
	if spanning != table.GlobalMap[1][0] {
		t.Fatal("expected the same cell identity stored at (0,0) and (1,0)")
	}
	rowSpan, colSpan := table.CellSpan(spanning)
	if rowSpan != 2 || colSpan != 1 {
		t.Fatalf("got rowSpan=%d colSpan=%d, want 2,1", rowSpan, colSpan)
	}
}
