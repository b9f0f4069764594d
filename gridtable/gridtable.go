// Package gridtable groups skeleton cells into a dense row/column
// grid, maps the renderer's raw cells onto that grid (so spanning
// cells appear at every position they cover), and attaches text words
// to the cell whose bounding box contains them.
package gridtable

import (
	"sort"

	"github.com/google/uuid"

	"tablegrid/geometry"
	"tablegrid/primitive"
	"tablegrid/skeleton"
)

// Rows groups skeleton cells sharing a top-edge Y into visual rows,
// each sorted by left-edge X, the rows themselves sorted by Y — the
// canonical dense row/column addressing: row index is rank by top Y,
// column index is rank within a row by left X.
func Rows(cells []skeleton.Cell) [][]skeleton.Cell {
	byY := map[int][]skeleton.Cell{}
	var ys []int
	for _, c := range cells {
		y := c.P1.Y
		if _, ok := byY[y]; !ok {
			ys = append(ys, y)
		}
		byY[y] = append(byY[y], c)
	}
	sort.Ints(ys)

	rows := make([][]skeleton.Cell, 0, len(ys))
	for _, y := range ys {
		row := byY[y]
		sort.Slice(row, func(i, j int) bool { return row[i].P1.X < row[j].P1.X })
		rows = append(rows, row)
	}
	return rows
}

// Cell is a materialised cell: a renderer-reported raw cell augmented
// with accumulated text and the words that fall inside it.
type Cell struct {
	ID             uuid.UUID
	P1, P2, P3, P4 geometry.Point
	Text           string
	Words          []primitive.Word
}

func newCell(rc primitive.RawCell) *Cell {
	return &Cell{
		ID: uuid.New(),
		P1: geometry.NewPoint(rc.X0, rc.Y0),
		P2: geometry.NewPoint(rc.X1, rc.Y0),
		P3: geometry.NewPoint(rc.X1, rc.Y1),
		P4: geometry.NewPoint(rc.X0, rc.Y1),
	}
}

// containsPoint reports strict axis-aligned bounding box containment,
// using only the cell's P1/P3 corners.
func (c *Cell) containsPoint(p geometry.Point) bool {
	return c.P1.X < p.X && p.X < c.P3.X && c.P1.Y < p.Y && p.Y < c.P3.Y
}

// Table owns the flat list of materialised cells and the sparse
// row->col->cell map in which a spanning cell appears under every
// position it covers.
type Table struct {
	Cells     []*Cell
	GlobalMap map[int]map[int]*Cell
	Rows      [][]skeleton.Cell
}

// Materialize builds a Table from the renderer's raw cells, the
// skeleton grid, the renderer's row-major "ugly table" text, and the
// page's words.
func Materialize(rawCells []primitive.RawCell, rows [][]skeleton.Cell, uglyTable [][]string, words []primitive.Word) *Table {
	cells := make([]*Cell, len(rawCells))
	for i, rc := range rawCells {
		cells[i] = newCell(rc)
	}

	globalMap := map[int]map[int]*Cell{}
	for y, skelRow := range rows {
		var textRow []string
		if y < len(uglyTable) {
			textRow = uglyTable[y]
		}
		globalMap[y] = map[int]*Cell{}
		for x, skelCell := range skelRow {
			var text string
			if x < len(textRow) {
				text = textRow[x]
			}
			center := skelCell.Center()
			for _, c := range cells {
				if c.containsPoint(center) {
					c.Text += text
					globalMap[y][x] = c
				}
			}
		}
	}

	processed := map[*Cell]bool{}
	for _, c := range cells {
		if processed[c] {
			continue
		}
		processed[c] = true
		for _, w := range words {
			if c.containsPoint(geometry.NewPoint(w.X0, w.Top)) {
				c.Words = append(c.Words, w)
			}
		}
	}

	return &Table{Cells: cells, GlobalMap: globalMap, Rows: rows}
}

// CellSpan returns the row and column span of c: the number of
// distinct rows storing c, and the number of distinct columns storing
// c within the lowest-numbered such row.
func (t *Table) CellSpan(c *Cell) (rowSpan, colSpan int) {
	var rowKeys []int
	for y := range t.GlobalMap {
		rowKeys = append(rowKeys, y)
	}
	sort.Ints(rowKeys)

	var firstRowCols int
	rowsWithCell := 0
	for _, y := range rowKeys {
		cols := 0
		for _, cell := range t.GlobalMap[y] {
			if cell == c {
				cols++
			}
		}
		if cols > 0 {
			if rowsWithCell == 0 {
				firstRowCols = cols
			}
			rowsWithCell++
		}
	}
	return rowsWithCell, firstRowCols
}
