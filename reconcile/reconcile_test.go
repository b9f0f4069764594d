package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tablegrid/geometry"
	"tablegrid/gridtable"
	"tablegrid/primitive"
	"tablegrid/skeleton"
	"tablegrid/title"
)

func oneByTwoTable(headerText, rowText string) *gridtable.Table {
	pt := func(x, y int) geometry.Point { return geometry.Point{X: x, Y: y} }
	rows := gridtable.Rows([]skeleton.Cell{
		skeleton.NewCell(pt(0, 0), pt(100, 0), pt(100, 50), pt(0, 50)),
		skeleton.NewCell(pt(0, 50), pt(100, 50), pt(100, 100), pt(0, 100)),
	})
	rawCells := []primitive.RawCell{
		{X0: 0, Y0: 0, X1: 100, Y1: 50},
		{X0: 0, Y0: 50, X1: 100, Y1: 100},
	}
	ugly := [][]string{{headerText}, {rowText}}
	return gridtable.Materialize(rawCells, rows, ugly, nil)
}

func baseConfig(t *testing.T) Config {
	return Config{
		Epsilon:          5,
		MinSegmentLength: 3,
		TitleMargin:      25,
		LineTolerance:    2,
		MaxTablesPerPage: 5,
		OutputDir:        t.TempDir(),
		Format:           FormatCSV,
	}
}

func TestHandleSkipsTableWithNoTitle(t *testing.T) {
	rc := NewReconciler(baseConfig(t))
	if err := rc.Handle(1, 0, oneByTwoTable("h", "r"), title.Info{}); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if len(rc.Result().Skipped) != 1 {
		t.Fatalf("got %d skipped entries, want 1", len(rc.Result().Skipped))
	}
	if rc.Result().Skipped[0].Reason != "No table title found" {
		t.Fatalf("got reason %q", rc.Result().Skipped[0].Reason)
	}
}

func TestHandleSavesNewTableAndMergesContinuation(t *testing.T) {
	rc := NewReconciler(baseConfig(t))

	first := oneByTwoTable("Header", "RowA")
	err := rc.Handle(1, 0, first, title.Info{HasTitle: true, CleanTitle: "Widget specs", TableNumber: "1"})
	if err != nil {
		t.Fatalf("Handle(first) error: %v", err)
	}
	if len(rc.Result().Success) != 1 {
		t.Fatalf("got %d success entries, want 1", len(rc.Result().Success))
	}
	if _, err := os.Stat(rc.Result().Success[0].CSVPath); err != nil {
		t.Fatalf("expected csv file written: %v", err)
	}

	second := oneByTwoTable("Header", "RowB")
	err = rc.Handle(2, 0, second, title.Info{
		HasTitle: true, IsContinued: true, CleanTitle: "Widget specs", TableNumber: "1",
	})
	if err != nil {
		t.Fatalf("Handle(continuation) error: %v", err)
	}
	if len(rc.Result().Merged) != 1 {
		t.Fatalf("got %d merged entries, want 1", len(rc.Result().Merged))
	}
	if len(rc.Result().Success) != 1 {
		t.Fatal("a merge must not add a second success entry")
	}

	merged := rc.last.table
	if len(merged.GlobalMap) != 3 {
		t.Fatalf("got %d merged rows, want 3 (1 header + 1 original + 1 appended)", len(merged.GlobalMap))
	}
	if merged.GlobalMap[2][0].Text != "RowB" {
		t.Fatalf("expected appended row text RowB at row 2, got %q", merged.GlobalMap[2][0].Text)
	}
}

func TestHandleSkipsUnmatchedContinuation(t *testing.T) {
	rc := NewReconciler(baseConfig(t))
	err := rc.Handle(1, 0, oneByTwoTable("h", "r"), title.Info{
		HasTitle: true, IsContinued: true, CleanTitle: "Orphan continuation",
	})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if len(rc.Result().Skipped) != 1 || rc.Result().Skipped[0].Reason != "Continuation with no matching previous table" {
		t.Fatalf("got %+v", rc.Result().Skipped)
	}
}

func gridRects(w, h, xSplit, ySplit float64) []primitive.LineRect {
	return gridRectsAt(0, w, h, xSplit, ySplit)
}

func gridRectsAt(yOffset, w, h, xSplit, ySplit float64) []primitive.LineRect {
	return []primitive.LineRect{
		{X0: 0, Y0: yOffset, X1: w, Y1: yOffset},
		{X0: 0, Y0: yOffset + h, X1: w, Y1: yOffset + h},
		{X0: 0, Y0: yOffset, X1: 0, Y1: yOffset + h},
		{X0: w, Y0: yOffset, X1: w, Y1: yOffset + h},
		{X0: xSplit, Y0: yOffset, X1: xSplit, Y1: yOffset + h},
		{X0: 0, Y0: yOffset + ySplit, X1: w, Y1: yOffset + ySplit},
	}
}

func TestRunProducesSuccessEntryForSingleTablePage(t *testing.T) {
	dir := t.TempDir()
	page := primitive.Page{
		Number: 1,
		Tables: []primitive.TableRegion{
			{
				Lines:     gridRectsAt(40, 200, 100, 100, 50),
				RawCells:  []primitive.RawCell{{X0: 0, Y0: 40, X1: 200, Y1: 90}, {X0: 0, Y0: 90, X1: 200, Y1: 140}},
				UglyTable: [][]string{{"Table 1. Voltage levels", ""}, {"3.3V", "ok"}},
			},
		},
		Words: []primitive.Word{
			{Text: "Table", X0: 10, Top: 25},
			{Text: "1.", X0: 55, Top: 25},
			{Text: "Voltage", X0: 75, Top: 25},
			{Text: "levels", X0: 120, Top: 25},
		},
	}

	cfg := baseConfig(t)
	cfg.OutputDir = dir
	result, err := Run(context.Background(), []primitive.Page{page}, cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.TotalPagesProcessed != 1 {
		t.Fatalf("got %d pages processed, want 1", result.TotalPagesProcessed)
	}
	if len(result.Success) != 1 {
		t.Fatalf("got %d success entries, want 1: %+v", len(result.Success), result.Skipped)
	}
	if result.Success[0].Title != "Voltage levels" {
		t.Fatalf("got title %q", result.Success[0].Title)
	}
	if _, err := os.Stat(filepath.Join(dir, result.Success[0].Files[0])); err != nil {
		t.Fatalf("expected saved csv file: %v", err)
	}
}

func TestRunSkipsPageExceedingMaxTablesPerPage(t *testing.T) {
	var regions []primitive.TableRegion
	for i := 0; i < 6; i++ {
		regions = append(regions, primitive.TableRegion{
			Lines:     gridRects(100, 50, 50, 25),
			RawCells:  []primitive.RawCell{{X0: 0, Y0: 0, X1: 100, Y1: 25}, {X0: 0, Y0: 25, X1: 100, Y1: 50}},
			UglyTable: [][]string{{"a"}, {"b"}},
		})
	}
	page := primitive.Page{Number: 1, Tables: regions}

	cfg := baseConfig(t)
	result, err := Run(context.Background(), []primitive.Page{page}, cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.TotalPagesProcessed != 1 {
		t.Fatalf("got %d pages processed, want 1", result.TotalPagesProcessed)
	}
	if len(result.Success) != 0 {
		t.Fatalf("expected the whole page discarded, got success=%d", len(result.Success))
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != "page explosion" {
		t.Fatalf("expected one skipped entry with reason 'page explosion', got %+v", result.Skipped)
	}
	if result.Skipped[0].Page != 1 {
		t.Fatalf("got skipped page %d, want 1", result.Skipped[0].Page)
	}
}

func TestRunRecordsDegenerateGeometrySkip(t *testing.T) {
	page := primitive.Page{
		Number: 1,
		Tables: []primitive.TableRegion{
			{UglyTable: [][]string{{"a"}}},
		},
	}

	result, err := Run(context.Background(), []primitive.Page{page}, baseConfig(t))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(result.Success) != 0 {
		t.Fatalf("expected no success entries, got %d", len(result.Success))
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != "degenerate geometry" {
		t.Fatalf("expected one skipped entry with reason 'degenerate geometry', got %+v", result.Skipped)
	}
}
