package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"tablegrid/geometry"
	"tablegrid/gridtable"
	"tablegrid/primitive"
	"tablegrid/skeleton"
	"tablegrid/title"
	"tablegrid/writer"
)

// ExtractedTable is one candidate table recovered from a page, paired
// with its title extraction outcome.
type ExtractedTable struct {
	Table *gridtable.Table
	Info  title.Info
}

type pageExtraction struct {
	page    primitive.Page
	tables  []ExtractedTable
	skipped []SkippedEntry
	err     error
}

// Run reconstructs every table across pages. Per-page extraction
// (geometry canonicalisation through title lookup) runs concurrently
// across a bounded worker pool, since each page is independent; the
// results are then fed into a single Reconciler strictly in ascending
// page order, because reconciliation carries continuation state that
// only makes sense processed serially.
func Run(ctx context.Context, pages []primitive.Page, cfg Config) (*Result, error) {
	extracted := make([]pageExtraction, len(pages))

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, p := range pages {
		wg.Add(1)
		go func(i int, p primitive.Page) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			extracted[i] = extractPage(p, cfg)
		}(i, p)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(extracted, func(i, j int) bool { return extracted[i].page.Number < extracted[j].page.Number })

	rc := NewReconciler(cfg)
	result := rc.Result()

	for _, pe := range extracted {
		if pe.err != nil {
			result.addError(fmt.Errorf("page %d: %w", pe.page.Number, pe.err))
			result.TotalPagesProcessed++
			continue
		}

		if cfg.MaxTablesPerPage > 0 && len(pe.page.Tables) > cfg.MaxTablesPerPage {
			result.addSkipped(SkippedEntry{Page: pe.page.Number, TableIndex: -1, Reason: "page explosion"})
			result.TotalPagesProcessed++
			continue
		}

		for _, sk := range pe.skipped {
			result.addSkipped(sk)
		}
		for idx, et := range pe.tables {
			if err := rc.Handle(pe.page.Number, idx, et.Table, et.Info); err != nil {
				result.addError(fmt.Errorf("page %d table %d: %w", pe.page.Number, idx, err))
			}
		}
		result.TotalPagesProcessed++
	}

	return result, nil
}

func extractPage(p primitive.Page, cfg Config) (pe pageExtraction) {
	pe.page = p
	defer func() {
		if r := recover(); r != nil {
			pe.err = fmt.Errorf("panic recovered while extracting page %d: %v", p.Number, r)
		}
	}()

	for idx, region := range p.Tables {
		lines := skeleton.CanonicalizeLines(region.Lines, cfg.Epsilon, cfg.MinSegmentLength)
		_, skelCells := skeleton.Build(lines, cfg.Epsilon, cfg.MinSegmentLength)
		if len(skelCells) == 0 {
			pe.skipped = append(pe.skipped, SkippedEntry{Page: p.Number, TableIndex: idx, Reason: "degenerate geometry"})
			continue
		}

		rows := gridtable.Rows(skelCells)
		table := gridtable.Materialize(region.RawCells, rows, region.UglyTable, p.Words)
		if len(table.Cells) == 0 {
			pe.skipped = append(pe.skipped, SkippedEntry{Page: p.Number, TableIndex: idx, Reason: "degenerate geometry"})
			continue
		}

		bbox := tableBBox(table)
		info := title.Extract(bbox, p.Words, cfg.TitleMargin, cfg.LineTolerance)

		if cfg.Rpt != nil {
			storeDebugArtifacts(cfg.Rpt, p.Number, idx, lines, skelCells, region.UglyTable, table)
		}

		pe.tables = append(pe.tables, ExtractedTable{Table: table, Info: info})
	}
	return pe
}

// storeDebugArtifacts stashes one region's intermediate pipeline state
// into the debug report: the canonicalised ruling lines, the skeleton
// points each cell resolves to, the renderer's raw ugly table, and the
// CSV the region materialises to. Marshal errors are swallowed here
// since a missing debug artifact must never fail a reconstruction run.
func storeDebugArtifacts(rpt Reporter, page, tableIdx int, lines []geometry.Line, cells []skeleton.Cell, ugly [][]string, table *gridtable.Table) {
	base := fmt.Sprintf("debug/page-%03d/table-%02d", page, tableIdx)

	if data, err := json.MarshalIndent(lines, "", "  "); err == nil {
		rpt.StoreData(base+"/lines.json", data)
	}
	if data, err := json.MarshalIndent(cells, "", "  "); err == nil {
		rpt.StoreData(base+"/skeleton_cells.json", data)
	}
	if data, err := json.MarshalIndent(ugly, "", "  "); err == nil {
		rpt.StoreData(base+"/ugly_table.json", data)
	}
	if data, err := writer.RenderCSV(table); err == nil {
		rpt.StoreData(base+"/table.csv", data)
	}
}

func tableBBox(t *gridtable.Table) title.BBox {
	var bbox title.BBox
	for i, c := range t.Cells {
		x0, y0, x1, y1 := float64(c.P1.X), float64(c.P1.Y), float64(c.P3.X), float64(c.P3.Y)
		if i == 0 {
			bbox = title.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
			continue
		}
		if x0 < bbox.X0 {
			bbox.X0 = x0
		}
		if y0 < bbox.Y0 {
			bbox.Y0 = y0
		}
		if x1 > bbox.X1 {
			bbox.X1 = x1
		}
		if y1 > bbox.Y1 {
			bbox.Y1 = y1
		}
	}
	return bbox
}
