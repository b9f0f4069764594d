package reconcile

import (
	"fmt"
	"path/filepath"
	"sort"

	"tablegrid/gridtable"
	"tablegrid/title"
	"tablegrid/writer"
)

// Format selects which file formats are written for each saved table.
type Format int

const (
	FormatCSV Format = iota
	FormatExcel
	FormatBoth
)

// Reporter accepts named debug artifacts produced while reconstructing
// a run; *config.Report satisfies it. Left nil, no debug artifacts are
// stored.
type Reporter interface {
	StoreData(name string, data []byte)
}

// Config controls where and how reconstructed tables are written, the
// geometry tunables the extraction pipeline uses, and the noise guard
// applied to pages that expose too many candidate tables.
type Config struct {
	Epsilon          float64
	MinSegmentLength float64
	TitleMargin      float64
	LineTolerance    float64
	MaxTablesPerPage int
	Workers          int

	OutputDir     string
	Format        Format
	FixZip        bool
	Transliterate bool

	// Rpt, when set, receives per-region debug artifacts (canonicalised
	// lines, skeleton cells, the raw ugly table, the rendered CSV) as
	// extraction runs, matching how the teacher's debug report
	// accumulates conversion artifacts under --debug.
	Rpt Reporter
}

type continuation struct {
	table    *gridtable.Table
	title    string
	page     int
	csvPath  string
	xlsxPath string
}

// Reconciler carries the single-previous-table window across pages.
// Callers must invoke Handle in ascending page order: it owns mutable
// state (the previous table awaiting a possible continuation) that
// only makes sense under a strict serial order.
type Reconciler struct {
	cfg    Config
	last   *continuation
	result *Result
}

// NewReconciler returns a Reconciler with an empty run report.
func NewReconciler(cfg Config) *Reconciler {
	return &Reconciler{cfg: cfg, result: NewResult()}
}

// Result returns the report accumulated so far.
func (rc *Reconciler) Result() *Result { return rc.result }

// Handle processes one candidate table found on a page: it is skipped
// if it carries no title, merged into the previous table if it is a
// matching continuation, or saved fresh otherwise. page is the
// renderer's 1-indexed page number; tableIdx is the table's position
// within that page's own candidate list, used only for reporting.
func (rc *Reconciler) Handle(page, tableIdx int, table *gridtable.Table, info title.Info) error {
	if len(table.Cells) == 0 {
		return nil
	}

	if !info.HasTitle {
		rc.result.addSkipped(SkippedEntry{Page: page, TableIndex: tableIdx, Reason: "No table title found"})
		return nil
	}

	if info.IsContinued {
		if rc.last != nil && rc.last.title == info.CleanTitle {
			mergeRows(rc.last.table, table)
			if err := rc.save(rc.last.table, rc.last.csvPath, rc.last.xlsxPath); err != nil {
				return fmt.Errorf("unable to re-save merged table on page %d: %w", page, err)
			}
			rc.result.addMerged(MergedEntry{MainPage: rc.last.page, ContinuedOn: page, Title: info.CleanTitle})
			return nil
		}
		rc.result.addSkipped(SkippedEntry{Page: page, TableIndex: tableIdx, Reason: "Continuation with no matching previous table"})
		return nil
	}

	sanitized := title.Sanitize(info.CleanTitle, rc.cfg.Transliterate)
	csvPath := filepath.Join(rc.cfg.OutputDir, sanitized+".csv")
	xlsxPath := filepath.Join(rc.cfg.OutputDir, sanitized+".xlsx")

	if err := rc.save(table, csvPath, xlsxPath); err != nil {
		return fmt.Errorf("unable to save table on page %d: %w", page, err)
	}

	entry := SuccessEntry{Page: page, TableNumber: info.TableNumber, Title: info.CleanTitle}
	if rc.cfg.Format == FormatCSV || rc.cfg.Format == FormatBoth {
		entry.CSVPath = csvPath
		entry.Files = append(entry.Files, filepath.Base(csvPath))
	}
	if rc.cfg.Format == FormatExcel || rc.cfg.Format == FormatBoth {
		entry.ExcelPath = xlsxPath
		entry.Files = append(entry.Files, filepath.Base(xlsxPath))
	}
	rc.result.addSuccess(entry)

	rc.last = &continuation{table: table, title: info.CleanTitle, page: page, csvPath: csvPath, xlsxPath: xlsxPath}
	return nil
}

func (rc *Reconciler) save(table *gridtable.Table, csvPath, xlsxPath string) error {
	if rc.cfg.Format == FormatCSV || rc.cfg.Format == FormatBoth {
		if err := writer.CSV(table, csvPath); err != nil {
			return err
		}
	}
	if rc.cfg.Format == FormatExcel || rc.cfg.Format == FormatBoth {
		if err := writer.XLSX(table, xlsxPath, rc.cfg.FixZip); err != nil {
			return err
		}
	}
	return nil
}

// mergeRows folds continuation's rows into main, skipping continuation's
// own header row (row 0, already represented in main) and renumbering
// the appended rows to continue main's existing row numbering.
func mergeRows(main, continuation *gridtable.Table) {
	nextRow := 0
	for y := range main.GlobalMap {
		if y >= nextRow {
			nextRow = y + 1
		}
	}

	var rowKeys []int
	for y := range continuation.GlobalMap {
		rowKeys = append(rowKeys, y)
	}
	sort.Ints(rowKeys)

	for _, y := range rowKeys {
		if y == 0 {
			continue
		}
		main.GlobalMap[nextRow] = continuation.GlobalMap[y]
		nextRow++
	}
}
