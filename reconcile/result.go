// Package reconcile owns the cross-page state of a reconstruction run:
// matching a continuation table's title against the previous table,
// merging rows into it, guarding against noisy pages, and assembling
// the run-level report.
package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
)

// SuccessEntry records one table saved as a new (non-continuation)
// table.
type SuccessEntry struct {
	Page        int
	TableNumber string
	Title       string
	Files       []string
	CSVPath     string
	ExcelPath   string
}

// MergedEntry records one continuation table whose rows were folded
// into an earlier table rather than saved on its own.
type MergedEntry struct {
	MainPage    int
	ContinuedOn int
	Title       string
}

// SkippedEntry records one candidate table that was not saved, with
// the reason it was passed over.
type SkippedEntry struct {
	Page       int
	TableIndex int
	Reason     string
}

// Result is the run-level outcome of reconstructing every table found
// across a set of pages.
type Result struct {
	RunID               uuid.UUID
	Success             []SuccessEntry
	Merged              []MergedEntry
	Skipped             []SkippedEntry
	Errors              []error
	TotalTables         int
	TotalPagesProcessed int
}

// NewResult returns an empty Result tagged with a fresh run identity.
func NewResult() *Result {
	return &Result{RunID: uuid.New()}
}

func (r *Result) addSuccess(e SuccessEntry) {
	r.Success = append(r.Success, e)
	r.TotalTables++
}

func (r *Result) addMerged(e MergedEntry) {
	r.Merged = append(r.Merged, e)
}

func (r *Result) addSkipped(e SkippedEntry) {
	r.Skipped = append(r.Skipped, e)
}

func (r *Result) addError(err error) {
	r.Errors = append(r.Errors, err)
}

// Err combines every recovered per-page/per-table error into a single
// multi-error, or nil if the run hit none.
func (r *Result) Err() error {
	return multierr.Combine(r.Errors...)
}

func naturalLess(a, b string) bool {
	return natural.StringSlice{a, b}.Less(0, 1)
}

// Dump renders a stable, human-readable summary for debugging: success
// entries are listed in natural title order (so "Table 2" sorts before
// "Table 10") rather than arrival (page) order.
func (r *Result) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d table(s) saved across %d page(s) (%d error(s))\n",
		r.RunID, r.TotalTables, r.TotalPagesProcessed, len(r.Errors))

	ordered := make([]SuccessEntry, len(r.Success))
	copy(ordered, r.Success)
	sort.SliceStable(ordered, func(i, j int) bool { return naturalLess(ordered[i].Title, ordered[j].Title) })
	for _, s := range ordered {
		fmt.Fprintf(&b, "  page %d: %q table %s -> %v\n", s.Page, s.Title, s.TableNumber, s.Files)
	}

	for _, m := range r.Merged {
		fmt.Fprintf(&b, "  merged %q: page %d -> page %d\n", m.Title, m.MainPage, m.ContinuedOn)
	}
	for _, sk := range r.Skipped {
		fmt.Fprintf(&b, "  skipped page %d table %d: %s\n", sk.Page, sk.TableIndex, sk.Reason)
	}
	for _, err := range r.Errors {
		fmt.Fprintf(&b, "  error: %v\n", err)
	}
	return b.String()
}
