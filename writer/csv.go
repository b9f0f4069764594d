// Package writer renders a materialised gridtable.Table to disk, in
// CSV or XLSX form, dense-addressed by gridtable.Table.GlobalMap.
package writer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"tablegrid/gridtable"
)

// denseRows walks a Table's GlobalMap in ascending row/column order and
// returns a row-major matrix of cell text, one entry per grid slot
// (spanning cells repeat their text at every slot they cover).
func denseRows(t *gridtable.Table) [][]string {
	var rowKeys []int
	for y := range t.GlobalMap {
		rowKeys = append(rowKeys, y)
	}
	sort.Ints(rowKeys)

	rows := make([][]string, 0, len(rowKeys))
	for _, y := range rowKeys {
		colMap := t.GlobalMap[y]
		var colKeys []int
		for x := range colMap {
			colKeys = append(colKeys, x)
		}
		sort.Ints(colKeys)

		row := make([]string, len(colKeys))
		for i, x := range colKeys {
			row[i] = strings.TrimSpace(colMap[x].Text)
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderCSV renders t as RFC 4180 CSV in memory, shared by CSV and by
// debug-report callers that want the same bytes without a file on disk.
func RenderCSV(t *gridtable.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range denseRows(t) {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("unable to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("unable to flush csv buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// CSV writes t to path as an RFC 4180 CSV file.
func CSV(t *gridtable.Table, path string) error {
	data, err := RenderCSV(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("unable to write csv file '%s': %w", path, err)
	}
	return nil
}
