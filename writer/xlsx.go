package writer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"

	"tablegrid/gridtable"
)

type anchor struct {
	row, col int
}

// anchors locates, for every distinct cell identity, the lowest
// (row, col) slot at which it appears in the global map — the top-left
// corner of its merge range.
func anchors(t *gridtable.Table) map[*gridtable.Cell]anchor {
	var rowKeys []int
	for y := range t.GlobalMap {
		rowKeys = append(rowKeys, y)
	}
	sort.Ints(rowKeys)

	out := map[*gridtable.Cell]anchor{}
	for _, y := range rowKeys {
		colMap := t.GlobalMap[y]
		var colKeys []int
		for x := range colMap {
			colKeys = append(colKeys, x)
		}
		sort.Ints(colKeys)
		for _, x := range colKeys {
			c := colMap[x]
			if _, seen := out[c]; !seen {
				out[c] = anchor{row: y, col: x}
			}
		}
	}
	return out
}

// XLSX writes t to path as a minimal single-sheet OOXML workbook,
// merging ranges for every cell that spans more than one grid slot.
// When fixZip is set the archive is rewritten through hidez8891/zip to
// strip per-entry data descriptors some strict readers reject.
func XLSX(t *gridtable.Table, path string, fixZip bool) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("unable to create xlsx file '%s': %w", path, err)
	}

	zw := zip.NewWriter(f)
	if err := writeContentTypes(zw); err != nil {
		f.Close()
		return fmt.Errorf("unable to write content types: %w", err)
	}
	if err := writeRootRels(zw); err != nil {
		f.Close()
		return fmt.Errorf("unable to write root relationships: %w", err)
	}
	if err := writeWorkbook(zw); err != nil {
		f.Close()
		return fmt.Errorf("unable to write workbook: %w", err)
	}
	if err := writeWorkbookRels(zw); err != nil {
		f.Close()
		return fmt.Errorf("unable to write workbook relationships: %w", err)
	}
	if err := writeSheet(zw, t); err != nil {
		f.Close()
		return fmt.Errorf("unable to write worksheet: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("unable to close xlsx archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize xlsx file: %w", err)
	}
	defer os.Remove(tmp)

	if fixZip {
		return copyZipWithoutDataDescriptors(tmp, path)
	}
	return copyFile(tmp, path)
}

func writeContentTypes(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
	def := types.CreateElement("Default")
	def.CreateAttr("Extension", "rels")
	def.CreateAttr("ContentType", "application/vnd.openxmlformats-package.relationships+xml")
	override := types.CreateElement("Override")
	override.CreateAttr("PartName", "/xl/workbook.xml")
	override.CreateAttr("ContentType", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml")
	sheetOverride := types.CreateElement("Override")
	sheetOverride.CreateAttr("PartName", "/xl/worksheets/sheet1.xml")
	sheetOverride.CreateAttr("ContentType", "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml")
	return writeXMLToZip(zw, "[Content_Types].xml", doc)
}

func writeRootRels(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	rel := rels.CreateElement("Relationship")
	rel.CreateAttr("Id", "rId1")
	rel.CreateAttr("Type", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument")
	rel.CreateAttr("Target", "xl/workbook.xml")
	return writeXMLToZip(zw, "_rels/.rels", doc)
}

func writeWorkbook(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	wb := doc.CreateElement("workbook")
	wb.CreateAttr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	wb.CreateAttr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")
	sheets := wb.CreateElement("sheets")
	sheet := sheets.CreateElement("sheet")
	sheet.CreateAttr("name", "Table")
	sheet.CreateAttr("sheetId", "1")
	sheet.CreateAttr("r:id", "rId1")
	return writeXMLToZip(zw, "xl/workbook.xml", doc)
}

func writeWorkbookRels(zw *zip.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	rel := rels.CreateElement("Relationship")
	rel.CreateAttr("Id", "rId1")
	rel.CreateAttr("Type", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet")
	rel.CreateAttr("Target", "worksheets/sheet1.xml")
	return writeXMLToZip(zw, "xl/_rels/workbook.xml.rels", doc)
}

func writeSheet(zw *zip.Writer, t *gridtable.Table) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	ws := doc.CreateElement("worksheet")
	ws.CreateAttr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	sheetData := ws.CreateElement("sheetData")

	cellAnchor := anchors(t)

	var rowKeys []int
	for y := range t.GlobalMap {
		rowKeys = append(rowKeys, y)
	}
	sort.Ints(rowKeys)

	var mergeRanges []string
	for _, y := range rowKeys {
		colMap := t.GlobalMap[y]
		var colKeys []int
		for x := range colMap {
			colKeys = append(colKeys, x)
		}
		sort.Ints(colKeys)

		row := sheetData.CreateElement("row")
		row.CreateAttr("r", strconv.Itoa(y+1))

		for _, x := range colKeys {
			c := colMap[x]
			a := cellAnchor[c]
			if a.row != y || a.col != x {
				continue // covered by a merge range anchored elsewhere
			}

			cell := row.CreateElement("c")
			cell.CreateAttr("r", cellRef(y, x))
			cell.CreateAttr("t", "str")
			cell.CreateElement("v").SetText(c.Text)

			rowSpan, colSpan := t.CellSpan(c)
			if rowSpan > 1 || colSpan > 1 {
				mergeRanges = append(mergeRanges, fmt.Sprintf("%s:%s", cellRef(y, x), cellRef(y+rowSpan-1, x+colSpan-1)))
			}
		}
	}

	if len(mergeRanges) > 0 {
		mergeCells := ws.CreateElement("mergeCells")
		mergeCells.CreateAttr("count", strconv.Itoa(len(mergeRanges)))
		for _, r := range mergeRanges {
			mc := mergeCells.CreateElement("mergeCell")
			mc.CreateAttr("ref", r)
		}
	}

	return writeXMLToZip(zw, "xl/worksheets/sheet1.xml", doc)
}

func cellRef(row, col int) string {
	return columnLetters(col) + strconv.Itoa(row+1)
}

// columnLetters converts a zero-based column index to spreadsheet
// column letters (0 -> A, 25 -> Z, 26 -> AA).
func columnLetters(col int) string {
	var letters []byte
	col++
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters)
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func copyZipWithoutDataDescriptors(from, to string) error {
	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return out.Close()
}
