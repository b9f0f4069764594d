// Package primitive defines the wire types the upstream PDF renderer
// supplies for each page, and a JSON fixture loader that stands in for
// that renderer in tests and the CLI. The renderer itself is an
// external collaborator and is never implemented here.
package primitive

// LineRect is a raw line rectangle as drawn by the renderer: either a
// vertical or horizontal strip, degenerate in one axis.
type LineRect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// RawCell is an axis-aligned bounding box of a cell the renderer
// already identified, including cells that represent a merged span.
type RawCell struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Word is a positioned text run. X0 and Top anchor the word for cell
// containment tests; Top is the baseline top of the word's bounding
// box, in the renderer's page coordinate system.
type Word struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	Top  float64 `json:"top"`
}

// TableRegion is everything the renderer reports for one candidate
// table on a page: its drawn lines and cells, and a row-major "ugly
// table" of raw text aligned to the renderer's own (possibly wrong)
// view of the grid. A page can carry more than one of these when the
// renderer finds more than one ruled region.
type TableRegion struct {
	Lines     []LineRect `json:"lines"`
	RawCells  []RawCell  `json:"raw_cells"`
	UglyTable [][]string `json:"ugly_table"`
}

// Page is everything the renderer reports for a single page: zero or
// more candidate table regions, plus the page's positioned words.
// Words are page-scoped rather than region-scoped because a title
// sits in page whitespace above a region, not inside it.
type Page struct {
	Number int           `json:"number"`
	Tables []TableRegion `json:"tables"`
	Words  []Word        `json:"words"`
}
