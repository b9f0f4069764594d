// Package title extracts a table's title from the text strip above
// its bounding box and sanitises it into a filesystem-safe name.
package title

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"tablegrid/primitive"
)

var (
	spacedTableWord = regexp.MustCompile(`(?i)T\s*a\s*b\s*l\s*e`)
	titlePattern    = regexp.MustCompile(`(?i)Table\s+(\d+)\s*[.:\-]\s*(.+)`)
	continuedMarker = regexp.MustCompile(`(?i)^T\s*a\s*b\s*l\s*e\s+\d+`)
	continuedWord   = cases.Fold()
)

// BBox is an axis-aligned bounding box in the renderer's page
// coordinate system.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Info is the result of title extraction.
type Info struct {
	HasTitle    bool
	FullTitle   string
	CleanTitle  string
	IsContinued bool
	TableNumber string
	Err         error
}

// Extract reads the strip directly above bbox (margin units tall),
// reconstructs it into lines from the page's words, fixes up
// renderer-introduced spacing inside the word "Table", and matches the
// `Table <n><sep><title>` pattern. lineTolerance groups words into a
// line when their Top values are within that distance of each other.
func Extract(bbox BBox, words []primitive.Word, margin, lineTolerance float64) (info Info) {
	defer func() {
		if r := recover(); r != nil {
			info = Info{Err: panicToError(r)}
		}
	}()

	stripX0, stripX1 := bbox.X0, bbox.X1
	stripY0 := bbox.Y0 - margin
	if stripY0 < 0 {
		stripY0 = 0
	}
	stripY1 := bbox.Y0

	lines := linesInStrip(words, stripX0, stripX1, stripY0, stripY1, lineTolerance)
	if len(lines) == 0 {
		return Info{}
	}

	text := spacedTableWord.ReplaceAllString(strings.Join(lines, "\n"), "Table")
	cleanedLines := splitNonEmptyLines(text)

	for i, line := range cleanedLines {
		match := titlePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		tableNumber := match[1]
		titleText := strings.TrimSpace(match[2])

		fullTitleLines := []string{line}
		for _, next := range cleanedLines[i+1:] {
			if continuedMarker.MatchString(next) {
				break
			}
			fullTitleLines = append(fullTitleLines, next)
			titleText += " " + strings.TrimSpace(next)
		}
		fullTitle := strings.Join(fullTitleLines, " ")

		isContinued := strings.Contains(continuedWord.String(titleText), "continued")
		cleanTitle := strings.TrimSpace(continuedSuffix.ReplaceAllString(titleText, ""))

		return Info{
			HasTitle:    true,
			FullTitle:   fullTitle,
			CleanTitle:  cleanTitle,
			IsContinued: isContinued,
			TableNumber: tableNumber,
		}
	}

	return Info{}
}

var continuedSuffix = regexp.MustCompile(`(?i)\s*\(continued\)\s*`)

func linesInStrip(words []primitive.Word, x0, x1, y0, y1, lineTolerance float64) []string {
	type placed struct {
		w primitive.Word
	}
	var in []placed
	for _, w := range words {
		if w.X0 >= x0 && w.X0 <= x1 && w.Top >= y0 && w.Top < y1 {
			in = append(in, placed{w})
		}
	}
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool { return in[i].w.Top < in[j].w.Top })

	var lines []string
	var current []primitive.Word
	currentTop := in[0].w.Top
	flush := func() {
		if len(current) == 0 {
			return
		}
		sort.Slice(current, func(i, j int) bool { return current[i].X0 < current[j].X0 })
		parts := make([]string, len(current))
		for i, w := range current {
			parts[i] = w.Text
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	for _, p := range in {
		if len(current) > 0 && p.w.Top-currentTop > lineTolerance {
			flush()
			current = nil
		}
		current = append(current, p.w)
		currentTop = p.w.Top
	}
	flush()
	return lines
}

func splitNonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &extractError{r}
}

type extractError struct{ v any }

func (e *extractError) Error() string {
	return "title extraction panicked"
}
