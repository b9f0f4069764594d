package primitive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// LoadPageFixture decodes a single page's primitives from a JSON file.
func LoadPageFixture(path string) (Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return Page{}, fmt.Errorf("unable to open page fixture '%s': %w", path, err)
	}
	defer f.Close()
	return decodePage(f, path)
}

func decodePage(r io.Reader, path string) (Page, error) {
	var p Page
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Page{}, fmt.Errorf("unable to parse page fixture '%s': %w", path, err)
	}
	return p, nil
}

// LoadRunFixture reads every `*.json` file directly under dir as a page
// fixture and returns them ordered by their declared page number.
func LoadRunFixture(dir string) ([]Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list fixture directory '%s': %w", dir, err)
	}

	var pages []Page
	for _, e := range entries {
		if e.IsDir() || !hasJSONExt(e.Name()) {
			continue
		}
		p, err := LoadPageFixture(dir + string(os.PathSeparator) + e.Name())
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })
	return pages, nil
}

func hasJSONExt(name string) bool {
	return len(name) > 5 && name[len(name)-5:] == ".json"
}
