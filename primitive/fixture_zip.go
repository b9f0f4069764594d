package primitive

import (
	"archive/zip"
	"fmt"
	"sort"

	"tablegrid/archive"
)

// LoadRunFixtureZip reads every "*.json" entry in a zip archive as a
// page fixture and returns them ordered by declared page number. This
// lets a multi-page fixture corpus travel as one file instead of a
// directory of loose JSON files.
func LoadRunFixtureZip(zipPath string) ([]Page, error) {
	var pages []Page
	err := archive.Walk(zipPath, "", func(archivePath string, f *zip.File) error {
		if !hasJSONExt(f.Name) {
			return nil
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("unable to open zip entry '%s' in '%s': %w", f.Name, archivePath, err)
		}
		defer rc.Close()

		p, err := decodePage(rc, f.Name)
		if err != nil {
			return err
		}
		pages = append(pages, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read fixture archive '%s': %w", zipPath, err)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })
	return pages, nil
}
