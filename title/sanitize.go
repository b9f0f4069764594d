package title

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"

	"tablegrid/config"
)

var (
	whitespaceRun    = regexp.MustCompile(`\s+`)
	charReplacements = map[string]string{
		"/":  "_",
		"\\": "_",
		":":  "-",
		"*":  "",
		"?":  "",
		"\"": "",
		"<":  "",
		">":  "",
		"|":  "_",
		"(":  "",
		")":  "",
	}
)

// Sanitize turns a table title into a filesystem-safe file name per
// the documented character-replacement table: trailing ".csv" is
// stripped, problematic characters are replaced or removed, leading
// and trailing dots/spaces are trimmed, whitespace runs collapse to a
// single underscore, and the result is truncated to 200 characters.
// When transliterate is set the result is additionally passed through
// slug.Make to fold non-ASCII characters.
func Sanitize(name string, transliterate bool) string {
	name = strings.TrimSuffix(name, ".csv")

	for old, repl := range charReplacements {
		name = strings.ReplaceAll(name, old, repl)
	}

	name = strings.Trim(name, ". ")
	name = whitespaceRun.ReplaceAllString(name, "_")

	if len(name) > 200 {
		name = name[:200]
	}

	if transliterate {
		name = slug.Make(name)
	}

	return config.CleanFileName(name)
}
