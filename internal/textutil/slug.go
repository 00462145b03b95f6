package textutil

import (
	"regexp"
	"strings"
)

// nonWordPattern matches runs of characters that are not letters, digits, or underscores.
var nonWordPattern = regexp.MustCompile(`\W+`)

// Slugify converts free-form names into stable lowercase identifiers used as
// database keys and calendar filenames. Runs of non-word characters collapse
// to a single underscore and leading/trailing underscores are dropped, so
// "CLIVE OWEN & CO" becomes "clive_owen_co".
func Slugify(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	slug := nonWordPattern.ReplaceAllString(lowered, "_")
	return strings.Trim(slug, "_")
}

// SafeFilename returns a filename-safe form of name with the supplied
// extension appended. The base is slugified; an empty base falls back to
// "calendar".
func SafeFilename(name, ext string) string {
	base := Slugify(name)
	if base == "" {
		base = "calendar"
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + ext
}
