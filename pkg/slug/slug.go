package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name.
//
//   - "Science Fiction" → "science-fiction"
//   - "SCIENCE_FICTION" → "science-fiction"
//   - "Hello   World!"  → "hello-world"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	// Non-alphanumeric runs (including underscores) collapse into one hyphen.
	s = slugRegexp.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
