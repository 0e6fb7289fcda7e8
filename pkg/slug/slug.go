package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make derives a URL-safe slug from a display name: lowercase, every run of
// characters outside [a-z0-9] collapsed into a single hyphen, no leading or
// trailing hyphen. An all-punctuation name yields "" and the caller must
// treat that as a validation failure. Uniqueness is enforced by the database
// index, not here.
func Make(name string) string {
	s := strings.ToLower(name)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
