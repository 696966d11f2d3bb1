// Package slug turns free-form names into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[-\s]+`)
)

// Make returns the slug of s: accents are folded to ASCII, anything other than
// letters, digits, underscores, spaces and hyphens is dropped, and runs of
// spaces/hyphens collapse into a single hyphen. The result may be empty.
func Make(s string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}

	ascii = invalidChars.ReplaceAllString(strings.ToLower(ascii), "")
	ascii = separators.ReplaceAllString(strings.TrimSpace(ascii), "-")
	return strings.Trim(ascii, "-_")
}
