package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var innerWhitespace = regexp.MustCompile(`[ \t]{2,}`)

// CleanText normalizes a text fragment extracted from markup.
// It strips non-printable runes (keeping newlines), collapses runs of
// horizontal whitespace, and trims surrounding whitespace.
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}
	cleaned := innerWhitespace.ReplaceAllString(b.String(), " ")
	return strings.TrimSpace(cleaned)
}

// CleanLine is CleanText with newlines additionally flattened to spaces.
// Used for single-line fields such as authors and timestamps.
func CleanLine(s string) string {
	return CleanText(strings.ReplaceAll(s, "\n", " "))
}

// ToInt converts a string attribute to an int, returning fallback when the
// attribute is absent or unparsable.
func ToInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

// FirstNonEmpty returns the first non-empty string of its arguments.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
