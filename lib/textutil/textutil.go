package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var headerSepRegex = regexp.MustCompile(`[^a-z0-9]+`)

// CollapseWhitespace trims a string and squashes inner whitespace
// runs into single spaces.
func CollapseWhitespace(s string) string {
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// NormalizeHeader reduces a CSV column header to a snake_case key so
// that headers from differently exported spreadsheets compare equal.
func NormalizeHeader(header string) string {
	header = strings.ToLower(strings.Trim(header, " \n\t"))
	header = headerSepRegex.ReplaceAllString(header, "_")
	return strings.Trim(header, "_")
}
