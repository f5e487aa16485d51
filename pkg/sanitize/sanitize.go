package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all markup from user input and trims surrounding whitespace.
// Entities produced by the policy are unescaped so plain text such as
// "Arroz & Feijão" is stored as typed.
func Text(input string) string {
	cleaned := strict.Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// Changed reports whether Text would alter input beyond trimming whitespace.
func Changed(input string) bool {
	return Text(input) != strings.TrimSpace(input)
}
