package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// SafeFilename reduces a title to something every filesystem accepts:
// only letters, digits, spaces, hyphens and underscores survive, then
// trailing whitespace is stripped. Distinct titles can collapse to the
// same name, in which case the last write wins.
func SafeFilename(title string) string {
	var out strings.Builder
	for _, c := range title {
		if unicode.IsLetter(c) || unicode.IsDigit(c) ||
			c == ' ' || c == '-' || c == '_' {
			out.WriteRune(c)
		}
	}
	return strings.TrimRight(out.String(), " \t\n")
}
