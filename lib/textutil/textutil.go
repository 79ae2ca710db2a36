package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name typed by a user and drops its
// whitespace, dashes become underscores so "Auth-Validation" and
// "auth_validation" name the same thing.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}
