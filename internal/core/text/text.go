// Package text holds input normalization shared by the domain packages.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize trims the input and upper-cases the first letter, lower-casing the rest.
// It works on runes, so "ángel" becomes "Ángel".
func Capitalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
