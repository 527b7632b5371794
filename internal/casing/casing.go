// Package casing converts Go identifiers between naming conventions.
package casing

import (
	"strings"
	"unicode"
)

// ToSnake converts a mixed or camel case identifier to snake_case.
//
// A separator is inserted before an uppercase rune when the previous rune is
// lowercase or numeric, or when it closes an uppercase run that is followed by
// a lowercase rune ("FreeBSD" -> "free_bsd", "ThisISNotADrill" ->
// "this_is_not_a_drill"). Existing underscores are kept as is.
func ToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + len(s)/2)

	for i, r := range runes {
		if i > 0 && needsSeparator(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func needsSeparator(runes []rune, i int) bool {
	cur := runes[i]
	if !unicode.IsUpper(cur) {
		return false
	}
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsNumber(prev) {
		return true
	}
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	return unicode.IsUpper(prev) && hasNextLower
}

// UpperFirst returns s with its first rune upper-cased.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// LowerCamel turns a Go field name into a parameter-style name.
// A leading uppercase run is lowered as a whole unless it starts a new word:
// "ID" -> "id", "UserID" -> "userID", "HTTPServer" -> "httpServer".
func LowerCamel(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n == 1 || n == len(runes):
		for i := 0; i < n; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	default:
		if unicode.IsLower(runes[n]) {
			n--
		}
		for i := 0; i < n; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	}
	return string(runes)
}
