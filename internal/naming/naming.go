package naming

import (
	"strings"
	"unicode"
)

// Slug normalizes a project name into a filesystem-safe identifier.
// The normalization pipeline:
// 1. Case-fold to lower.
// 2. Drop every rune that is not a letter or a digit (spaces, punctuation, symbols).
//
// The result is deterministic: the same name always yields the same slug.
// Names that differ only in case or punctuation collide by construction.
func Slug(name string) string {
	var result strings.Builder

	result.Grow(len(name))

	for _, r := range strings.ToLower(name) {
		if isAlnum(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// TitleCase upper-cases the first cased rune of every word and lower-cases
// the rest. A word starts after any rune that is not cased: digits,
// punctuation and letters of scripts without case (CJK, Hebrew, Arabic).
// So "world's" becomes "World'S", "3d" becomes "3D" and "中a" becomes "中A".
func TitleCase(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	prevCased := false

	for _, r := range s {
		if prevCased {
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(unicode.ToTitle(r))
		}

		prevCased = isCased(r)
	}

	return result.String()
}

// Truncate returns at most n runes from the start of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}

// isAlnum returns true if the rune is a letter or a digit.
func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isCased returns true if the rune has case: upper, lower or title case
// letters and the other-uppercase/other-lowercase symbols.
func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r) ||
		unicode.Is(unicode.Other_Lowercase, r) || unicode.Is(unicode.Other_Uppercase, r)
}
