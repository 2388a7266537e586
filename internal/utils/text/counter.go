// Package text holds rune-aware string helpers shared by the provider
// adapters and the article use cases.
package text

import (
	"strings"
	"unicode/utf8"
)

// CountRunes counts Unicode characters rather than bytes.
//
//	CountRunes("héllo") // 5
func CountRunes(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate returns at most n runes of s without splitting a multi-byte character.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// StripChars removes every rune of chars from s.
func StripChars(s, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}
