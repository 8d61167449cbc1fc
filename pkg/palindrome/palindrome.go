// Package palindrome holds the single palindrome predicate shared by the
// catalog backend and the storefront's offline fallback.
package palindrome

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lower-cases s and strips every character outside [a-z0-9].
//
// Examples:
//   - "A man, a plan, a canal: Panama" → "amanaplanacanalpanama"
//   - "Ñandú 2024!" → "and2024"
func Normalize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// Is reports whether s reads the same forwards and backwards once
// normalized. The empty string is a palindrome.
func Is(s string) bool {
	n := Normalize(s)
	for i, j := 0, len(n)-1; i < j; i, j = i+1, j-1 {
		if n[i] != n[j] {
			return false
		}
	}
	return true
}
