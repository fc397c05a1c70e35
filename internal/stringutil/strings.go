// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"

	"golang.org/x/text/width"
)

// IsNumeric checks if a string contains only digits.
// Returns false for empty strings.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeQuery prepares a raw chat message for keyword matching.
// Full-width characters (common on mobile IME keyboards) are folded to
// their half-width equivalents, the result is lowercased, and runs of
// whitespace collapse to single spaces.
//
// Example:
//
//	NormalizeQuery("　Ｗｈｅｒｅ  is   DR. Sharma? ") returns "where is dr. sharma?"
func NormalizeQuery(s string) string {
	folded := width.Fold.String(s)
	lowered := strings.ToLower(folded)
	return strings.Join(strings.Fields(lowered), " ")
}

// StripPhrases removes every occurrence of the given phrases from s.
// Phrases are removed in order; the result is space-collapsed and trimmed.
func StripPhrases(s string, phrases []string) string {
	for _, p := range phrases {
		s = strings.ReplaceAll(s, p, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}
