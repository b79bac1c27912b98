// Package vin provides VIN string canonicalization and GVWR text parsing.
package vin

import "strings"

// Normalize canonicalizes a raw VIN: trims surrounding whitespace,
// upper-cases, then replaces the ambiguous letters O and I with the digits
// 0 and 1. VINs never contain O or I, so the replacements only ever correct
// transcription mistakes. Normalize is idempotent; an empty string passes
// through unchanged.
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "O", "0")
	s = strings.ReplaceAll(s, "I", "1")
	return s
}
