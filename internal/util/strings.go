package util

import "unicode/utf8"

// IsIdentifier reports whether s is usable as a label name in every target dialect.
// Identifiers start with a letter, '_' or '.', followed by letters, digits, '_', '.' or '$'.
func IsIdentifier(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '.':
		case i > 0 && (r >= '0' && r <= '9' || r == '$'):
		default:
			return false
		}
	}
	return true
}
