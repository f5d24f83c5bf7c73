package utils

import "strings"

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// NormalizeName trims the surrounding whitespace of a menu or table name.
func NormalizeName(s string) string {
	return strings.TrimSpace(s)
}
