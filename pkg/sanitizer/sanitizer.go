// Package sanitizer normalizes untrusted form input before validation and
// storage.
package sanitizer

import "strings"

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique index agree on a single canonical form. Structurally invalid input
// is returned trimmed and lowercased; validation rejects it later.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TrimName collapses surrounding whitespace on a display name.
func TrimName(name string) string {
	return strings.TrimSpace(name)
}
