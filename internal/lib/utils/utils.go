// Package utils contains small helper functions used across the project.
package utils

import (
	"strings"
	"unicode/utf8"
)

// Redacted replaces secrets and account identifiers in logged values.
const Redacted = "***"

// TruncateRunes cuts s to at most limit runes.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

// RedactAll replaces every non-empty secret occurrence in s with Redacted.
func RedactAll(s string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, Redacted)
	}
	return s
}
