// internal/app/system/normalize/normalize.go

// Package normalize provides canonical forms for user-supplied fields so
// stores never persist stray whitespace or unparseable phone numbers.
package normalize

import (
	"strings"
	"unicode"
)

// Name trims surrounding whitespace and collapses internal runs of
// whitespace to single spaces. Case is preserved; the case-insensitive
// search field is derived separately with text.Fold.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Phone reduces a phone number to a leading "+" (if present) and digits.
// Returns "" when the input has no digits at all.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if strings.TrimPrefix(out, "+") == "" {
		return ""
	}
	return out
}

// ValidPhone reports whether s normalizes to a dialable number: at least
// seven digits, optionally prefixed with "+". This is a syntactic check
// only; the messaging provider is the final arbiter.
func ValidPhone(s string) bool {
	p := strings.TrimPrefix(Phone(s), "+")
	return len(p) >= 7
}
