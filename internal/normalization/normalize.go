package normalization

import (
	"strings"
	"unicode"
)

// NormalizeEmail produces the canonical comparison key for an email address.
// It returns "" when the input holds no usable value; "" is never a valid key.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizePhone strips everything but digits. Formatting, country prefixes
// written as "+", spaces and punctuation all collapse to the same key.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
