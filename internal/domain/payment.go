package domain

import "strings"

const (
	cardNumberDigits = 16
	expiryDigits     = 4
)

func digitsOnly(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() == limit {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber keeps the first 16 digits of s and groups them in fours.
func FormatCardNumber(s string) string {
	digits := digitsOnly(s, cardNumberDigits)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry keeps the first 4 digits of s and inserts a slash after the
// month once two digits are present.
func FormatExpiry(s string) string {
	digits := digitsOnly(s, expiryDigits)
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}
