// Package phone reduces phone numbers to a canonical 10-digit form for
// equality comparisons. Canonical forms are never used for display; the raw
// string as entered is what gets stored and shown.
package phone

import "strings"

const countryCodePrefix = "91"

// Normalize strips all non-digit characters, drops a leading "91" country
// code when the remainder is longer than 10 digits, and returns the last 10
// digits. Two numbers identify the same contact iff their normalized forms
// are equal.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, countryCodePrefix) && len(digits) > 10 {
		digits = digits[len(countryCodePrefix):]
	}

	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

// Same reports whether two raw phone numbers normalize to the same contact.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
