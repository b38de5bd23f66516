package domain

import (
	"regexp"
	"strings"
)

var (
	phonePattern  = regexp.MustCompile(`^07\d{9}$`)
	nonDigits     = regexp.MustCompile(`\D`)
	phoneNoise    = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// SanitizePhone normalizes Iraqi phone input to the national 07XXXXXXXXX form
// (11 digits). Accepts +964 / 964 international prefixes and tolerates spaces,
// dashes and parentheses. The function is idempotent: applying it to its own
// output returns the same string.
func SanitizePhone(phone string) string {
	cleaned := phoneNoise.Replace(phone)

	switch {
	case strings.HasPrefix(cleaned, "+964"):
		cleaned = "0" + cleaned[4:]
	case strings.HasPrefix(cleaned, "964"):
		cleaned = "0" + cleaned[3:]
	case strings.HasPrefix(cleaned, "+"):
		cleaned = cleaned[1:]
	}

	cleaned = nonDigits.ReplaceAllString(cleaned, "")

	if !strings.HasPrefix(cleaned, "0") {
		cleaned = "0" + cleaned
	}
	if len(cleaned) > 11 {
		cleaned = cleaned[:11]
	}

	return cleaned
}

// ValidPhone reports whether the input sanitizes to a well-formed Iraqi
// mobile number (07 followed by nine digits).
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(SanitizePhone(phone))
}
