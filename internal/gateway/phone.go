package gateway

import "strings"

var phoneNoise = strings.NewReplacer(" ", "", "-", "")

// FormatIntl converts an Iraqi phone number to the international +964 form
// UltraMsg accepts.
func FormatIntl(phone string) string {
	cleaned := phoneNoise.Replace(phone)

	switch {
	case strings.HasPrefix(cleaned, "0"):
		return "+964" + cleaned[1:]
	case strings.HasPrefix(cleaned, "964"):
		return "+" + cleaned
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	default:
		return "+964" + cleaned
	}
}

// FormatIntlNoPlus is the 964XXXXXXXXXX variant without the leading plus,
// which UltraMsg prefers on its form endpoints.
func FormatIntlNoPlus(phone string) string {
	return strings.TrimPrefix(FormatIntl(phone), "+")
}
