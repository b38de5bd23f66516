package domain

import (
	"fmt"
	"strings"
	"time"
)

// TemplateData holds the values substituted into message templates. Empty
// values leave their placeholder untouched in the rendered message.
type TemplateData struct {
	Name      string
	City      string
	EventDate string
}

// Personalize replaces every {name}, {city} and {eventDate} occurrence in the
// template with the corresponding value.
func Personalize(template string, data TemplateData) string {
	msg := template
	if data.Name != "" {
		msg = strings.ReplaceAll(msg, "{name}", data.Name)
	}
	if data.City != "" {
		msg = strings.ReplaceAll(msg, "{city}", data.City)
	}
	if data.EventDate != "" {
		msg = strings.ReplaceAll(msg, "{eventDate}", data.EventDate)
	}
	return msg
}

var arabicMonths = []string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// FormatEventDate renders a date as Arabic Gregorian text, e.g. "15 نوفمبر 2025".
func FormatEventDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), arabicMonths[t.Month()-1], t.Year())
}
