// Package datefmt is the single date/time formatting utility for all
// patient-facing output. Every caller goes through here so wording
// and formats stay consistent across emails, notifications and the
// API.
package datefmt

import (
	"fmt"
	"time"
)

// LongDate renders "Monday, 15 January 2024".
func LongDate(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}

// ShortDate renders "2024-01-15", the wire format for dates.
func ShortDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ClockTime renders "10:00".
func ClockTime(t time.Time) string {
	return t.Format("15:04")
}

// TimeRange renders "10:00 – 11:00".
func TimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s – %s", ClockTime(start), ClockTime(end))
}

// Appointment renders the full human form: "Monday, 15 January 2024,
// 10:00 – 11:00".
func Appointment(start, end time.Time) string {
	return fmt.Sprintf("%s, %s", LongDate(start), TimeRange(start, end))
}

// Amount renders cents as "25.00 EUR".
func Amount(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currencyUpper(currency))
}

func currencyUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
