package datefmt

import (
	"testing"
	"time"
)

func TestFormats(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	if got := LongDate(start); got != "Monday, 15 January 2024" {
		t.Errorf("LongDate = %q", got)
	}
	if got := ShortDate(start); got != "2024-01-15" {
		t.Errorf("ShortDate = %q", got)
	}
	if got := ClockTime(start); got != "10:00" {
		t.Errorf("ClockTime = %q", got)
	}
	if got := TimeRange(start, end); got != "10:00 – 11:00" {
		t.Errorf("TimeRange = %q", got)
	}
	if got := Appointment(start, end); got != "Monday, 15 January 2024, 10:00 – 11:00" {
		t.Errorf("Appointment = %q", got)
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		cents    int64
		currency string
		want     string
	}{
		{2500, "eur", "25.00 EUR"},
		{105, "eur", "1.05 EUR"},
		{100000, "usd", "1000.00 USD"},
	}
	for _, tt := range tests {
		if got := Amount(tt.cents, tt.currency); got != tt.want {
			t.Errorf("Amount(%d, %s) = %q, want %q", tt.cents, tt.currency, got, tt.want)
		}
	}
}
