package models

import (
	"testing"
	"time"
)

func TestAppointmentIsActive(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCanceled, false},
		{StatusCompleted, false},
	}
	for _, tt := range tests {
		a := &Appointment{Status: tt.status}
		if got := a.IsActive(); got != tt.want {
			t.Errorf("IsActive(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestAppointmentOverlapsRange(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	a := &Appointment{StartTime: base, EndTime: base.Add(time.Hour)}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"same interval", base, base.Add(time.Hour), true},
		{"contained", base.Add(15 * time.Minute), base.Add(30 * time.Minute), true},
		{"touching before", base.Add(-time.Hour), base, false},
		{"touching after", base.Add(time.Hour), base.Add(2 * time.Hour), false},
		{"straddles start", base.Add(-30 * time.Minute), base.Add(30 * time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.OverlapsRange(tt.start, tt.end); got != tt.want {
				t.Errorf("OverlapsRange = %v, want %v", got, tt.want)
			}
		})
	}
}
