// Package slots generates and filters bookable time slots.
package slots

import (
	"time"
)

// DefaultStartHour and DefaultEndHour bound the daily booking window
// when the caller does not supply working hours.
const (
	DefaultStartHour = 9
	DefaultEndHour   = 17
)

// TimeInterval is a half-open interval [Start, End).
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval length.
func (t TimeInterval) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// WorkingHours is the daily bookable window in local clock hours.
type WorkingHours struct {
	StartHour int
	EndHour   int
}

// DefaultWorkingHours returns the 9-17 practice day.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
}

// Valid reports whether the window is well-formed.
func (w WorkingHours) Valid() bool {
	return w.StartHour >= 0 && w.EndHour <= 24 && w.StartHour < w.EndHour
}

// SlotRequest defines which candidate slots to generate.
// RangeStart and RangeEnd are treated as calendar dates; only whole
// days within the range are considered.
type SlotRequest struct {
	RangeStart      time.Time
	RangeEnd        time.Time
	DurationMinutes int
}

// AvailableSlot is a candidate slot that survived busy-interval
// filtering, ready to hand to the booking flow.
type AvailableSlot struct {
	TimeInterval
	DurationMinutes int
}

// Generate enumerates every fixed-duration candidate slot that fits
// entirely within working hours, for every weekday in the request
// range. Slots are placed back-to-back from the start of the day; a
// slot that would spill past the end of the working day is discarded,
// not truncated. Saturdays and Sundays produce no slots. The result
// is chronological and fully determined by the inputs.
func Generate(req SlotRequest, hours WorkingHours) []TimeInterval {
	if req.DurationMinutes <= 0 || !hours.Valid() {
		return nil
	}

	first := midnight(req.RangeStart)
	last := midnight(req.RangeEnd)
	if first.After(last) {
		return nil
	}

	step := time.Duration(req.DurationMinutes) * time.Minute
	var candidates []TimeInterval

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		dayStart := day.Add(time.Duration(hours.StartHour) * time.Hour)
		dayEnd := day.Add(time.Duration(hours.EndHour) * time.Hour)

		for cursor := dayStart; !cursor.Add(step).After(dayEnd); cursor = cursor.Add(step) {
			candidates = append(candidates, TimeInterval{Start: cursor, End: cursor.Add(step)})
		}
	}

	return candidates
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
