package slots

import "time"

// MorningBoundaryHour splits a day's slots into morning and afternoon
// groups for display.
const MorningBoundaryHour = 12

// Overlaps reports whether candidate and busy intervals collide.
// The predicate is deliberately spelled out as three clauses: start
// inside busy, end inside busy, or candidate containing busy. The
// containment clause matters when the busy interval is strictly
// shorter than the candidate; do not fold it into the other two.
func Overlaps(candidate, busy TimeInterval) bool {
	s1, e1 := candidate.Start, candidate.End
	s2, e2 := busy.Start, busy.End

	startInside := !s1.Before(s2) && s1.Before(e2)
	endInside := e1.After(s2) && !e1.After(e2)
	contains := !s1.After(s2) && !e1.Before(e2)

	return startInside || endInside || contains
}

// Filter returns the candidates that overlap none of the busy
// intervals, preserving order. Busy intervals may arrive unsorted and
// unmerged; an empty list passes every candidate through. The result
// is always a fresh slice, never an alias of candidates.
func Filter(candidates, busy []TimeInterval) []TimeInterval {
	free := make([]TimeInterval, 0, len(candidates))
	if len(busy) == 0 {
		return append(free, candidates...)
	}
	for _, c := range candidates {
		blocked := false
		for _, b := range busy {
			if Overlaps(c, b) {
				blocked = true
				break
			}
		}
		if !blocked {
			free = append(free, c)
		}
	}
	return free
}

// ToAvailable tags free intervals with their duration in minutes.
func ToAvailable(free []TimeInterval, durationMinutes int) []AvailableSlot {
	out := make([]AvailableSlot, len(free))
	for i, iv := range free {
		out[i] = AvailableSlot{TimeInterval: iv, DurationMinutes: durationMinutes}
	}
	return out
}

// PartitionByNoon splits slots into morning (start hour < 12) and
// afternoon groups, keeping chronological order within each.
func PartitionByNoon(slots []AvailableSlot) (morning, afternoon []AvailableSlot) {
	for _, s := range slots {
		if s.Start.Hour() < MorningBoundaryHour {
			morning = append(morning, s)
		} else {
			afternoon = append(afternoon, s)
		}
	}
	return morning, afternoon
}

// DatesWithSlots returns the set of calendar dates (midnight in the
// slot's location) that have at least one slot, for date-picker
// display.
func DatesWithSlots(slots []AvailableSlot) map[time.Time]bool {
	dates := make(map[time.Time]bool)
	for _, s := range slots {
		dates[midnight(s.Start)] = true
	}
	return dates
}
