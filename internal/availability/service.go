// Package availability orchestrates slot generation against the
// practice calendar: validate the request, fetch busy intervals once
// for the whole range, generate the candidate grid and filter it.
package availability

import (
	"context"
	"fmt"
	"time"

	"physiocare/internal/metrics"
	"physiocare/internal/slots"

	"github.com/rs/zerolog"
)

// MaxRangeDays caps a single availability query. Wider ranges are a
// caller bug and would make one freebusy call unreasonably large.
const MaxRangeDays = 90

// Provider reports busy intervals for a date range. Implementations
// talk to the external calendar; the service treats the result as
// authoritative and keeps no cache across queries.
type Provider interface {
	CheckAvailability(ctx context.Context, rangeStart, rangeEnd time.Time) ([]slots.TimeInterval, error)
}

// Service runs the availability pipeline. Stateless; safe for
// concurrent use.
type Service struct {
	provider Provider
	hours    slots.WorkingHours
	location *time.Location
	logger   *zerolog.Logger
}

// DaySchedule is the partitioned view of one day's free slots.
type DaySchedule struct {
	Date      time.Time
	Slots     []slots.AvailableSlot
	Morning   []slots.AvailableSlot
	Afternoon []slots.AvailableSlot
}

// MonthOverview flags which dates of a month have at least one free
// slot, for date-picker display.
type MonthOverview struct {
	Year      int
	Month     time.Month
	Available map[time.Time]bool
}

// NewService creates an availability service with the given working
// hours and practice time zone; zero hours fall back to the 9-17
// default, a nil location to UTC. Every date the service derives
// itself (month boundaries) is built in that zone, so the month view
// and the day view agree on what "that day" means.
func NewService(provider Provider, hours slots.WorkingHours, loc *time.Location, logger *zerolog.Logger) *Service {
	if !hours.Valid() {
		hours = slots.DefaultWorkingHours()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{provider: provider, hours: hours, location: loc, logger: logger}
}

// AvailableSlots returns every free slot in the request range. The
// provider is called exactly once per request; its failure is wrapped
// in CollaboratorError and surfaced unchanged. An empty result is a
// valid outcome, not an error.
func (s *Service) AvailableSlots(ctx context.Context, req slots.SlotRequest) ([]slots.AvailableSlot, error) {
	if err := validate(req); err != nil {
		metrics.IncAvailabilityQuery("invalid")
		return nil, err
	}

	rangeStart := dayStart(req.RangeStart)
	rangeEnd := dayStart(req.RangeEnd).AddDate(0, 0, 1)

	started := time.Now()
	busy, err := s.provider.CheckAvailability(ctx, rangeStart, rangeEnd)
	metrics.ObserveCalendarLatency(time.Since(started).Seconds())
	if err != nil {
		metrics.IncAvailabilityQuery("collaborator_error")
		s.logger.Error().Err(err).
			Time("range_start", rangeStart).
			Time("range_end", rangeEnd).
			Msg("calendar collaborator call failed")
		return nil, &CollaboratorError{Err: err}
	}

	candidates := slots.Generate(req, s.hours)
	free := slots.Filter(candidates, busy)

	metrics.IncAvailabilityQuery("ok")
	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("busy", len(busy)).
		Int("free", len(free)).
		Msg("availability computed")

	return slots.ToAvailable(free, req.DurationMinutes), nil
}

// DaySchedule returns one day's free slots split into morning and
// afternoon groups.
func (s *Service) DaySchedule(ctx context.Context, date time.Time, durationMinutes int) (*DaySchedule, error) {
	req := slots.SlotRequest{RangeStart: date, RangeEnd: date, DurationMinutes: durationMinutes}
	free, err := s.AvailableSlots(ctx, req)
	if err != nil {
		return nil, err
	}

	morning, afternoon := slots.PartitionByNoon(free)
	return &DaySchedule{
		Date:      dayStart(date),
		Slots:     free,
		Morning:   morning,
		Afternoon: afternoon,
	}, nil
}

// MonthOverview computes per-date availability flags for a month.
func (s *Service) MonthOverview(ctx context.Context, year int, month time.Month, durationMinutes int) (*MonthOverview, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, s.location)
	last := first.AddDate(0, 1, -1)

	req := slots.SlotRequest{RangeStart: first, RangeEnd: last, DurationMinutes: durationMinutes}
	free, err := s.AvailableSlots(ctx, req)
	if err != nil {
		return nil, err
	}

	return &MonthOverview{
		Year:      year,
		Month:     month,
		Available: slots.DatesWithSlots(free),
	}, nil
}

func validate(req slots.SlotRequest) error {
	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration %d minutes", ErrInvalidRange, req.DurationMinutes)
	}
	start, end := dayStart(req.RangeStart), dayStart(req.RangeEnd)
	if start.After(end) {
		return fmt.Errorf("%w: start after end", ErrInvalidRange)
	}
	if end.Sub(start) > MaxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: range exceeds %d days", ErrInvalidRange, MaxRangeDays)
	}
	return nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
