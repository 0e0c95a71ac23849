package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"physiocare/internal/slots"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	busy  []slots.TimeInterval
	err   error
	calls int
}

func (p *stubProvider) CheckAvailability(_ context.Context, _, _ time.Time) ([]slots.TimeInterval, error) {
	p.calls++
	return p.busy, p.err
}

func newTestService(p Provider) *Service {
	logger := zerolog.Nop()
	return NewService(p, slots.DefaultWorkingHours(), time.UTC, &logger)
}

var monday = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func TestAvailableSlotsHappyPath(t *testing.T) {
	provider := &stubProvider{
		busy: []slots.TimeInterval{{
			Start: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
		}},
	}
	svc := newTestService(provider)

	got, err := svc.AvailableSlots(context.Background(), slots.SlotRequest{
		RangeStart:      monday,
		RangeEnd:        monday,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Len(t, got, 7)
	assert.Equal(t, 1, provider.calls, "provider must be called exactly once per query")
	for _, s := range got {
		assert.Equal(t, 60*time.Minute, s.Duration())
	}
}

func TestAvailableSlotsInvalidRange(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(provider)

	tests := []struct {
		name string
		req  slots.SlotRequest
	}{
		{"inverted range", slots.SlotRequest{RangeStart: monday, RangeEnd: monday.AddDate(0, 0, -1), DurationMinutes: 60}},
		{"zero duration", slots.SlotRequest{RangeStart: monday, RangeEnd: monday, DurationMinutes: 0}},
		{"negative duration", slots.SlotRequest{RangeStart: monday, RangeEnd: monday, DurationMinutes: -15}},
		{"range over the cap", slots.SlotRequest{RangeStart: monday, RangeEnd: monday.AddDate(0, 0, MaxRangeDays+1), DurationMinutes: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AvailableSlots(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRange)
			assert.False(t, IsRetryable(err))
		})
	}
	assert.Zero(t, provider.calls, "invalid requests must be rejected before the collaborator call")
}

func TestAvailableSlotsCollaboratorFailure(t *testing.T) {
	cause := errors.New("freebusy: 503")
	svc := newTestService(&stubProvider{err: cause})

	_, err := svc.AvailableSlots(context.Background(), slots.SlotRequest{
		RangeStart:      monday,
		RangeEnd:        monday,
		DurationMinutes: 60,
	})
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.ErrorIs(t, err, cause, "collaborator failure must be surfaced unchanged")
}

func TestAvailableSlotsEmptyResultIsNotAnError(t *testing.T) {
	// Every working minute is busy.
	svc := newTestService(&stubProvider{
		busy: []slots.TimeInterval{{
			Start: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		}},
	})

	got, err := svc.AvailableSlots(context.Background(), slots.SlotRequest{
		RangeStart:      monday,
		RangeEnd:        monday,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAvailableSlotsIdempotent(t *testing.T) {
	provider := &stubProvider{
		busy: []slots.TimeInterval{{
			Start: time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
		}},
	}
	svc := newTestService(provider)
	req := slots.SlotRequest{RangeStart: monday, RangeEnd: monday.AddDate(0, 0, 4), DurationMinutes: 45}

	first, err := svc.AvailableSlots(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.AvailableSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDaySchedulePartition(t *testing.T) {
	svc := newTestService(&stubProvider{})

	day, err := svc.DaySchedule(context.Background(), monday, 60)
	require.NoError(t, err)
	assert.Len(t, day.Slots, 8)
	assert.Len(t, day.Morning, 3)
	assert.Len(t, day.Afternoon, 5)
	for _, s := range day.Morning {
		assert.Less(t, s.Start.Hour(), 12)
	}
}

func TestMonthOverviewAgreesWithDayViewAcrossZones(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// The whole local working day of Monday 2024-01-15 is busy.
	provider := &stubProvider{busy: []slots.TimeInterval{{
		Start: time.Date(2024, 1, 15, 9, 0, 0, 0, loc),
		End:   time.Date(2024, 1, 15, 17, 0, 0, 0, loc),
	}}}
	logger := zerolog.Nop()
	svc := NewService(provider, slots.DefaultWorkingHours(), loc, &logger)

	day, err := svc.DaySchedule(context.Background(), time.Date(2024, 1, 15, 0, 0, 0, 0, loc), 60)
	require.NoError(t, err)
	require.Empty(t, day.Slots)

	overview, err := svc.MonthOverview(context.Background(), 2024, time.January, 60)
	require.NoError(t, err)
	assert.False(t, overview.Available[time.Date(2024, 1, 15, 0, 0, 0, 0, loc)],
		"a day the day view shows fully booked must not be flagged in the month view")
}

func TestMonthOverview(t *testing.T) {
	svc := newTestService(&stubProvider{})

	// January 2024: 23 weekdays.
	overview, err := svc.MonthOverview(context.Background(), 2024, time.January, 60)
	require.NoError(t, err)
	assert.Len(t, overview.Available, 23)
	assert.False(t, overview.Available[time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)], "Saturday must not be flagged")
	assert.True(t, overview.Available[time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)])
}
