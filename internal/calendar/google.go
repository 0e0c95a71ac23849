// Package calendar implements the availability provider against the
// practice's Google Calendar using free/busy queries.
package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"physiocare/internal/slots"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client queries a single Google Calendar for busy intervals. The
// calendar is authoritative; nothing is cached between calls.
type Client struct {
	service    *gcal.Service
	calendarID string
	location   *time.Location
	timeout    time.Duration
}

// Options configures the calendar client.
type Options struct {
	CalendarID      string
	CredentialsFile string // service account JSON
	Location        *time.Location
	Timeout         time.Duration
}

// New creates a calendar client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.CalendarID == "" {
		return nil, fmt.Errorf("calendar id is required")
	}

	data, err := os.ReadFile(opts.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, gcal.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	service, err := gcal.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		service:    service,
		calendarID: opts.CalendarID,
		location:   loc,
		timeout:    timeout,
	}, nil
}

// CheckAvailability returns the calendar's busy intervals within
// [rangeStart, rangeEnd), converted into the practice time zone.
func (c *Client) CheckAvailability(ctx context.Context, rangeStart, rangeEnd time.Time) ([]slots.TimeInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &gcal.FreeBusyRequest{
		TimeMin: rangeStart.Format(time.RFC3339),
		TimeMax: rangeEnd.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: c.calendarID}},
	}

	resp, err := c.service.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[c.calendarID]
	if !ok {
		return nil, fmt.Errorf("freebusy response missing calendar %q", c.calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("freebusy calendar error: %s", cal.Errors[0].Reason)
	}

	return parseBusyPeriods(cal.Busy, c.location)
}

func parseBusyPeriods(periods []*gcal.TimePeriod, loc *time.Location) ([]slots.TimeInterval, error) {
	busy := make([]slots.TimeInterval, 0, len(periods))
	for _, p := range periods {
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			return nil, fmt.Errorf("parse busy start %q: %w", p.Start, err)
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			return nil, fmt.Errorf("parse busy end %q: %w", p.End, err)
		}
		if !start.Before(end) {
			continue
		}
		busy = append(busy, slots.TimeInterval{
			Start: start.In(loc),
			End:   end.In(loc),
		})
	}
	return busy, nil
}
