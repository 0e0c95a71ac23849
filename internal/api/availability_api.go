package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"physiocare/internal/availability"
	"physiocare/internal/datefmt"
	"physiocare/internal/metrics"
	"physiocare/internal/slots"
)

// SlotResponse is one bookable slot in API responses.
type SlotResponse struct {
	Start           string `json:"start"` // RFC3339
	End             string `json:"end"`
	Label           string `json:"label"` // "10:00 – 11:00"
	DurationMinutes int    `json:"duration_minutes"`
}

// DayAvailabilityResponse is the response for GET /api/availability.
type DayAvailabilityResponse struct {
	Date      string         `json:"date"`
	Slots     []SlotResponse `json:"slots"`
	Morning   []SlotResponse `json:"morning"`
	Afternoon []SlotResponse `json:"afternoon"`
}

// MonthAvailabilityResponse is the response for
// GET /api/availability/month.
type MonthAvailabilityResponse struct {
	Year           int      `json:"year"`
	Month          int      `json:"month"`
	AvailableDates []string `json:"available_dates"`
}

// handleDayAvailability returns the free slots of one day.
// GET /api/availability?date=YYYY-MM-DD&duration=60
func (s *HTTPServer) handleDayAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability_day")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), s.deps.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}
	duration, err := parseDuration(r.URL.Query().Get("duration"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	day, err := s.deps.Availability.DaySchedule(r.Context(), date, duration)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DayAvailabilityResponse{
		Date:      datefmt.ShortDate(day.Date),
		Slots:     toSlotResponses(day.Slots),
		Morning:   toSlotResponses(day.Morning),
		Afternoon: toSlotResponses(day.Afternoon),
	})
}

// handleMonthAvailability returns the dates of a month with at least
// one free slot.
// GET /api/availability/month?year=2024&month=1&duration=60
func (s *HTTPServer) handleMonthAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability_month")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2200 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month; expected 1-12")
		return
	}
	duration, err := parseDuration(r.URL.Query().Get("duration"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	overview, err := s.deps.Availability.MonthOverview(r.Context(), year, time.Month(month), duration)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeServiceError(w, err)
		return
	}

	dates := make([]string, 0, len(overview.Available))
	for d := range overview.Available {
		dates = append(dates, datefmt.ShortDate(d))
	}
	sort.Strings(dates)

	writeJSON(w, http.StatusOK, MonthAvailabilityResponse{
		Year:           overview.Year,
		Month:          int(overview.Month),
		AvailableDates: dates,
	})
}

func parseDuration(raw string) (int, error) {
	if raw == "" {
		return DefaultSlotMinutes, nil
	}
	duration, err := strconv.Atoi(raw)
	if err != nil || duration <= 0 {
		return 0, errors.New("invalid duration; expected positive minutes")
	}
	if duration > 8*60 {
		return 0, errors.New("duration exceeds a working day")
	}
	return duration, nil
}

func toSlotResponses(in []slots.AvailableSlot) []SlotResponse {
	out := make([]SlotResponse, len(in))
	for i, s := range in {
		out[i] = SlotResponse{
			Start:           s.Start.Format(time.RFC3339),
			End:             s.End.Format(time.RFC3339),
			Label:           datefmt.TimeRange(s.Start, s.End),
			DurationMinutes: s.DurationMinutes,
		}
	}
	return out
}
