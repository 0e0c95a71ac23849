package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"physiocare/internal/booking"
	"physiocare/internal/database"
	"physiocare/internal/metrics"
	"physiocare/internal/models"
	"physiocare/internal/slots"
)

// AssessmentRequest is the symptom questionnaire attached to a
// booking.
type AssessmentRequest struct {
	Complaint string `json:"complaint"`
	BodyArea  string `json:"body_area"`
	PainLevel int    `json:"pain_level"`
	Notes     string `json:"notes,omitempty"`
}

// BookRequest is the body for POST /api/appointments.
type BookRequest struct {
	SlotStart       string             `json:"slot_start"` // RFC3339
	DurationMinutes int                `json:"duration_minutes"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone,omitempty"`
	Note            string             `json:"note,omitempty"`
	Assessment      *AssessmentRequest `json:"assessment,omitempty"`
}

// BookResponse is the response for a created appointment.
type BookResponse struct {
	Reference string `json:"reference"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Status    string `json:"status"`
}

// handleAppointments books a slot.
// POST /api/appointments
func (s *HTTPServer) handleAppointments(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("appointments")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req BookRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start, err := time.Parse(time.RFC3339, req.SlotStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slot_start; expected RFC3339 timestamp")
		return
	}
	if req.DurationMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "duration_minutes must be positive")
		return
	}
	start = start.In(s.deps.Location)

	bookReq := booking.Request{
		Slot: slots.AvailableSlot{
			TimeInterval: slots.TimeInterval{
				Start: start,
				End:   start.Add(time.Duration(req.DurationMinutes) * time.Minute),
			},
			DurationMinutes: req.DurationMinutes,
		},
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Note:  req.Note,
	}
	if req.Assessment != nil {
		bookReq.Assessment = &models.Assessment{
			Complaint: req.Assessment.Complaint,
			BodyArea:  req.Assessment.BodyArea,
			PainLevel: req.Assessment.PainLevel,
			Notes:     req.Assessment.Notes,
		}
	}

	appointment, err := s.deps.Booking.Book(r.Context(), bookReq)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidBooking):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, booking.ErrSlotTaken):
			writeError(w, http.StatusConflict, "slot no longer available")
		default:
			s.writeServiceError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, BookResponse{
		Reference: appointment.Reference,
		Start:     appointment.StartTime.Format(time.RFC3339),
		End:       appointment.EndTime.Format(time.RFC3339),
		Status:    appointment.Status,
	})
}

// handleAppointmentByReference cancels an appointment.
// DELETE /api/appointments/{reference}
func (s *HTTPServer) handleAppointmentByReference(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("appointment_cancel")
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use DELETE")
		return
	}

	reference := strings.TrimPrefix(r.URL.Path, "/api/appointments/")
	if reference == "" || strings.Contains(reference, "/") {
		writeError(w, http.StatusBadRequest, "invalid appointment reference")
		return
	}

	if err := s.deps.Booking.Cancel(r.Context(), reference); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			writeError(w, http.StatusNotFound, "appointment not found")
		case errors.Is(err, booking.ErrInvalidBooking):
			writeError(w, http.StatusConflict, err.Error())
		default:
			s.writeServiceError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
