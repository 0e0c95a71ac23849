package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"physiocare/internal/availability"
	"physiocare/internal/metrics"
	"physiocare/internal/models"
	"physiocare/internal/slots"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrSlotTaken is returned when the chosen slot collided with a busy
// interval or an existing appointment between display and booking.
var ErrSlotTaken = errors.New("slot no longer available")

// ErrInvalidBooking marks a malformed booking request.
var ErrInvalidBooking = errors.New("invalid booking request")

// Store persists appointments and assessments.
type Store interface {
	CreateAppointment(ctx context.Context, a *models.Appointment) (int64, error)
	CreateAssessment(ctx context.Context, a *models.Assessment) (int64, error)
	GetAppointmentByReference(ctx context.Context, reference string) (*models.Appointment, error)
	HasActiveAppointmentOverlap(ctx context.Context, start, end time.Time) (bool, error)
	UpdateAppointmentStatus(ctx context.Context, reference, status string) error
}

// ConfirmationSender delivers the booking confirmation to the patient.
type ConfirmationSender interface {
	SendBookingConfirmation(ctx context.Context, a *models.Appointment) error
}

// AdminNotifier pings the practice about booking activity.
type AdminNotifier interface {
	BookingCreated(ctx context.Context, a *models.Appointment)
	BookingCanceled(ctx context.Context, a *models.Appointment)
}

// Request is a booking submission: a previously displayed slot plus
// patient details and the optional symptom assessment.
type Request struct {
	Slot       slots.AvailableSlot
	Name       string
	Email      string
	Phone      string
	Note       string
	Assessment *models.Assessment
}

// Service books validated slots. The chosen slot is re-checked
// against a fresh busy snapshot and the local appointment book before
// anything is persisted.
type Service struct {
	store    Store
	provider availability.Provider
	hours    slots.WorkingHours
	email    ConfirmationSender
	notifier AdminNotifier
	logger   *zerolog.Logger
}

// NewService wires a booking service. hours bound what may be booked;
// zero hours fall back to the 9-17 default. email and notifier may be
// nil; both are best-effort side channels.
func NewService(store Store, provider availability.Provider, hours slots.WorkingHours, email ConfirmationSender, notifier AdminNotifier, logger *zerolog.Logger) *Service {
	if !hours.Valid() {
		hours = slots.DefaultWorkingHours()
	}
	return &Service{
		store:    store,
		provider: provider,
		hours:    hours,
		email:    email,
		notifier: notifier,
		logger:   logger,
	}
}

// Book persists the appointment and returns it with its reference.
func (s *Service) Book(ctx context.Context, req Request) (*models.Appointment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !s.onGrid(req.Slot) {
		return nil, fmt.Errorf("%w: slot is outside bookable hours", ErrInvalidBooking)
	}

	free, err := s.slotStillFree(ctx, req.Slot)
	if err != nil {
		return nil, err
	}
	if !free {
		metrics.IncAppointment("conflict")
		return nil, ErrSlotTaken
	}

	appointment := &models.Appointment{
		Reference:       uuid.NewString(),
		PatientName:     strings.TrimSpace(req.Name),
		PatientEmail:    strings.TrimSpace(req.Email),
		PatientPhone:    strings.TrimSpace(req.Phone),
		StartTime:       req.Slot.Start,
		EndTime:         req.Slot.End,
		DurationMinutes: req.Slot.DurationMinutes,
		Status:          models.StatusPending,
		Note:            req.Note,
	}

	if req.Assessment != nil {
		assessmentID, err := s.store.CreateAssessment(ctx, req.Assessment)
		if err != nil {
			return nil, fmt.Errorf("store assessment: %w", err)
		}
		appointment.AssessmentID = &assessmentID
	}

	id, err := s.store.CreateAppointment(ctx, appointment)
	if err != nil {
		return nil, fmt.Errorf("store appointment: %w", err)
	}
	appointment.ID = id
	metrics.IncAppointment("created")

	s.logger.Info().
		Str("reference", appointment.Reference).
		Time("start", appointment.StartTime).
		Int("duration_min", appointment.DurationMinutes).
		Msg("appointment booked")

	if s.email != nil {
		if err := s.email.SendBookingConfirmation(ctx, appointment); err != nil {
			s.logger.Error().Err(err).Str("reference", appointment.Reference).Msg("confirmation email failed")
		}
	}
	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, appointment)
	}

	return appointment, nil
}

// Cancel releases an appointment's slot by reference.
func (s *Service) Cancel(ctx context.Context, reference string) error {
	appointment, err := s.store.GetAppointmentByReference(ctx, reference)
	if err != nil {
		return err
	}
	if !appointment.IsActive() {
		return fmt.Errorf("%w: appointment is %s", ErrInvalidBooking, appointment.Status)
	}

	if err := s.store.UpdateAppointmentStatus(ctx, reference, models.StatusCanceled); err != nil {
		return err
	}
	metrics.IncAppointment("canceled")

	s.logger.Info().Str("reference", reference).Msg("appointment canceled")
	if s.notifier != nil {
		appointment.Status = models.StatusCanceled
		s.notifier.BookingCanceled(ctx, appointment)
	}
	return nil
}

// onGrid reports whether the slot is one the engine would offer for
// its day: client-supplied times are untrusted, so weekend, off-hours
// and off-grid starts are all rejected here.
func (s *Service) onGrid(slot slots.AvailableSlot) bool {
	day := time.Date(slot.Start.Year(), slot.Start.Month(), slot.Start.Day(), 0, 0, 0, 0, slot.Start.Location())
	candidates := slots.Generate(slots.SlotRequest{
		RangeStart:      day,
		RangeEnd:        day,
		DurationMinutes: slot.DurationMinutes,
	}, s.hours)
	for _, c := range candidates {
		if c.Start.Equal(slot.Start) && c.End.Equal(slot.End) {
			return true
		}
	}
	return false
}

// slotStillFree re-checks the slot against a fresh calendar snapshot
// and the local appointment book.
func (s *Service) slotStillFree(ctx context.Context, slot slots.AvailableSlot) (bool, error) {
	day := time.Date(slot.Start.Year(), slot.Start.Month(), slot.Start.Day(), 0, 0, 0, 0, slot.Start.Location())

	busy, err := s.provider.CheckAvailability(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return false, &availability.CollaboratorError{Err: err}
	}
	for _, b := range busy {
		if slots.Overlaps(slot.TimeInterval, b) {
			return false, nil
		}
	}

	overlaps, err := s.store.HasActiveAppointmentOverlap(ctx, slot.Start, slot.End)
	if err != nil {
		return false, fmt.Errorf("check appointment overlap: %w", err)
	}
	return !overlaps, nil
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: patient name required", ErrInvalidBooking)
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid email required", ErrInvalidBooking)
	}
	if !req.Slot.Start.Before(req.Slot.End) {
		return fmt.Errorf("%w: malformed slot interval", ErrInvalidBooking)
	}
	if req.Slot.DurationMinutes <= 0 {
		return fmt.Errorf("%w: non-positive duration", ErrInvalidBooking)
	}
	if want := time.Duration(req.Slot.DurationMinutes) * time.Minute; req.Slot.Duration() != want {
		return fmt.Errorf("%w: slot length does not match duration", ErrInvalidBooking)
	}
	return nil
}
