// Package models holds the persisted domain entities.
package models

import "time"

// Appointment statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
	StatusCompleted = "completed"
)

// Appointment is a booked treatment slot.
type Appointment struct {
	ID              int64      `json:"id"`
	Reference       string     `json:"reference"` // opaque booking reference (UUID)
	PatientName     string     `json:"patient_name"`
	PatientEmail    string     `json:"patient_email"`
	PatientPhone    string     `json:"patient_phone,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	AssessmentID    *int64     `json:"assessment_id,omitempty"`
	CalendarEventID string     `json:"calendar_event_id,omitempty"`
	Status          string     `json:"status"`
	Note            string     `json:"note,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CanceledAt      *time.Time `json:"canceled_at,omitempty"`
}

// IsActive reports whether the appointment still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// OverlapsRange checks the appointment against a half-open interval
// [start, end).
func (a *Appointment) OverlapsRange(start, end time.Time) bool {
	return a.StartTime.Before(end) && start.Before(a.EndTime)
}

// Assessment captures the symptom questionnaire a patient fills in
// while booking.
type Assessment struct {
	ID        int64     `json:"id"`
	Complaint string    `json:"complaint"`
	BodyArea  string    `json:"body_area"`
	PainLevel int       `json:"pain_level"` // 0-10
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ExerciseVideo is one entry of the exercise-video library.
type ExerciseVideo struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	BodyArea        string    `json:"body_area"`
	Difficulty      string    `json:"difficulty"` // beginner, intermediate, advanced
	VideoURL        string    `json:"video_url"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	SortOrder       int       `json:"sort_order"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Donation kinds.
const (
	DonationOneOff       = "one_off"
	DonationSubscription = "subscription"
)

// Donation records a one-off payment or support-plan subscription.
type Donation struct {
	ID                int64     `json:"id"`
	Reference         string    `json:"reference"`
	DonorName         string    `json:"donor_name,omitempty"`
	DonorEmail        string    `json:"donor_email"`
	AmountCents       int64     `json:"amount_cents"`
	Currency          string    `json:"currency"`
	Kind              string    `json:"kind"`
	ProviderPaymentID string    `json:"provider_payment_id,omitempty"`
	Status            string    `json:"status"` // created, succeeded, failed
	CreatedAt         time.Time `json:"created_at"`
}
