package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"physiocare/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// CreateAppointment inserts a new appointment and returns its ID.
func (db *DB) CreateAppointment(ctx context.Context, a *models.Appointment) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO appointments
			(reference, patient_name, patient_email, patient_phone,
			 start_time, end_time, duration_minutes, assessment_id,
			 calendar_event_id, status, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Reference, a.PatientName, a.PatientEmail, a.PatientPhone,
		a.StartTime, a.EndTime, a.DurationMinutes, a.AssessmentID,
		a.CalendarEventID, a.Status, a.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("insert appointment: %w", err)
	}
	return res.LastInsertId()
}

// GetAppointmentByReference looks up an appointment by its booking
// reference.
func (db *DB) GetAppointmentByReference(ctx context.Context, reference string) (*models.Appointment, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, reference, patient_name, patient_email, patient_phone,
		       start_time, end_time, duration_minutes, assessment_id,
		       calendar_event_id, status, note, created_at, updated_at, canceled_at
		FROM appointments WHERE reference = ?`, reference)
	return scanAppointment(row)
}

// ListAppointmentsBetween returns appointments overlapping the
// half-open range [start, end), active ones first ordered by start.
func (db *DB) ListAppointmentsBetween(ctx context.Context, start, end time.Time) ([]*models.Appointment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, reference, patient_name, patient_email, patient_phone,
		       start_time, end_time, duration_minutes, assessment_id,
		       calendar_event_id, status, note, created_at, updated_at, canceled_at
		FROM appointments
		WHERE start_time < ? AND end_time > ?
		ORDER BY start_time`, end, start)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var out []*models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// HasActiveAppointmentOverlap reports whether any pending or
// confirmed appointment collides with [start, end).
func (db *DB) HasActiveAppointmentOverlap(ctx context.Context, start, end time.Time) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE status IN ('pending', 'confirmed')
		  AND start_time < ? AND end_time > ?`,
		end, start,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count overlaps: %w", err)
	}
	return count > 0, nil
}

// UpdateAppointmentStatus moves an appointment to a new status.
func (db *DB) UpdateAppointmentStatus(ctx context.Context, reference, status string) error {
	query := `UPDATE appointments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE reference = ?`
	args := []any{status, reference}
	if status == models.StatusCanceled {
		query = `UPDATE appointments
			SET status = ?, updated_at = CURRENT_TIMESTAMP, canceled_at = CURRENT_TIMESTAMP
			WHERE reference = ?`
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*models.Appointment, error) {
	var a models.Appointment
	var phone, eventID, note sql.NullString
	var assessmentID sql.NullInt64
	var canceledAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.Reference, &a.PatientName, &a.PatientEmail, &phone,
		&a.StartTime, &a.EndTime, &a.DurationMinutes, &assessmentID,
		&eventID, &a.Status, &note, &a.CreatedAt, &a.UpdatedAt, &canceledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan appointment: %w", err)
	}

	a.PatientPhone = phone.String
	a.CalendarEventID = eventID.String
	a.Note = note.String
	if assessmentID.Valid {
		a.AssessmentID = &assessmentID.Int64
	}
	if canceledAt.Valid {
		a.CanceledAt = &canceledAt.Time
	}
	return &a, nil
}
