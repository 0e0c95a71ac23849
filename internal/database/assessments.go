package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physiocare/internal/models"
)

// CreateAssessment stores a symptom assessment and returns its ID.
func (db *DB) CreateAssessment(ctx context.Context, a *models.Assessment) (int64, error) {
	if a.PainLevel < 0 || a.PainLevel > 10 {
		return 0, fmt.Errorf("pain level %d out of range 0-10", a.PainLevel)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO assessments (complaint, body_area, pain_level, notes)
		VALUES (?, ?, ?, ?)`,
		a.Complaint, a.BodyArea, a.PainLevel, a.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("insert assessment: %w", err)
	}
	return res.LastInsertId()
}

// GetAssessment fetches one assessment by ID.
func (db *DB) GetAssessment(ctx context.Context, id int64) (*models.Assessment, error) {
	var a models.Assessment
	var notes sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, complaint, body_area, pain_level, notes, created_at
		FROM assessments WHERE id = ?`, id,
	).Scan(&a.ID, &a.Complaint, &a.BodyArea, &a.PainLevel, &notes, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan assessment: %w", err)
	}
	a.Notes = notes.String
	return &a, nil
}
