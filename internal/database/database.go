// Package database is the SQLite persistence layer: appointments,
// symptom assessments, the exercise-video catalog and donation
// records.
package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sql.DB for the practice backend.
type DB struct {
	*sql.DB
}

// NewDB opens the database at path and bootstraps the schema.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS assessments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			complaint TEXT NOT NULL,
			body_area TEXT NOT NULL,
			pain_level INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS appointments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT UNIQUE NOT NULL,
			patient_name TEXT NOT NULL,
			patient_email TEXT NOT NULL,
			patient_phone TEXT,
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			duration_minutes INTEGER NOT NULL,
			assessment_id INTEGER,
			calendar_event_id TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			note TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			canceled_at DATETIME,
			FOREIGN KEY (assessment_id) REFERENCES assessments(id)
		)`,

		`CREATE TABLE IF NOT EXISTS exercise_videos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			body_area TEXT NOT NULL,
			difficulty TEXT NOT NULL DEFAULT 'beginner',
			video_url TEXT NOT NULL,
			thumbnail_url TEXT,
			duration_seconds INTEGER DEFAULT 0,
			sort_order INTEGER DEFAULT 0,
			is_active BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS donations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT UNIQUE NOT NULL,
			donor_name TEXT,
			donor_email TEXT NOT NULL,
			amount_cents INTEGER NOT NULL,
			currency TEXT NOT NULL,
			kind TEXT NOT NULL,
			provider_payment_id TEXT,
			status TEXT NOT NULL DEFAULT 'created',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_appointments_times ON appointments(start_time, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_reference ON appointments(reference)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_area ON exercise_videos(body_area, is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_donations_reference ON donations(reference)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
