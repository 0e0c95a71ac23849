package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physiocare/internal/models"
)

// VideoFilter narrows a catalog listing. Empty fields match all.
type VideoFilter struct {
	BodyArea   string
	Difficulty string
}

// ListVideos returns active catalog entries matching the filter,
// ordered by sort_order then title.
func (db *DB) ListVideos(ctx context.Context, filter VideoFilter) ([]*models.ExerciseVideo, error) {
	query := `
		SELECT id, title, description, body_area, difficulty, video_url,
		       thumbnail_url, duration_seconds, sort_order, is_active, created_at
		FROM exercise_videos
		WHERE is_active = 1`
	var args []any

	if filter.BodyArea != "" {
		query += " AND body_area = ?"
		args = append(args, filter.BodyArea)
	}
	if filter.Difficulty != "" {
		query += " AND difficulty = ?"
		args = append(args, filter.Difficulty)
	}
	query += " ORDER BY sort_order, title"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var out []*models.ExerciseVideo
	for rows.Next() {
		var v models.ExerciseVideo
		var description, thumbnail sql.NullString
		if err := rows.Scan(
			&v.ID, &v.Title, &description, &v.BodyArea, &v.Difficulty,
			&v.VideoURL, &thumbnail, &v.DurationSeconds, &v.SortOrder,
			&v.IsActive, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		v.Description = description.String
		v.ThumbnailURL = thumbnail.String
		out = append(out, &v)
	}
	return out, rows.Err()
}

// GetVideo fetches one catalog entry by ID.
func (db *DB) GetVideo(ctx context.Context, id int64) (*models.ExerciseVideo, error) {
	var v models.ExerciseVideo
	var description, thumbnail sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, title, description, body_area, difficulty, video_url,
		       thumbnail_url, duration_seconds, sort_order, is_active, created_at
		FROM exercise_videos WHERE id = ?`, id,
	).Scan(
		&v.ID, &v.Title, &description, &v.BodyArea, &v.Difficulty,
		&v.VideoURL, &thumbnail, &v.DurationSeconds, &v.SortOrder,
		&v.IsActive, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan video: %w", err)
	}
	v.Description = description.String
	v.ThumbnailURL = thumbnail.String
	return &v, nil
}

// UpsertVideo inserts a catalog entry, or updates it when ID is set.
func (db *DB) UpsertVideo(ctx context.Context, v *models.ExerciseVideo) (int64, error) {
	if v.ID > 0 {
		_, err := db.ExecContext(ctx, `
			UPDATE exercise_videos
			SET title = ?, description = ?, body_area = ?, difficulty = ?,
			    video_url = ?, thumbnail_url = ?, duration_seconds = ?,
			    sort_order = ?, is_active = ?
			WHERE id = ?`,
			v.Title, v.Description, v.BodyArea, v.Difficulty,
			v.VideoURL, v.ThumbnailURL, v.DurationSeconds,
			v.SortOrder, v.IsActive, v.ID,
		)
		if err != nil {
			return 0, fmt.Errorf("update video: %w", err)
		}
		return v.ID, nil
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO exercise_videos
			(title, description, body_area, difficulty, video_url,
			 thumbnail_url, duration_seconds, sort_order, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Title, v.Description, v.BodyArea, v.Difficulty, v.VideoURL,
		v.ThumbnailURL, v.DurationSeconds, v.SortOrder, v.IsActive,
	)
	if err != nil {
		return 0, fmt.Errorf("insert video: %w", err)
	}
	return res.LastInsertId()
}
