package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupOptions controls the periodic SQLite snapshot.
type BackupOptions struct {
	Enabled       bool
	StoragePath   string
	IntervalHours int
	RetentionDays int
}

// BackupService copies the database file to the backup directory on a
// fixed interval and prunes snapshots past the retention window.
type BackupService struct {
	db     *DB
	dbPath string
	opts   BackupOptions
	logger *zerolog.Logger
}

func NewBackupService(db *DB, dbPath string, opts BackupOptions, logger *zerolog.Logger) *BackupService {
	if opts.IntervalHours <= 0 {
		opts.IntervalHours = 24
	}
	return &BackupService{db: db, dbPath: dbPath, opts: opts, logger: logger}
}

// Start runs the backup loop until ctx is canceled. The first snapshot
// is taken immediately.
func (s *BackupService) Start(ctx context.Context) {
	if !s.opts.Enabled {
		s.logger.Info().Msg("database backups disabled")
		return
	}

	interval := time.Duration(s.opts.IntervalHours) * time.Hour
	s.logger.Info().Dur("interval", interval).Str("path", s.opts.StoragePath).Msg("backup service started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.Snapshot(ctx); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Snapshot(ctx); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.pruneOld()
		}
	}
}

// Snapshot checkpoints the WAL and copies the database file to a
// timestamped backup.
func (s *BackupService) Snapshot(ctx context.Context) error {
	if err := os.MkdirAll(s.opts.StoragePath, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	// The file copy only sees committed pages after a checkpoint.
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("wal checkpoint: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(s.opts.StoragePath, fmt.Sprintf("backup_%s.db", timestamp))

	source, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	s.logger.Info().Str("path", backupPath).Msg("database backup written")
	return nil
}

func (s *BackupService) pruneOld() {
	if s.opts.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.opts.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read backup directory for cleanup")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.opts.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("deleting expired backup")
			os.Remove(filepath.Join(s.opts.StoragePath, file.Name()))
		}
	}
}
