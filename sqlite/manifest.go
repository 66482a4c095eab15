package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/modsdump"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ modsdump.Manifest = (*ManifestService)(nil)

// ManifestService implements modsdump.Manifest using SQLite.
type ManifestService struct {
	db *DB
}

// NewManifestService creates a new ManifestService.
func NewManifestService(db *DB) *ManifestService {
	return &ManifestService{db: db}
}

// BeginRun stores a new run with a generated ID and start time.
func (s *ManifestService) BeginRun(ctx context.Context, run *modsdump.Run) error {
	if run.Origin == "" {
		return modsdump.Errorf(modsdump.EINVALID, "run origin required")
	}
	if run.OutputDir == "" {
		return modsdump.Errorf(modsdump.EINVALID, "run output directory required")
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, origin, output_dir, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Origin, run.OutputDir, formatTime(run.StartedAt))

	return err
}

// RecordFile stores a file written during a run.
func (s *ManifestService) RecordFile(ctx context.Context, f *modsdump.FileRecord) error {
	if f.RunID == "" {
		return modsdump.Errorf(modsdump.EINVALID, "run ID required")
	}
	if f.Name == "" {
		return modsdump.Errorf(modsdump.EINVALID, "file name required")
	}

	f.ID = uuid.New().String()
	f.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (id, run_id, item_url, download_url, name, size, checksum, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.RunID, f.ItemURL, f.DownloadURL, f.Name, f.Size, f.Checksum, formatTime(f.CreatedAt))

	return err
}

// FinishRun stores the final counters of a run.
func (s *ManifestService) FinishRun(ctx context.Context, run *modsdump.Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, discovered = ?, downloaded = ?, duplicates = ?, failed = ?
		WHERE id = ?
	`, formatTime(run.FinishedAt), run.Discovered, run.Downloaded, run.Duplicates, run.Failed, run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return modsdump.Errorf(modsdump.ENOTFOUND, "run not found")
	}

	return nil
}

// FindRunByID retrieves a run by ID.
func (s *ManifestService) FindRunByID(ctx context.Context, id string) (*modsdump.Run, error) {
	var run modsdump.Run
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, origin, output_dir, started_at, finished_at, discovered, downloaded, duplicates, failed
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Origin, &run.OutputDir, &startedAt, &finishedAt,
		&run.Discovered, &run.Downloaded, &run.Duplicates, &run.Failed)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, modsdump.Errorf(modsdump.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}

	return &run, nil
}

// FindFiles retrieves the files recorded for a run ordered by name.
func (s *ManifestService) FindFiles(ctx context.Context, runID string) ([]*modsdump.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, item_url, download_url, name, size, checksum, created_at
		FROM files
		WHERE run_id = ?
		ORDER BY name
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*modsdump.FileRecord
	for rows.Next() {
		var f modsdump.FileRecord
		var createdAt string

		if err := rows.Scan(&f.ID, &f.RunID, &f.ItemURL, &f.DownloadURL, &f.Name, &f.Size, &f.Checksum, &createdAt); err != nil {
			return nil, err
		}
		if f.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}

		files = append(files, &f)
	}

	return files, rows.Err()
}
