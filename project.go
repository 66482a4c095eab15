package modsdump

import (
	"context"
	"time"
)

// Run is a single execution of the pipeline as recorded in a Manifest.
type Run struct {
	ID         string
	Origin     string
	OutputDir  string
	StartedAt  time.Time
	FinishedAt time.Time

	// Counters, filled in when the run finishes.
	Discovered int
	Downloaded int
	Duplicates int
	Failed     int
}

// FileRecord is a mod file written during a run.
type FileRecord struct {
	ID          string
	RunID       string
	ItemURL     string
	DownloadURL string
	Name        string
	Size        int64
	Checksum    string // xxhash64, hex
	CreatedAt   time.Time
}

// Manifest records runs and the files they wrote.
type Manifest interface {
	// BeginRun stores a new run. ID and StartedAt are assigned.
	BeginRun(ctx context.Context, run *Run) error

	// RecordFile stores a written file. ID and CreatedAt are assigned.
	RecordFile(ctx context.Context, f *FileRecord) error

	// FinishRun stores the counters and finish time of run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// FindFiles returns the files recorded for runID ordered by name.
	FindFiles(ctx context.Context, runID string) ([]*FileRecord, error)
}
