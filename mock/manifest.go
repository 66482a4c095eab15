package mock

import (
	"context"

	"github.com/fwojciec/modsdump"
)

var _ modsdump.Manifest = (*Manifest)(nil)

// Manifest is a mock implementation of modsdump.Manifest.
type Manifest struct {
	BeginRunFn   func(ctx context.Context, run *modsdump.Run) error
	RecordFileFn func(ctx context.Context, f *modsdump.FileRecord) error
	FinishRunFn  func(ctx context.Context, run *modsdump.Run) error
	FindFilesFn  func(ctx context.Context, runID string) ([]*modsdump.FileRecord, error)
}

func (m *Manifest) BeginRun(ctx context.Context, run *modsdump.Run) error {
	return m.BeginRunFn(ctx, run)
}

func (m *Manifest) RecordFile(ctx context.Context, f *modsdump.FileRecord) error {
	return m.RecordFileFn(ctx, f)
}

func (m *Manifest) FinishRun(ctx context.Context, run *modsdump.Run) error {
	return m.FinishRunFn(ctx, run)
}

func (m *Manifest) FindFiles(ctx context.Context, runID string) ([]*modsdump.FileRecord, error) {
	return m.FindFilesFn(ctx, runID)
}
