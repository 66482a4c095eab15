package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/modsdump"
)

var (
	_ modsdump.RunStore  = (*LoggingRunStore)(nil)
	_ modsdump.FileStore = (*LoggingFileStore)(nil)
)

// LoggingRunStore wraps a RunStore with debug logging. The FileStore it
// returns from Mods is wrapped as well.
type LoggingRunStore struct {
	next   modsdump.RunStore
	logger *slog.Logger
}

// NewLoggingRunStore creates a new LoggingRunStore.
func NewLoggingRunStore(next modsdump.RunStore, logger *slog.Logger) *LoggingRunStore {
	return &LoggingRunStore{next: next, logger: logger}
}

// Dir delegates to the wrapped store.
func (s *LoggingRunStore) Dir() string {
	return s.next.Dir()
}

// SaveURLs delegates to the wrapped store and logs the operation.
func (s *LoggingRunStore) SaveURLs(ctx context.Context, urls []string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save urls",
			"dir", s.next.Dir(),
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveURLs(ctx, urls)
}

// Mods delegates to the wrapped store.
func (s *LoggingRunStore) Mods(ctx context.Context) (modsdump.FileStore, error) {
	store, err := s.next.Mods(ctx)
	if err != nil {
		s.logger.Info("mods directory", "dir", s.next.Dir(), "err", err)
		return nil, err
	}
	return NewLoggingFileStore(store, s.logger), nil
}

// LoggingFileStore wraps a FileStore with debug logging.
type LoggingFileStore struct {
	next   modsdump.FileStore
	logger *slog.Logger
}

// NewLoggingFileStore creates a new LoggingFileStore.
func NewLoggingFileStore(next modsdump.FileStore, logger *slog.Logger) *LoggingFileStore {
	return &LoggingFileStore{next: next, logger: logger}
}

// Write delegates to the wrapped store and logs the byte count.
func (s *LoggingFileStore) Write(ctx context.Context, name string, r io.Reader) (n int64, err error) {
	defer func(begin time.Time) {
		s.logger.Info("write",
			"name", name,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Write(ctx, name, r)
}
