package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/modsdump"
)

var _ modsdump.Opener = (*LoggingOpener)(nil)

// LoggingOpener wraps an Opener with debug logging.
type LoggingOpener struct {
	next   modsdump.Opener
	logger *slog.Logger
}

// NewLoggingOpener creates a new LoggingOpener.
func NewLoggingOpener(next modsdump.Opener, logger *slog.Logger) *LoggingOpener {
	return &LoggingOpener{next: next, logger: logger}
}

// Open delegates to the wrapped opener and logs the response metadata.
func (o *LoggingOpener) Open(ctx context.Context, url string) (dl *modsdump.Download, err error) {
	defer func(begin time.Time) {
		var name string
		var size int64 = -1
		if dl != nil {
			name, size = dl.Name, dl.Size
		}
		o.logger.Info("open",
			"url", url,
			"name", name,
			"size", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return o.next.Open(ctx, url)
}
