package modsdump

import (
	"context"
	"io"
)

// FileStore persists downloaded mod files under their resolved names.
type FileStore interface {
	// Write stores the contents of r as name, replacing any existing file.
	// It returns the number of bytes written.
	Write(ctx context.Context, name string, r io.Reader) (int64, error)
}

// RunStore lays out the output directory of a single run.
type RunStore interface {
	// Dir returns the run directory.
	Dir() string

	// SaveURLs persists the discovered item URLs, one per line, creating the
	// run directory if needed.
	SaveURLs(ctx context.Context, urls []string) error

	// Mods creates the directory for downloaded files and returns a store
	// writing into it.
	Mods(ctx context.Context) (FileStore, error)
}
