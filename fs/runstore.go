// Package fs provides file-based storage for run output.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/modsdump"
)

// File and directory names inside a run directory.
const (
	URLListName = "mod-urls.txt"
	ModsDirName = "mods"
)

// RunDirName returns the name of the run directory for a run started at t.
func RunDirName(t time.Time) string {
	return "mods-dump-" + strconv.FormatInt(t.UnixMilli(), 10)
}

// Ensure RunStore implements modsdump.RunStore at compile time.
var _ modsdump.RunStore = (*RunStore)(nil)

// RunStore lays out <root>/mods-dump-<unix-millis>/ with the URL list and
// the mods directory.
type RunStore struct {
	dir string
}

// NewRunStore returns the store for a run started at startedAt below root.
// Nothing is created until SaveURLs or Mods is called.
func NewRunStore(root string, startedAt time.Time) modsdump.RunStore {
	return &RunStore{dir: filepath.Join(root, RunDirName(startedAt))}
}

// Dir returns the run directory.
func (s *RunStore) Dir() string {
	return s.dir
}

// SaveURLs writes urls to mod-urls.txt, one per line.
func (s *RunStore) SaveURLs(ctx context.Context, urls []string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return modsdump.Errorf(modsdump.EIO, "create run directory: %v", err)
	}

	var b strings.Builder
	for _, u := range urls {
		b.WriteString(u)
		b.WriteByte('\n')
	}

	path := filepath.Join(s.dir, URLListName)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return modsdump.Errorf(modsdump.EIO, "write %s: %v", URLListName, err)
	}
	return nil
}

// Mods creates the mods directory and returns a FileStore writing into it.
func (s *RunStore) Mods(ctx context.Context) (modsdump.FileStore, error) {
	store, err := NewFileStore(filepath.Join(s.dir, ModsDirName))
	if err != nil {
		return nil, err
	}
	return store, nil
}
