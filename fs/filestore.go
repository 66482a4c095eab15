package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/modsdump"
)

// Ensure FileStore implements modsdump.FileStore at compile time.
var _ modsdump.FileStore = (*FileStore)(nil)

// FileStore writes files into a single directory. Each file is written to a
// temporary file in the same directory and renamed into place, so readers
// never observe a partial file under its final name.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a FileStore for it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, modsdump.Errorf(modsdump.EIO, "create %s: %v", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory files are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Write copies r to name, replacing any existing file.
func (s *FileStore) Write(ctx context.Context, name string, r io.Reader) (int64, error) {
	if base, ok := modsdump.FileName(name); !ok || base != name {
		return 0, modsdump.Errorf(modsdump.EINVALID, "invalid file name %q", name)
	}

	tmp, err := os.CreateTemp(s.dir, ".modsdump-*.tmp")
	if err != nil {
		return 0, modsdump.Errorf(modsdump.EIO, "create temp file for %s: %v", name, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return 0, modsdump.Errorf(modsdump.EIO, "chmod %s: %v", name, err)
	}

	n, err := io.Copy(tmp, readerWithContext{ctx: ctx, r: r})
	if err != nil {
		tmp.Close()
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		return n, modsdump.Errorf(modsdump.EIO, "write %s: %v", name, err)
	}
	if err := tmp.Close(); err != nil {
		return n, modsdump.Errorf(modsdump.EIO, "close %s: %v", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return n, modsdump.Errorf(modsdump.EIO, "rename %s: %v", name, err)
	}
	return n, nil
}

// readerWithContext stops a copy once ctx is done.
type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func (r readerWithContext) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
