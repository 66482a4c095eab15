package mock

import (
	"context"
	"io"

	"github.com/fwojciec/modsdump"
)

// Compile-time interface verification.
var (
	_ modsdump.FileStore = (*FileStore)(nil)
	_ modsdump.RunStore  = (*RunStore)(nil)
)

// FileStore is a mock implementation of modsdump.FileStore.
type FileStore struct {
	WriteFn func(ctx context.Context, name string, r io.Reader) (int64, error)
}

func (s *FileStore) Write(ctx context.Context, name string, r io.Reader) (int64, error) {
	return s.WriteFn(ctx, name, r)
}

// RunStore is a mock implementation of modsdump.RunStore.
type RunStore struct {
	DirFn      func() string
	SaveURLsFn func(ctx context.Context, urls []string) error
	ModsFn     func(ctx context.Context) (modsdump.FileStore, error)
}

func (s *RunStore) Dir() string {
	return s.DirFn()
}

func (s *RunStore) SaveURLs(ctx context.Context, urls []string) error {
	return s.SaveURLsFn(ctx, urls)
}

func (s *RunStore) Mods(ctx context.Context) (modsdump.FileStore, error) {
	return s.ModsFn(ctx)
}
