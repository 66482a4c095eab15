package mock

import (
	"context"

	"github.com/fwojciec/modsdump"
)

var (
	_ modsdump.Fetcher = (*Fetcher)(nil)
	_ modsdump.Opener  = (*Opener)(nil)
)

// Fetcher is a mock implementation of modsdump.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// Opener is a mock implementation of modsdump.Opener.
type Opener struct {
	OpenFn func(ctx context.Context, url string) (*modsdump.Download, error)
}

func (o *Opener) Open(ctx context.Context, url string) (*modsdump.Download, error) {
	return o.OpenFn(ctx, url)
}
