package modsdump

import (
	"context"
	"io"
)

// Fetcher retrieves the text of catalog and item pages.
type Fetcher interface {
	// Fetch returns the response body of url.
	// Non-success statuses are returned as EPROTOCOL errors.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the Fetcher.
	Close() error
}

// Download is an opened download candidate.
// The caller must close Body.
type Download struct {
	// URL is the candidate URL that was requested.
	URL string

	// Name is the attachment name declared by the server, if any.
	Name string

	// Size is the declared content length, or -1 when unknown.
	Size int64

	Body io.ReadCloser
}

// Opener issues the request for a download candidate and returns the open
// response so that name resolution and the byte copy share one request.
type Opener interface {
	Open(ctx context.Context, url string) (*Download, error)
}
