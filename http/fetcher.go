// Package http provides net/http implementations of modsdump.Fetcher and
// modsdump.Opener.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/fwojciec/modsdump"
	"golang.org/x/net/publicsuffix"
)

// DefaultFetchTimeout is the default timeout for page requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Ensure Fetcher implements modsdump.Fetcher at compile time.
var _ modsdump.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves catalog and item pages using HTTP GET requests.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher or an Opener.
type Option func(*options)

type options struct {
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
	jar       http.CookieJar
}

// WithTimeout sets the request timeout.
// For a Fetcher it bounds the whole request; for an Opener it bounds the wait
// for response headers so large downloads are not cut off.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// WithCookieJar shares jar between clients, so cookies set while browsing
// item pages are sent with the downloads.
func WithCookieJar(jar http.CookieJar) Option {
	return func(o *options) {
		o.jar = jar
	}
}

// NewCookieJar returns an in-memory jar scoped by the public suffix list.
func NewCookieJar() http.CookieJar {
	// cookiejar.New never returns an error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

func newOptions(opts []Option) *options {
	o := &options{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := newOptions(opts)

	client := &http.Client{Timeout: o.timeout, Jar: o.jar}
	if o.transport != nil {
		client.Transport = o.transport
	}

	return &Fetcher{
		client:    client,
		timeout:   o.timeout,
		userAgent: o.userAgent,
	}
}

// Fetch retrieves the body of the page at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := get(ctx, f.client, url, f.userAgent)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", modsdump.Errorf(modsdump.ETRANSPORT, "read %s: %v", url, err)
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// get issues a GET request and returns the response only on 200 OK.
// The caller must close the body.
func get(ctx context.Context, client *http.Client, url, userAgent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, modsdump.Errorf(modsdump.EINVALID, "invalid URL %q: %v", url, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, modsdump.Errorf(modsdump.ETRANSPORT, "GET %s: %v", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, modsdump.Errorf(modsdump.EPROTOCOL, "HTTP %d for %s", resp.StatusCode, url)
	}

	return resp, nil
}
