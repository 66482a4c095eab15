package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/modsdump"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// RetryDelays returns the first n delays of the doubling backoff 1s, 2s, 4s, ...
// Zero or negative n disables retries.
func RetryDelays(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	d := time.Second
	for i := range delays {
		delays[i] = d
		d *= 2
	}
	return delays
}

// FetchWithRetry calls fetch once, then once more after each delay in delays
// for as long as it keeps failing. The last error is returned.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, log modsdump.LogFunc, delays []time.Duration) (string, error) {
	if log == nil {
		log = modsdump.Discard
	}

	html, err := fetch(ctx, url)
	for i, delay := range delays {
		if err == nil || ctx.Err() != nil {
			break
		}
		log("Retrying URL: %s (attempt %d): %v", url, i+2, err)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
		html, err = fetch(ctx, url)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}
	return html, nil
}

// fetchPage fetches url through the limiter and retry policy shared by the
// crawler and the resolver.
func fetchPage(ctx context.Context, f modsdump.Fetcher, limiter modsdump.DomainLimiter, delays []time.Duration, log modsdump.LogFunc, url string) (string, error) {
	return FetchWithRetry(ctx, url, func(ctx context.Context, url string) (string, error) {
		if err := waitFor(ctx, limiter, url); err != nil {
			return "", err
		}
		return f.Fetch(ctx, url)
	}, log, delays)
}
