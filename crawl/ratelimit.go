package crawl

import (
	"context"
	"net/url"
	"sync"

	"github.com/fwojciec/modsdump"
	"golang.org/x/time/rate"
)

var _ modsdump.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests to each host at a fixed rate. Catalog pages,
// item pages and downloads for one host draw from the same bucket.
type DomainLimiter struct {
	every rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter returns a limiter allowing rps requests per second per
// host, without bursts.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		every: rate.Limit(rps),
		hosts: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.bucket(host).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.hosts[host]
	if !ok {
		b = rate.NewLimiter(d.every, 1)
		d.hosts[host] = b
	}
	return b
}

// waitFor waits on limiter for the host of rawURL. A nil limiter never blocks.
func waitFor(ctx context.Context, limiter modsdump.DomainLimiter, rawURL string) error {
	if limiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return modsdump.Errorf(modsdump.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	return limiter.Wait(ctx, u.Host)
}
