// Package crawl coordinates a modsdump run: it walks the paginated catalog,
// resolves each item's downloads and fetches them with a bounded worker pool.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/modsdump"
)

// DefaultMaxStalePages is the number of consecutive catalog pages without a
// new item URL after which the crawl stops.
const DefaultMaxStalePages = 3

// crawlState is the state of the catalog walk.
type crawlState int

const (
	stateScanning crawlState = iota
	stateTerminated
)

// Crawler walks the catalog page by page, collecting item URLs.
type Crawler struct {
	Site        *modsdump.Site
	Fetcher     modsdump.Fetcher
	Extractor   modsdump.LinkExtractor
	RateLimiter modsdump.DomainLimiter // optional

	// MaxStalePages defaults to DefaultMaxStalePages.
	MaxStalePages int

	// RetryDelays are the waits between page fetch attempts.
	// Nil means each page is fetched once.
	RetryDelays []time.Duration
}

// Discover scans catalog pages starting at page 0 until MaxStalePages
// consecutive pages add nothing new. A page that cannot be fetched counts as
// empty. On cancellation the URLs found so far are returned with the
// context error.
func (c *Crawler) Discover(ctx context.Context, log modsdump.LogFunc) (*modsdump.DiscoverySet, error) {
	if log == nil {
		log = modsdump.Discard
	}
	maxStale := c.MaxStalePages
	if maxStale <= 0 {
		maxStale = DefaultMaxStalePages
	}

	found := modsdump.NewDiscoverySet()
	state := stateScanning
	page, stale := 0, 0

	for state == stateScanning {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		pageURL := c.Site.PageURL(page)
		log("Scanning URL: %s", pageURL)

		var links []string
		html, err := fetchPage(ctx, c.Fetcher, c.RateLimiter, c.RetryDelays, log, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return found, ctx.Err()
			}
			log("Error scanning URL: %s (%v)", pageURL, err)
		} else {
			links = c.Extractor.ItemLinks(html)
		}

		if added := found.AddAll(links); added == 0 {
			stale++
			log("No new URLs on page %d. Pages without new URLs: %d", page, stale)
		} else {
			stale = 0
			log("Found %d new URLs on page %d", added, page)
		}
		log("Total URLs found: %d", found.Len())

		page++
		if stale >= maxStale {
			state = stateTerminated
		}
	}

	return found, nil
}
