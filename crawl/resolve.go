package crawl

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/modsdump"
)

// Resolver turns an item page into its download candidates.
type Resolver struct {
	Site        *modsdump.Site
	Fetcher     modsdump.Fetcher
	Extractor   modsdump.LinkExtractor
	RateLimiter modsdump.DomainLimiter // optional
	RetryDelays []time.Duration
}

// Resolve fetches itemURL and returns its download candidates in document
// order. A page carrying the choose-file marker yields the download links
// found after the marker line, possibly none. Any other page yields the
// single implicit candidate <item>/download.
func (r *Resolver) Resolve(ctx context.Context, itemURL string) ([]string, error) {
	html, err := fetchPage(ctx, r.Fetcher, r.RateLimiter, r.RetryDelays, nil, itemURL)
	if err != nil {
		return nil, err
	}

	rest, ok := afterMarkerLine(html, r.Site.ChooseFileMarker)
	if !ok {
		return []string{r.Site.ImplicitDownloadURL(itemURL)}, nil
	}

	return r.Extractor.DownloadLinks(rest), nil
}

// afterMarkerLine returns the text following the first line containing marker.
func afterMarkerLine(html, marker string) (string, bool) {
	i := strings.Index(html, marker)
	if i < 0 {
		return "", false
	}
	nl := strings.IndexByte(html[i:], '\n')
	if nl < 0 {
		return "", true
	}
	return html[i+nl+1:], true
}
