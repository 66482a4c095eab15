package crawl

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/modsdump"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of items processed concurrently.
const DefaultWorkers = 10

// Pool downloads the files of many items concurrently.
type Pool struct {
	Site        *modsdump.Site
	Resolver    *Resolver
	Opener      modsdump.Opener
	Store       modsdump.FileStore
	RateLimiter modsdump.DomainLimiter // optional

	// Manifest, when set, receives a FileRecord tagged with RunID for every
	// file written.
	Manifest modsdump.Manifest
	RunID    string

	// Workers defaults to DefaultWorkers.
	Workers int
}

// PoolResult holds the outcome of a download phase.
type PoolResult struct {
	Downloaded int
	Duplicates int
	Failed     int
}

type poolCounters struct {
	downloaded atomic.Int64
	duplicates atomic.Int64
	failed     atomic.Int64
}

// Download processes every item URL with at most Workers running at once.
// Failures are logged and counted per candidate; they never stop other items.
// Once ctx is cancelled no further items are started and Download returns
// after the running ones finish.
func (p *Pool) Download(ctx context.Context, itemURLs []string, log modsdump.LogFunc) *PoolResult {
	if log == nil {
		log = modsdump.Discard
	}
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	names := NewNameSet()
	var c poolCounters

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, itemURL := range itemURLs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p.processItem(ctx, itemURL, names, &c, log)
			return nil
		})
	}
	_ = g.Wait()

	return &PoolResult{
		Downloaded: int(c.downloaded.Load()),
		Duplicates: int(c.duplicates.Load()),
		Failed:     int(c.failed.Load()),
	}
}

// processItem downloads the candidates of one item.
//
// A candidate with an accepted extension is claimed and written. A claim
// that loses, or a rejected name that is already taken, abandons the rest of
// the item. Any other rejected name sends the item through
// reclassifyAsMultiVersion before moving on to the next candidate.
func (p *Pool) processItem(ctx context.Context, itemURL string, names *NameSet, c *poolCounters, log modsdump.LogFunc) {
	candidates, err := p.Resolver.Resolve(ctx, itemURL)
	if err != nil {
		log("Error processing mod at URL: %s (%v)", itemURL, err)
		c.failed.Add(1)
		return
	}
	if len(candidates) == 0 {
		log("No downloads found at URL: %s", itemURL)
		return
	}

	for _, candidate := range candidates {
		dl, name, err := p.open(ctx, candidate)
		if err != nil {
			log("Failed to get file name from URL: %s (%v)", candidate, err)
			c.failed.Add(1)
			continue
		}

		if p.Site.Accepts(name) {
			if !names.Claim(name) {
				dl.Body.Close()
				log("Duplicate file: %s from URL: %s. Skipping.", name, candidate)
				c.duplicates.Add(1)
				return
			}
			log("Downloading: %s from URL: %s", name, candidate)
			if err := p.save(ctx, itemURL, dl, name, c, log); err != nil {
				log("Failed to download: %s from URL: %s (%v)", name, candidate, err)
			} else {
				log("Downloaded: %s", name)
			}
			continue
		}

		dl.Body.Close()
		if names.Has(name) {
			log("Duplicate file: %s from URL: %s. Skipping.", name, candidate)
			c.duplicates.Add(1)
			return
		}

		log("File %s does not have a valid extension. Checking sub versions.", name)
		if err := p.reclassifyAsMultiVersion(ctx, itemURL, names, c, log); err != nil {
			log("Error processing mod at URL: %s (%v)", itemURL, err)
			c.failed.Add(1)
			return
		}
	}
}

// reclassifyAsMultiVersion resolves itemURL again and writes every candidate
// it yields whose name is still unclaimed, regardless of extension.
func (p *Pool) reclassifyAsMultiVersion(ctx context.Context, itemURL string, names *NameSet, c *poolCounters, log modsdump.LogFunc) error {
	candidates, err := p.Resolver.Resolve(ctx, itemURL)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		dl, name, err := p.open(ctx, candidate)
		if err != nil {
			log("Failed to get file name from subversion URL: %s (%v)", candidate, err)
			c.failed.Add(1)
			continue
		}

		if !names.Claim(name) {
			dl.Body.Close()
			log("Duplicate subversion file: %s from URL: %s. Skipping.", name, candidate)
			c.duplicates.Add(1)
			continue
		}

		log("Downloading subversion: %s from URL: %s", name, candidate)
		if err := p.save(ctx, itemURL, dl, name, c, log); err != nil {
			log("Failed to download subversion: %s from URL: %s (%v)", name, candidate, err)
		} else {
			log("Downloaded subversion: %s", name)
		}
	}
	return nil
}

// open requests candidate and resolves its file name. On success the caller
// owns the returned body.
func (p *Pool) open(ctx context.Context, candidate string) (*modsdump.Download, string, error) {
	if err := waitFor(ctx, p.RateLimiter, candidate); err != nil {
		return nil, "", err
	}
	dl, err := p.Opener.Open(ctx, candidate)
	if err != nil {
		return nil, "", err
	}
	name, err := ResolveName(dl)
	if err != nil {
		dl.Body.Close()
		return nil, "", err
	}
	return dl, name, nil
}

// save streams dl into the store under name and closes its body. The name
// stays claimed even when the copy fails.
func (p *Pool) save(ctx context.Context, itemURL string, dl *modsdump.Download, name string, c *poolCounters, log modsdump.LogFunc) error {
	defer dl.Body.Close()

	h := xxhash.New()
	n, err := p.Store.Write(ctx, name, io.TeeReader(dl.Body, h))
	if err != nil {
		c.failed.Add(1)
		return err
	}
	c.downloaded.Add(1)

	if p.Manifest != nil {
		rec := &modsdump.FileRecord{
			RunID:       p.RunID,
			ItemURL:     itemURL,
			DownloadURL: dl.URL,
			Name:        name,
			Size:        n,
			Checksum:    fmt.Sprintf("%x", h.Sum64()),
		}
		if err := p.Manifest.RecordFile(ctx, rec); err != nil {
			log("Manifest error for %s: %v", name, err)
		}
	}
	return nil
}
