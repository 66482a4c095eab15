package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/modsdump"
)

// Runner performs a complete run: crawl, persist the URL list, download.
type Runner struct {
	Crawler *Crawler

	// Pool is copied for each run; its Store, Manifest and RunID are
	// replaced with per-run values.
	Pool *Pool

	// Manifest is optional. Its errors are logged and never end the run.
	Manifest modsdump.Manifest

	// NewRunStore lays out the run directory below the output root.
	NewRunStore func(root string, startedAt time.Time) modsdump.RunStore

	// Now defaults to time.Now.
	Now func() time.Time
}

// Result summarises a run.
type Result struct {
	RunID      string // empty without a manifest
	Dir        string
	Discovered int
	PoolResult
}

// Run executes one run below outputRoot, sending transcript lines to log.
// It returns an error when the crawl is cancelled or the mods directory
// cannot be created; every other failure is logged and skipped.
func (r *Runner) Run(ctx context.Context, outputRoot string, log modsdump.LogFunc) (*Result, error) {
	if log == nil {
		log = modsdump.Discard
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}

	store := r.NewRunStore(outputRoot, now())
	res := &Result{Dir: store.Dir()}

	run := &modsdump.Run{Origin: r.Crawler.Site.Origin, OutputDir: store.Dir()}
	manifest := r.Manifest
	if manifest != nil {
		if err := manifest.BeginRun(ctx, run); err != nil {
			log("Manifest error: %v", err)
			manifest = nil
		} else {
			res.RunID = run.ID
			defer func() {
				run.FinishedAt = now().UTC()
				run.Discovered = res.Discovered
				run.Downloaded = res.Downloaded
				run.Duplicates = res.Duplicates
				run.Failed = res.Failed
				if err := manifest.FinishRun(context.WithoutCancel(ctx), run); err != nil {
					log("Manifest error: %v", err)
				}
			}()
		}
	}

	set, crawlErr := r.Crawler.Discover(ctx, log)
	urls := set.Sorted()
	res.Discovered = len(urls)
	if crawlErr != nil {
		log("Scan interrupted: %v", crawlErr)
	}

	if err := store.SaveURLs(ctx, urls); err != nil {
		log("Error saving URLs: %v", err)
	}
	if crawlErr != nil {
		return res, crawlErr
	}

	mods, err := store.Mods(ctx)
	if err != nil {
		log("Error creating mods directory: %v", err)
		return res, err
	}

	pool := *r.Pool
	pool.Store = mods
	pool.Manifest = manifest
	pool.RunID = run.ID
	res.PoolResult = *pool.Download(ctx, urls, log)

	return res, ctx.Err()
}

// Completion is the final outcome of a Session.
type Completion struct {
	Result *Result
	Err    error
}

// Session is a run in progress.
type Session struct {
	lines chan string
	done  chan Completion
}

// Start runs r in the background and returns immediately.
// The caller must drain Lines until it is closed.
func (r *Runner) Start(ctx context.Context, outputRoot string) *Session {
	s := &Session{
		lines: make(chan string, 64),
		done:  make(chan Completion, 1),
	}

	go func() {
		res, err := r.Run(ctx, outputRoot, s.logf)
		close(s.lines)
		s.done <- Completion{Result: res, Err: err}
	}()

	return s
}

// Lines streams transcript lines in the order they were logged.
// It is closed when the run ends.
func (s *Session) Lines() <-chan string {
	return s.lines
}

// Done delivers exactly one Completion after Lines is closed.
func (s *Session) Done() <-chan Completion {
	return s.done
}

func (s *Session) logf(format string, args ...any) {
	s.lines <- fmt.Sprintf(format, args...)
}
