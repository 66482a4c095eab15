package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/modsdump"
	"github.com/fwojciec/modsdump/crawl"
	"github.com/fwojciec/modsdump/fs"
	"github.com/fwojciec/modsdump/goquery"
	modshttp "github.com/fwojciec/modsdump/http"
	modsslog "github.com/fwojciec/modsdump/slog"
	"github.com/fwojciec/modsdump/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// FindConfig returns the default configuration file path, or "" if
	// there is none. Set before calling Run().
	FindConfig func() string

	// SQLite database backing the run manifest, when --db is given.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		FindConfig: defaultConfigPath,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("modsdump"),
		kong.Description("Download every mod listed in a mod site's catalog"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	opts, err := m.resolveOptions(cli, explicitFlags(kctx))
	if err != nil {
		return err
	}

	runner, err := m.wire(opts, stderr)
	if err != nil {
		return err
	}
	defer m.Close()

	session := runner.Start(ctx, opts.Output)
	for line := range session.Lines() {
		fmt.Fprintln(stdout, line)
	}
	done := <-session.Done()
	if done.Err != nil {
		return fmt.Errorf("run failed: %w", done.Err)
	}

	res := done.Result
	fmt.Fprintln(stdout, "Download completed!")
	fmt.Fprintf(stdout, "%d mods found, %d files downloaded, %d duplicates skipped, %d failures. Output: %s\n",
		res.Discovered, res.Downloaded, res.Duplicates, res.Failed, res.Dir)

	if runner.Manifest != nil && res.RunID != "" {
		files, err := runner.Manifest.FindFiles(ctx, res.RunID)
		if err != nil {
			return fmt.Errorf("failed to read manifest: %w", err)
		}
		fmt.Fprintf(stdout, "Manifest: %d files recorded for run %s in %s\n", len(files), res.RunID, opts.DB)
	}

	return nil
}

// wire builds the Runner for opts.
func (m *Main) wire(opts *Options, stderr io.Writer) (*crawl.Runner, error) {
	jar := modshttp.NewCookieJar()
	var fetcher modsdump.Fetcher = modshttp.NewFetcher(
		modshttp.WithTimeout(opts.Timeout),
		modshttp.WithUserAgent(opts.UserAgent),
		modshttp.WithCookieJar(jar),
	)
	var opener modsdump.Opener = modshttp.NewOpener(
		modshttp.WithTimeout(opts.Timeout),
		modshttp.WithUserAgent(opts.UserAgent),
		modshttp.WithCookieJar(jar),
	)
	newRunStore := fs.NewRunStore

	if opts.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		fetcher = modsslog.NewLoggingFetcher(fetcher, logger)
		opener = modsslog.NewLoggingOpener(opener, logger)
		newRunStore = func(root string, startedAt time.Time) modsdump.RunStore {
			return modsslog.NewLoggingRunStore(fs.NewRunStore(root, startedAt), logger)
		}
	}

	var limiter modsdump.DomainLimiter
	if opts.RateLimit > 0 {
		limiter = crawl.NewDomainLimiter(opts.RateLimit)
	}

	site := opts.Site
	extractor := goquery.NewExtractor(site)
	delays := crawl.RetryDelays(opts.Retries)

	runner := &crawl.Runner{
		Crawler: &crawl.Crawler{
			Site:          site,
			Fetcher:       fetcher,
			Extractor:     extractor,
			RateLimiter:   limiter,
			MaxStalePages: opts.MaxStalePages,
			RetryDelays:   delays,
		},
		Pool: &crawl.Pool{
			Site: site,
			Resolver: &crawl.Resolver{
				Site:        site,
				Fetcher:     fetcher,
				Extractor:   extractor,
				RateLimiter: limiter,
				RetryDelays: delays,
			},
			Opener:      opener,
			RateLimiter: limiter,
			Workers:     opts.Workers,
		},
		NewRunStore: newRunStore,
	}

	if opts.DB != "" {
		m.DB = sqlite.NewDB(opts.DB)
		if err := m.DB.Open(); err != nil {
			m.DB = nil
			return nil, fmt.Errorf("failed to open database at %q: %w", opts.DB, err)
		}
		runner.Manifest = sqlite.NewManifestService(m.DB)
	}

	return runner, nil
}
