package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/fwojciec/modsdump"
	"github.com/fwojciec/modsdump/crawl"
	modshttp "github.com/fwojciec/modsdump/http"
	"github.com/fwojciec/modsdump/yaml"
)

// CLI defines the command-line interface structure for Kong.
// Zero values mean "not set" so that the configuration file can fill them in.
type CLI struct {
	Config        string        `help:"Configuration file (default: $XDG_CONFIG_HOME/modsdump/config.yaml)" type:"path"`
	Origin        string        `help:"Site origin to crawl (default: https://mods.sm64coopdx.com)"`
	Workers       int           `short:"w" help:"Concurrent download limit (default: 10)"`
	MaxStalePages int           `help:"Stop after this many pages without new mods (default: 3)"`
	Timeout       time.Duration `short:"t" help:"Page request timeout (default: 30s)"`
	RateLimit     float64       `help:"Requests per second per host, 0 for unlimited"`
	Retries       int           `help:"Retries for failed page fetches"`
	UserAgent     string        `help:"User-Agent header"`
	DB            string        `name:"db" help:"Record runs in this SQLite manifest" type:"path"`
	Verbose       bool          `short:"v" help:"Log requests to stderr"`
	Output        string        `arg:"" name:"output-root" help:"Directory the run directory is created in" type:"path"`
}

// Options is the resolved configuration of a run.
type Options struct {
	Site          *modsdump.Site
	Workers       int
	MaxStalePages int
	Timeout       time.Duration
	RateLimit     float64
	Retries       int
	UserAgent     string
	DB            string
	Verbose       bool
	Output        string
}

const configFile = "modsdump/config.yaml"

// defaultConfigPath looks for the configuration file in the XDG config dirs.
func defaultConfigPath() string {
	path, err := xdg.SearchConfigFile(configFile)
	if err != nil {
		return ""
	}
	return path
}

// explicitFlags returns the names of the flags given on the command line.
func explicitFlags(kctx *kong.Context) map[string]bool {
	set := make(map[string]bool)
	for _, f := range kctx.Flags() {
		if f.Set {
			set[f.Name] = true
		}
	}
	return set
}

// resolveOptions merges flags, the configuration file and defaults, in that
// order of precedence. A flag named in explicit wins even when it is zero.
func (m *Main) resolveOptions(cli *CLI, explicit map[string]bool) (*Options, error) {
	if err := cli.validate(); err != nil {
		return nil, err
	}

	file := &yaml.File{}

	path := cli.Config
	if path == "" && m.FindConfig != nil {
		path = m.FindConfig()
	}
	if path != "" {
		f, err := yaml.Load(path)
		switch {
		case errors.Is(err, yaml.ErrConfigNotFound) && cli.Config == "":
		case errors.Is(err, yaml.ErrConfigNotFound):
			return nil, fmt.Errorf("config file %q not found", path)
		case err != nil:
			return nil, err
		default:
			file = f
		}
	}

	site := modsdump.DefaultSite()
	file.ApplySite(site)
	if cli.Origin != "" {
		site.Origin = cli.Origin
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}

	opts := &Options{
		Site:          site,
		Workers:       pick(explicit["workers"], cli.Workers, file.Workers, crawl.DefaultWorkers),
		MaxStalePages: pick(explicit["max-stale-pages"], cli.MaxStalePages, file.MaxStalePages, crawl.DefaultMaxStalePages),
		Timeout:       pick(explicit["timeout"], cli.Timeout, file.Timeout, modshttp.DefaultFetchTimeout),
		RateLimit:     pick(explicit["rate-limit"], cli.RateLimit, file.RateLimit, 0),
		Retries:       pick(explicit["retries"], cli.Retries, file.Retries, 0),
		UserAgent:     firstNonEmpty(cli.UserAgent, file.UserAgent, modshttp.DefaultUserAgent),
		DB:            firstNonEmpty(cli.DB, file.DB),
		Verbose:       cli.Verbose,
		Output:        cli.Output,
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// validate rejects negative flag values, which would otherwise be read as unset.
func (c *CLI) validate() error {
	switch {
	case c.Workers < 0:
		return modsdump.Errorf(modsdump.EINVALID, "--workers must not be negative")
	case c.MaxStalePages < 0:
		return modsdump.Errorf(modsdump.EINVALID, "--max-stale-pages must not be negative")
	case c.Timeout < 0:
		return modsdump.Errorf(modsdump.EINVALID, "--timeout must not be negative")
	case c.RateLimit < 0:
		return modsdump.Errorf(modsdump.EINVALID, "--rate-limit must not be negative")
	case c.Retries < 0:
		return modsdump.Errorf(modsdump.EINVALID, "--retries must not be negative")
	}
	return nil
}

// Validate returns an error if any option is out of range.
func (o *Options) Validate() error {
	switch {
	case o.Workers < 1:
		return modsdump.Errorf(modsdump.EINVALID, "workers must be at least 1")
	case o.MaxStalePages < 1:
		return modsdump.Errorf(modsdump.EINVALID, "max stale pages must be at least 1")
	case o.Timeout <= 0:
		return modsdump.Errorf(modsdump.EINVALID, "timeout must be positive")
	case o.RateLimit < 0:
		return modsdump.Errorf(modsdump.EINVALID, "rate limit must not be negative")
	case o.Retries < 0:
		return modsdump.Errorf(modsdump.EINVALID, "retries must not be negative")
	case o.Output == "":
		return modsdump.Errorf(modsdump.EINVALID, "output directory required")
	}
	return nil
}

type number interface {
	int | float64 | time.Duration
}

// pick returns flag when it was given, else the first positive fallback.
func pick[T number](given bool, flag T, fallbacks ...T) T {
	if given {
		return flag
	}
	return firstPositive(fallbacks...)
}

func firstPositive[T number](vals ...T) T {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	var zero T
	return zero
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
