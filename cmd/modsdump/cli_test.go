package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCLI_ShowsHelpWhenAsked(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"--help", "-h", "help"} {
		m := newMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{arg}, &stdout, &stderr)

		require.NoError(t, err, arg)
		assert.Contains(t, stdout.String(), "--max-stale-pages", arg)
	}
}

func TestCLI_UsesDiscoveredConfigFile(t *testing.T) {
	t.Parallel()

	// Given: a config file found in the config dirs pointing at the site
	srv := newModSite(t)
	path := writeConfig(t, "site:\n  origin: "+srv.URL+"\nmax_stale_pages: 1\nworkers: 2\n")
	m := newMain()
	m.FindConfig = func() string { return path }
	var stdout, stderr bytes.Buffer

	// When: running without --origin
	err := m.Run(context.Background(), []string{t.TempDir()}, &stdout, &stderr)

	// Then: the configured site is crawled
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Scanning URL: "+srv.URL+"/mods/")
	assert.Contains(t, stdout.String(), "2 files downloaded")
}

func TestCLI_FlagsOverrideConfigFile(t *testing.T) {
	t.Parallel()

	// Given: a config file with an unreachable origin
	srv := newModSite(t)
	path := writeConfig(t, "site:\n  origin: http://127.0.0.1:1\nmax_stale_pages: 1\n")
	m := newMain()
	var stdout, stderr bytes.Buffer

	// When: the origin flag names the real site
	err := m.Run(context.Background(), []string{"--config", path, "--origin", srv.URL, t.TempDir()}, &stdout, &stderr)

	// Then: the flag wins
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Scanning URL: "+srv.URL+"/mods/")
	assert.NotContains(t, stdout.String(), "127.0.0.1:1")
}

func TestCLI_MissingDiscoveredConfigIsIgnored(t *testing.T) {
	t.Parallel()

	srv := newModSite(t)
	m := newMain()
	m.FindConfig = func() string { return filepath.Join(t.TempDir(), "gone.yaml") }
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--origin", srv.URL, "--max-stale-pages", "1", t.TempDir()}, &stdout, &stderr)

	require.NoError(t, err)
}

func TestCLI_RejectsMalformedConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "workers: [not, a, number]\n")
	m := newMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--config", path, t.TempDir()}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestCLI_RejectsNegativeConfigValues(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "retries: -2\n")
	m := newMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--config", path, t.TempDir()}, &stdout, &stderr)

	assert.Error(t, err)
}

// newFlakyCatalogSite serves modSite but fails every catalog page after the first.
func newFlakyCatalogSite(t *testing.T) *httptest.Server {
	t.Helper()

	site := modSite()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/mods/" && r.URL.Query().Get("page") != "" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		site(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCLI_RetriesComeFromConfigFile(t *testing.T) {
	t.Parallel()

	// Given: a config file asking for one retry and a catalog whose second page fails
	srv := newFlakyCatalogSite(t)
	path := writeConfig(t, "retries: 1\nmax_stale_pages: 1\n")
	m := newMain()
	var stdout, stderr bytes.Buffer

	// When: running without --retries
	err := m.Run(context.Background(), []string{"--config", path, "--origin", srv.URL, t.TempDir()}, &stdout, &stderr)

	// Then: the failing page is retried once
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Retrying URL: "+srv.URL+"/mods/?page=1 (attempt 2)")
}

func TestCLI_ExplicitZeroFlagOverridesConfigFile(t *testing.T) {
	t.Parallel()

	// Given: a config file asking for retries and a rate limit
	srv := newFlakyCatalogSite(t)
	path := writeConfig(t, "retries: 1\nrate_limit: 0.2\nmax_stale_pages: 1\n")
	m := newMain()
	var stdout, stderr bytes.Buffer

	// When: both are switched off on the command line
	err := m.Run(context.Background(), []string{
		"--config", path, "--origin", srv.URL, "--retries", "0", "--rate-limit", "0", t.TempDir(),
	}, &stdout, &stderr)

	// Then: nothing is retried and the run is not throttled
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "Retrying URL")
	assert.Contains(t, stdout.String(), "2 files downloaded")
}
