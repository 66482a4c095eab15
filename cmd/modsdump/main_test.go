package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/modsdump/cmd/modsdump"
	"github.com/fwojciec/modsdump/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMain returns a Main that ignores any configuration on the host.
func newMain() *main.Main {
	m := main.NewMain()
	m.FindConfig = func() string { return "" }
	return m
}

// newModSite serves a catalog with one single-file mod and one mod with a
// choose-file page.
func newModSite(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(modSite())
	t.Cleanup(srv.Close)
	return srv
}

func modSite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/mods/":
			_, _ = w.Write([]byte(`<html><body>
<a href="/mods/alpha/">Alpha</a>
<a href="/mods/beta/">Beta</a>
<a href="/members/someone/">Someone</a>
</body></html>`))
		case "/mods/alpha/":
			_, _ = w.Write([]byte(`<html><body><h1 class="p-title-value">Alpha</h1></body></html>`))
		case "/mods/alpha/download":
			w.Header().Set("Content-Disposition", `attachment; filename="alpha.zip"`)
			_, _ = w.Write([]byte("alpha archive"))
		case "/mods/beta/":
			_, _ = w.Write([]byte(`<html><body>
<h1 class="p-title-value">Choose file…</h1>
<a href="/mods/beta/download?file=1">beta.lua</a>
</body></html>`))
		case "/mods/beta/download":
			w.Header().Set("Content-Disposition", `attachment; filename="beta.lua"`)
			_, _ = w.Write([]byte("-- beta"))
		default:
			http.NotFound(w, r)
		}
	}
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := newMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "modsdump")
	assert.Contains(t, stdout.String(), "output-root")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := newMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_RejectsNegativeWorkers(t *testing.T) {
	t.Parallel()

	m := newMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--workers=-1", t.TempDir()}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_RejectsInvalidOrigin(t *testing.T) {
	t.Parallel()

	m := newMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--origin", "not a url", t.TempDir()}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_MissingExplicitConfigFails(t *testing.T) {
	t.Parallel()

	m := newMain()
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	err := m.Run(context.Background(), []string{"--config", missing, t.TempDir()}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMain_Run_DownloadsEveryMod(t *testing.T) {
	t.Parallel()

	// Given: a site with two mods and an empty output root
	srv := newModSite(t)
	root := t.TempDir()
	m := newMain()
	var stdout, stderr bytes.Buffer

	// When: running against the site
	err := m.Run(context.Background(), []string{"--origin", srv.URL, "--max-stale-pages", "1", root}, &stdout, &stderr)

	// Then: both files land in the mods directory of a fresh run directory
	require.NoError(t, err)

	dirs, err := filepath.Glob(filepath.Join(root, "mods-dump-*"))
	require.NoError(t, err)
	require.Len(t, dirs, 1)

	alpha, err := os.ReadFile(filepath.Join(dirs[0], fs.ModsDirName, "alpha.zip"))
	require.NoError(t, err)
	assert.Equal(t, "alpha archive", string(alpha))

	beta, err := os.ReadFile(filepath.Join(dirs[0], fs.ModsDirName, "beta.lua"))
	require.NoError(t, err)
	assert.Equal(t, "-- beta", string(beta))

	urls, err := os.ReadFile(filepath.Join(dirs[0], fs.URLListName))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/mods/alpha/\n"+srv.URL+"/mods/beta/\n", string(urls))

	// And: the transcript and summary are printed
	out := stdout.String()
	assert.Contains(t, out, "Scanning URL: "+srv.URL+"/mods/")
	assert.Contains(t, out, "Downloaded: alpha.zip")
	assert.Contains(t, out, "Downloaded: beta.lua")
	assert.Contains(t, out, "Download completed!")
	assert.Contains(t, out, "2 mods found, 2 files downloaded")
}

func TestMain_Run_RecordsManifest(t *testing.T) {
	t.Parallel()

	// Given: a site and a manifest database path
	srv := newModSite(t)
	root := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "manifest.db")
	m := newMain()
	var stdout, stderr bytes.Buffer

	// When: running with --db and --verbose
	err := m.Run(context.Background(), []string{
		"--origin", srv.URL, "--max-stale-pages", "1", "--db", dbPath, "--verbose", root,
	}, &stdout, &stderr)

	// Then: the database is created and requests are logged to stderr
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Manifest: 2 files recorded for run ")
	assert.Contains(t, stderr.String(), "msg=fetch")
	assert.Contains(t, stderr.String(), "msg=open")
}

func TestMain_Run_CancelledContextFails(t *testing.T) {
	t.Parallel()

	srv := newModSite(t)
	m := newMain()
	var stdout, stderr bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx, []string{"--origin", srv.URL, t.TempDir()}, &stdout, &stderr)

	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, stdout.String(), "Download completed!")
}
