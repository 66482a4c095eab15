package crawl_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/modsdump"
	"github.com/fwojciec/modsdump/mock"
)

// noDelays retries once without waiting.
var noDelays = []time.Duration{0}

// transcript collects log lines from concurrent writers.
type transcript struct {
	mu    sync.Mutex
	lines []string
}

func (tr *transcript) log(format string, args ...any) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.lines = append(tr.lines, fmt.Sprintf(format, args...))
}

func (tr *transcript) all() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.lines...)
}

// count returns the number of lines starting with prefix.
func (tr *transcript) count(prefix string) int {
	n := 0
	for _, l := range tr.all() {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

// memFiles is an in-memory modsdump.FileStore.
type memFiles struct {
	mu     sync.Mutex
	files  map[string]string
	writes int
	fail   map[string]bool
}

func newMemFiles() *memFiles {
	return &memFiles{files: make(map[string]string), fail: make(map[string]bool)}
}

func (m *memFiles) store() *mock.FileStore {
	return &mock.FileStore{
		WriteFn: func(_ context.Context, name string, r io.Reader) (int64, error) {
			b, err := io.ReadAll(r)
			if err != nil {
				return 0, err
			}
			m.mu.Lock()
			defer m.mu.Unlock()
			m.writes++
			if m.fail[name] {
				return 0, modsdump.Errorf(modsdump.EIO, "disk full")
			}
			m.files[name] = string(b)
			return int64(len(b)), nil
		},
	}
}

func (m *memFiles) snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.files))
	for k, v := range m.files {
		out[k] = v
	}
	return out
}

// served is a download served by fileOpener.
type served struct {
	name string
	body string
}

// fileOpener serves downloads by URL and counts every request.
func fileOpener(files map[string]served, opened *atomic.Int32) *mock.Opener {
	return &mock.Opener{
		OpenFn: func(_ context.Context, url string) (*modsdump.Download, error) {
			opened.Add(1)
			f, ok := files[url]
			if !ok {
				return nil, modsdump.Errorf(modsdump.EPROTOCOL, "HTTP 404 for %s", url)
			}
			return &modsdump.Download{
				URL:  url,
				Name: f.name,
				Size: int64(len(f.body)),
				Body: io.NopCloser(strings.NewReader(f.body)),
			}, nil
		},
	}
}

// chooseFilePage renders a multi-file item page linking to hrefs.
func chooseFilePage(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>\n<h1 class=\"p-title-value\">Choose file…</h1>\n<ul>\n")
	for _, h := range hrefs {
		fmt.Fprintf(&b, "<li><a href=%q>file</a></li>\n", h)
	}
	b.WriteString("</ul>\n</body></html>")
	return b.String()
}
