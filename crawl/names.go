package crawl

import (
	"net/url"
	"path"
	"sync"

	"github.com/fwojciec/modsdump"
)

// NameSet records the file names claimed during a run.
// It is safe for concurrent use.
type NameSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewNameSet returns an empty NameSet.
func NewNameSet() *NameSet {
	return &NameSet{names: make(map[string]struct{})}
}

// Claim marks name as taken and reports whether the caller is its first claimant.
func (s *NameSet) Claim(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[name]; ok {
		return false
	}
	s.names[name] = struct{}{}
	return true
}

// Has reports whether name has been claimed.
func (s *NameSet) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.names[name]
	return ok
}

// Len returns the number of claimed names.
func (s *NameSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}

// ResolveName picks the local file name for an opened download: the declared
// attachment name when usable, otherwise the last URL segment with its query,
// so download?file=1 and download?file=2 stay distinct.
func ResolveName(dl *modsdump.Download) (string, error) {
	if name, ok := modsdump.FileName(dl.Name); ok {
		return name, nil
	}
	if u, err := url.Parse(dl.URL); err == nil {
		last := path.Base(u.Path)
		if last == "." || last == "/" {
			last = ""
		}
		if u.RawQuery != "" {
			last += "?" + u.RawQuery
		}
		if name, ok := modsdump.FileName(last); ok {
			return name, nil
		}
	}
	return "", modsdump.Errorf(modsdump.ERESOLUTION, "cannot determine file name for %s", dl.URL)
}
