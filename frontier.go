package modsdump

import (
	"context"
	"slices"
	"sync"
)

// DiscoverySet is the set of item URLs found while crawling the catalog.
// Membership is exact string equality. It is safe for concurrent use.
type DiscoverySet struct {
	mu   sync.RWMutex
	urls map[string]struct{}
}

// NewDiscoverySet returns an empty DiscoverySet.
func NewDiscoverySet() *DiscoverySet {
	return &DiscoverySet{urls: make(map[string]struct{})}
}

// AddAll merges urls into the set and returns how many were not already present.
func (s *DiscoverySet) AddAll(urls []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, u := range urls {
		if _, ok := s.urls[u]; ok {
			continue
		}
		s.urls[u] = struct{}{}
		added++
	}
	return added
}

// Has reports whether url is in the set.
func (s *DiscoverySet) Has(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.urls[url]
	return ok
}

// Len returns the number of URLs in the set.
func (s *DiscoverySet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.urls)
}

// Sorted returns the URLs in lexicographic order.
func (s *DiscoverySet) Sorted() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.urls))
	for u := range s.urls {
		out = append(out, u)
	}
	s.mu.RUnlock()

	slices.Sort(out)
	return out
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
