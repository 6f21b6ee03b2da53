package store

import (
	"sort"
	"sync"
)

// RestrictionStore tracks securities on the threshold-restricted list in
// a thread-safe manner. Membership is an exact ticker match; the list is
// maintained by upstream refresh collaborators and the gatekeeper only
// reads it.
type RestrictionStore struct {
	mu      sync.RWMutex
	tickers map[string]bool
}

// NewRestrictionStore creates an empty RestrictionStore.
func NewRestrictionStore() *RestrictionStore {
	return &RestrictionStore{
		tickers: make(map[string]bool),
	}
}

// Add places a ticker on the restricted list. Safe for concurrent use.
// Returns false if the ticker was already restricted.
func (s *RestrictionStore) Add(ticker string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tickers[ticker] {
		return false
	}
	s.tickers[ticker] = true
	return true
}

// Remove takes a ticker off the restricted list. Returns false if the
// ticker was not restricted.
func (s *RestrictionStore) Remove(ticker string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tickers[ticker] {
		return false
	}
	delete(s.tickers, ticker)
	return true
}

// IsRestricted reports whether the ticker is on the restricted list.
// Safe for concurrent use.
func (s *RestrictionStore) IsRestricted(ticker string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tickers[ticker]
}

// List returns the restricted tickers in sorted order.
func (s *RestrictionStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, 0, len(s.tickers))
	for t := range s.tickers {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}
