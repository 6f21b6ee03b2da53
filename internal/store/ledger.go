package store

import (
	"sync"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
)

// LedgerStore is the append-only audit ledger of issued locates.
// Records are chronological (insertion order) and immutable: the store
// has no update or delete operation.
type LedgerStore struct {
	mu      sync.RWMutex
	records []domain.LocateRecord
}

// NewLedgerStore creates an empty LedgerStore.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// Append adds a fully formed record to the end of the ledger. The
// record's source list is copied so later caller mutations cannot reach
// the ledger.
func (s *LedgerStore) Append(rec domain.LocateRecord) {
	sources := make([]string, len(rec.Sources))
	copy(sources, rec.Sources)
	rec.Sources = sources

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// List returns the full ledger in insertion order. The returned slice is
// a copy.
func (s *LedgerStore) List() []domain.LocateRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.LocateRecord, len(s.records))
	copy(result, s.records)
	return result
}

// Len returns the number of records in the ledger.
func (s *LedgerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
