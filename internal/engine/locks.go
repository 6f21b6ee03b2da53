package engine

import "sync"

// tickerLocks hands out one mutex per ticker so allocations for
// different securities proceed in parallel while allocations for the
// same security serialize. Locks are created on first use and never
// discarded; the universe of tickers is small and process-scoped.
type tickerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newTickerLocks() *tickerLocks {
	return &tickerLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for a ticker, creating it on first use.
func (t *tickerLocks) get(ticker string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.locks[ticker]
	if !ok {
		l = &sync.Mutex{}
		t.locks[ticker] = l
	}
	return l
}
