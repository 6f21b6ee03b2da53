package store

import (
	"sync"

	"github.com/google/btree"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
)

// lotEntry is the B-tree item for the inventory index. Lots are ordered
// by (ticker, lot id); lot ids are monotonically increasing, so a range
// scan over one ticker yields lots in registration order.
type lotEntry struct {
	ticker string
	lotID  int64
	lot    *domain.InventoryLot
}

func lotLess(a, b lotEntry) bool {
	if a.ticker != b.ticker {
		return a.ticker < b.ticker
	}
	return a.lotID < b.lotID
}

// InventoryStore is a thread-safe in-memory table of lendable positions,
// indexed by (ticker, registration order) with a secondary index by lot id.
// The only mutating operations are Register, Decrement, and ReplaceLender;
// allocation never removes a lot, so a fully drained lot stays visible
// with quantity zero.
type InventoryStore struct {
	mu     sync.RWMutex
	lots   *btree.BTreeG[lotEntry]
	byID   map[int64]*domain.InventoryLot
	nextID int64
}

// NewInventoryStore creates an empty InventoryStore.
func NewInventoryStore() *InventoryStore {
	const degree = 32
	return &InventoryStore{
		lots: btree.NewG[lotEntry](degree, lotLess),
		byID: make(map[int64]*domain.InventoryLot),
	}
}

// Register adds a lendable position, assigns its lot id, and returns the
// stored lot (as a value copy). Registration order defines allocation
// order within a ticker.
func (s *InventoryStore) Register(lot domain.InventoryLot) domain.InventoryLot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.register(lot)
}

// register inserts a lot. Caller must hold the write lock.
func (s *InventoryStore) register(lot domain.InventoryLot) domain.InventoryLot {
	s.nextID++
	lot.LotID = s.nextID

	stored := lot
	s.byID[stored.LotID] = &stored
	s.lots.ReplaceOrInsert(lotEntry{ticker: stored.Ticker, lotID: stored.LotID, lot: &stored})

	return stored
}

// List returns all lots ordered by ticker, then registration order.
func (s *InventoryStore) List() []domain.InventoryLot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.InventoryLot, 0, s.lots.Len())
	s.lots.Ascend(func(e lotEntry) bool {
		result = append(result, *e.lot)
		return true
	})
	return result
}

// ListByTicker returns the ticker's lots in registration order. Returns
// an empty slice when the ticker has no lots.
func (s *InventoryStore) ListByTicker(ticker string) []domain.InventoryLot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.InventoryLot{}
	s.lots.AscendGreaterOrEqual(lotEntry{ticker: ticker}, func(e lotEntry) bool {
		if e.ticker != ticker {
			return false
		}
		result = append(result, *e.lot)
		return true
	})
	return result
}

// TotalAvailable sums the lendable quantity for a ticker across all lenders.
func (s *InventoryStore) TotalAvailable(ticker string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	s.lots.AscendGreaterOrEqual(lotEntry{ticker: ticker}, func(e lotEntry) bool {
		if e.ticker != ticker {
			return false
		}
		total += e.lot.Quantity
		return true
	})
	return total
}

// TotalLendable sums the lendable quantity across all tickers and lenders.
func (s *InventoryStore) TotalLendable() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	s.lots.Ascend(func(e lotEntry) bool {
		total += e.lot.Quantity
		return true
	})
	return total
}

// Decrement reduces a lot's quantity by qty. It returns
// domain.ErrLotNotFound for an unknown lot id, and
// domain.ErrInventoryUnderflow when qty is non-positive or exceeds the
// lot's current quantity. Underflow is never clamped: reaching it means
// the caller's liquidity check was bypassed.
func (s *InventoryStore) Decrement(lotID, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lot, ok := s.byID[lotID]
	if !ok {
		return domain.ErrLotNotFound
	}
	if qty <= 0 || qty > lot.Quantity {
		return domain.ErrInventoryUnderflow
	}

	lot.Quantity -= qty
	return nil
}

// ReplaceLender removes every lot belonging to the lender and registers
// the given lots in their place (a full feed refresh). New lots receive
// fresh lot ids, so they order after any surviving lots of the same
// ticker. Returns the stored replacements.
func (s *InventoryStore) ReplaceLender(lender string, lots []domain.InventoryLot) []domain.InventoryLot {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Collect the lender's entries first; deleting inside Ascend would
	// invalidate the iteration.
	var stale []lotEntry
	s.lots.Ascend(func(e lotEntry) bool {
		if e.lot.Lender == lender {
			stale = append(stale, e)
		}
		return true
	})
	for _, e := range stale {
		s.lots.Delete(e)
		delete(s.byID, e.lotID)
	}

	stored := make([]domain.InventoryLot, 0, len(lots))
	for _, lot := range lots {
		lot.Lender = lender
		stored = append(stored, s.register(lot))
	}
	return stored
}
