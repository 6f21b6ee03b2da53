package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/store"
)

// Gatekeeper is the validation-and-allocation engine. For each proposed
// short-sale order it evaluates, in a fixed order: the restriction check,
// the settlement-friction check, the liquidity check, and finally the
// greedy first-fit allocation. The first failing check rejects the order
// with zero side effects; only a full pass mutates inventory and appends
// a ledger record.
type Gatekeeper struct {
	inventory    *store.InventoryStore
	restrictions *store.RestrictionStore
	ledger       *store.LedgerStore

	// refreshMu serializes feed refreshes against in-flight allocations:
	// ProcessOrder holds the read side, RefreshLender the write side, so
	// a lender replacement is never observed mid-allocation.
	refreshMu sync.RWMutex
	locks     *tickerLocks
}

// NewGatekeeper creates a Gatekeeper over the given stores. The engine
// is the sole writer of lot quantities and ledger appends.
func NewGatekeeper(
	inventory *store.InventoryStore,
	restrictions *store.RestrictionStore,
	ledger *store.LedgerStore,
) *Gatekeeper {
	return &Gatekeeper{
		inventory:    inventory,
		restrictions: restrictions,
		ledger:       ledger,
		locks:        newTickerLocks(),
	}
}

// ProcessOrder runs the gatekeeper pass for one order. The caller must
// provide a validated request with an upper-cased ticker and positive
// quantity.
//
// The {liquidity check → allocation → ledger append} sequence for a
// ticker runs under that ticker's mutex; two concurrent orders can never
// both observe the same liquidity and over-allocate.
//
// A non-nil error is an internal fault (a broken invariant), never a
// business rejection; rejections come back inside the Outcome.
func (g *Gatekeeper) ProcessOrder(req domain.OrderRequest) (*domain.Outcome, error) {
	// Checks 1 and 2 are pure reads; no allocation lock needed. A ticker
	// can fail both, but only the first failure in order is reported.
	if g.restrictions.IsRestricted(req.Ticker) && !req.PreBorrow {
		return &domain.Outcome{Rejection: domain.RegulatoryBlock(req.Ticker)}, nil
	}
	if req.Region == domain.RegionJP && !req.PreBorrow {
		return &domain.Outcome{Rejection: domain.SettlementRisk()}, nil
	}

	g.refreshMu.RLock()
	defer g.refreshMu.RUnlock()

	lock := g.locks.get(req.Ticker)
	lock.Lock()
	defer lock.Unlock()

	// Check 3: summed liquidity across all lenders.
	total := g.inventory.TotalAvailable(req.Ticker)
	if total < req.Quantity {
		return &domain.Outcome{Rejection: domain.InsufficientLiquidity(req.Quantity, total)}, nil
	}

	// Check 4: greedy first-fit over lots in registration order. Drained
	// lots are skipped rather than recorded as zero-share sources.
	remaining := req.Quantity
	var sources []string
	for _, lot := range g.inventory.ListByTicker(req.Ticker) {
		if remaining <= 0 {
			break
		}
		if lot.Quantity == 0 {
			continue
		}

		take := lot.Quantity
		if remaining < take {
			take = remaining
		}
		if err := g.inventory.Decrement(lot.LotID, take); err != nil {
			return nil, fmt.Errorf("allocating %d shares of %s from lot %d: %w",
				take, req.Ticker, lot.LotID, err)
		}
		remaining -= take
		sources = append(sources, lot.SourceDescriptor())
	}

	locateID := strings.ToUpper(uuid.New().String())
	g.ledger.Append(domain.LocateRecord{
		Time:     time.Now(),
		LocateID: locateID,
		Ticker:   req.Ticker,
		Quantity: req.Quantity,
		Sources:  sources,
	})

	return &domain.Outcome{
		Passed:   true,
		LocateID: locateID,
		Sources:  sources,
	}, nil
}

// RefreshLender atomically replaces a lender's lots with a fresh feed
// snapshot. It holds the refresh lock exclusively, so no allocation is
// in flight for any ticker while the table changes.
func (g *Gatekeeper) RefreshLender(lender string, lots []domain.InventoryLot) []domain.InventoryLot {
	g.refreshMu.Lock()
	defer g.refreshMu.Unlock()
	return g.inventory.ReplaceLender(lender, lots)
}
