package service

import (
	"errors"
	"testing"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/engine"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/store"
)

// newTestLocateService creates a LocateService over seeded stores, with
// no webhooks or metrics.
func newTestLocateService() (*LocateService, *store.InventoryStore, *store.LedgerStore) {
	inventory := store.NewInventoryStore()
	restrictions := store.NewRestrictionStore()
	ledger := store.NewLedgerStore()
	store.SeedDefaults(inventory, restrictions)
	g := engine.NewGatekeeper(inventory, restrictions, ledger)
	return NewLocateService(g, nil, nil), inventory, ledger
}

func expectValidationError(t *testing.T, err error) {
	t.Helper()
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSubmit_Pass(t *testing.T) {
	svc, inventory, ledger := newTestLocateService()

	out, err := svc.Submit(SubmitOrderRequest{Ticker: "XYZ", Quantity: 5000, Region: "US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Passed {
		t.Fatalf("expected PASS, got %+v", out.Rejection)
	}
	if got := inventory.TotalAvailable("XYZ"); got != 95000 {
		t.Fatalf("TotalAvailable(XYZ) = %d, want 95000", got)
	}
	if ledger.Len() != 1 {
		t.Fatalf("expected 1 ledger record, got %d", ledger.Len())
	}
}

func TestSubmit_NormalizesTicker(t *testing.T) {
	svc, _, _ := newTestLocateService()

	out, err := svc.Submit(SubmitOrderRequest{Ticker: "  xyz ", Quantity: 100, Region: "US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Passed {
		t.Fatalf("expected PASS after normalization, got %+v", out.Rejection)
	}
}

func TestSubmit_RejectPassthrough(t *testing.T) {
	svc, _, ledger := newTestLocateService()

	out, err := svc.Submit(SubmitOrderRequest{Ticker: "VOLATILE", Quantity: 100, Region: "US"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Passed || out.Rejection.Code != domain.CodeRegulatoryBlock {
		t.Fatalf("expected %s reject, got %+v", domain.CodeRegulatoryBlock, out)
	}
	if ledger.Len() != 0 {
		t.Fatalf("reject must not touch the ledger, got %d records", ledger.Len())
	}
}

func TestSubmit_InvalidTicker(t *testing.T) {
	svc, _, _ := newTestLocateService()

	for _, ticker := range []string{"", "   ", "WAY_TOO_LONG_TICKER", "BAD TICKER", "X¥Z"} {
		_, err := svc.Submit(SubmitOrderRequest{Ticker: ticker, Quantity: 100, Region: "US"})
		expectValidationError(t, err)
	}
}

func TestSubmit_InvalidQuantity(t *testing.T) {
	svc, _, _ := newTestLocateService()

	for _, qty := range []int64{0, -1} {
		_, err := svc.Submit(SubmitOrderRequest{Ticker: "XYZ", Quantity: qty, Region: "US"})
		expectValidationError(t, err)
	}
}

func TestSubmit_InvalidRegion(t *testing.T) {
	svc, _, _ := newTestLocateService()

	for _, region := range []string{"", "EU", "us"} {
		_, err := svc.Submit(SubmitOrderRequest{Ticker: "XYZ", Quantity: 100, Region: region})
		expectValidationError(t, err)
	}
}

func TestSubmit_ValidationDoesNotTouchState(t *testing.T) {
	svc, inventory, ledger := newTestLocateService()

	_, _ = svc.Submit(SubmitOrderRequest{Ticker: "XYZ", Quantity: -5, Region: "US"})

	if got := inventory.TotalAvailable("XYZ"); got != 100000 {
		t.Fatalf("validation failure mutated inventory: %d", got)
	}
	if ledger.Len() != 0 {
		t.Fatalf("validation failure touched the ledger: %d records", ledger.Len())
	}
}
