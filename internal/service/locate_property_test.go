package service

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/engine"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/store"
)

// TestProperty_TickerCaseInsensitive verifies that any casing of a valid
// ticker produces the same outcome as the upper-cased form.
func TestProperty_TickerCaseInsensitive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ticker := rapid.StringMatching(`[A-Z0-9_.]{1,12}`).Draw(t, "ticker")

		// Randomize the casing of letter runes.
		runes := []rune(ticker)
		for i, r := range runes {
			if r >= 'A' && r <= 'Z' && rapid.Bool().Draw(t, "lower") {
				runes[i] = r + ('a' - 'A')
			}
		}
		mixed := string(runes)

		run := func(input string) bool {
			inventory := store.NewInventoryStore()
			restrictions := store.NewRestrictionStore()
			ledger := store.NewLedgerStore()
			store.SeedDefaults(inventory, restrictions)
			svc := NewLocateService(engine.NewGatekeeper(inventory, restrictions, ledger), nil, nil)

			out, err := svc.Submit(SubmitOrderRequest{Ticker: input, Quantity: 100, Region: "US"})
			if err != nil {
				t.Fatalf("Submit(%q): unexpected error: %v", input, err)
			}
			return out.Passed
		}

		if run(mixed) != run(strings.ToUpper(ticker)) {
			t.Fatalf("outcome for %q differs from %q", mixed, strings.ToUpper(ticker))
		}
	})
}

// TestProperty_RejectedResubmissionIsStable verifies that resubmitting a
// rejected order yields the identical rejection, with no state drift
// between attempts.
func TestProperty_RejectedResubmissionIsStable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inventory := store.NewInventoryStore()
		restrictions := store.NewRestrictionStore()
		ledger := store.NewLedgerStore()
		store.SeedDefaults(inventory, restrictions)
		svc := NewLocateService(engine.NewGatekeeper(inventory, restrictions, ledger), nil, nil)

		// ABC holds 50000; anything above that rejects on liquidity.
		requested := rapid.Int64Range(50001, 1000000).Draw(t, "requested")
		attempts := rapid.IntRange(2, 5).Draw(t, "attempts")

		var firstReason string
		for i := 0; i < attempts; i++ {
			out, err := svc.Submit(SubmitOrderRequest{Ticker: "ABC", Quantity: requested, Region: "US"})
			if err != nil {
				t.Fatalf("attempt %d: unexpected error: %v", i, err)
			}
			if out.Passed {
				t.Fatalf("attempt %d: expected reject for quantity %d", i, requested)
			}
			if i == 0 {
				firstReason = out.Rejection.Reason
			} else if out.Rejection.Reason != firstReason {
				t.Fatalf("attempt %d: reason drifted: %q vs %q", i, out.Rejection.Reason, firstReason)
			}
		}

		if got := inventory.TotalAvailable("ABC"); got != 50000 {
			t.Fatalf("rejections mutated inventory: %d", got)
		}
		if ledger.Len() != 0 {
			t.Fatalf("rejections touched the ledger: %d records", ledger.Len())
		}
	})
}
