package store

import "github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"

// SeedDefaults loads the default lendable inventory and restricted list
// used when the process starts without an upstream feed. Lots register in
// the order listed, which fixes their allocation order.
func SeedDefaults(inventory *InventoryStore, restrictions *RestrictionStore) {
	lots := []domain.InventoryLot{
		{Ticker: "XYZ", Lender: "State Street", Quantity: 100000, TaxID: "99-123456", Region: domain.RegionUS},
		{Ticker: "ABC", Lender: "CalPERS", Quantity: 50000, TaxID: "88-654321", Region: domain.RegionUS},
		{Ticker: "JP_CORP", Lender: "Nomura", Quantity: 20000, TaxID: "77-111222", Region: domain.RegionJP},
		{Ticker: "VOLATILE", Lender: "State Street", Quantity: 10000, TaxID: "99-123456", Region: domain.RegionUS},
	}
	for _, lot := range lots {
		inventory.Register(lot)
	}

	for _, ticker := range []string{"VOLATILE", "FAIL_CORP"} {
		restrictions.Add(ticker)
	}
}
