package domain

import "testing"

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in   string
		want Region
		ok   bool
	}{
		{"US", RegionUS, true},
		{"JP", RegionJP, true},
		{"us", "", false},
		{"EU", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRegion(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseRegion(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInventoryLot_SourceDescriptor(t *testing.T) {
	lot := &InventoryLot{
		Ticker:   "XYZ",
		Lender:   "State Street",
		Quantity: 100000,
		TaxID:    "99-123456",
		Region:   RegionUS,
	}

	want := "State Street (TaxID: 99-123456)"
	if got := lot.SourceDescriptor(); got != want {
		t.Errorf("SourceDescriptor() = %q, want %q", got, want)
	}
}
