package domain

import "fmt"

// Region identifies the settlement region of an order or a lendable position.
type Region string

const (
	RegionUS Region = "US"
	RegionJP Region = "JP"
)

// ParseRegion maps a string to a Region. The set is closed; anything
// outside it returns false.
func ParseRegion(s string) (Region, bool) {
	switch Region(s) {
	case RegionUS:
		return RegionUS, true
	case RegionJP:
		return RegionJP, true
	}
	return "", false
}

// InventoryLot is one lender's lendable position in one security.
// LotID is assigned by the inventory store at registration time and is
// stable for the life of the process; registration order defines the
// allocation order within a ticker. Quantity may reach zero but a lot is
// never removed by allocation.
type InventoryLot struct {
	LotID    int64
	Ticker   string
	Lender   string
	Quantity int64
	TaxID    string
	Region   Region
}

// SourceDescriptor returns the lender attribution recorded on locate
// records, e.g. "State Street (TaxID: 99-123456)".
func (l *InventoryLot) SourceDescriptor() string {
	return fmt.Sprintf("%s (TaxID: %s)", l.Lender, l.TaxID)
}
