package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
)

func newTestRecord(id string, at time.Time) domain.LocateRecord {
	return domain.LocateRecord{
		Time:     at,
		LocateID: id,
		Ticker:   "XYZ",
		Quantity: 5000,
		Sources:  []string{"State Street (TaxID: 99-123456)"},
	}
}

func TestLedgerStore_Append_PreservesInsertionOrder(t *testing.T) {
	s := NewLedgerStore()
	now := time.Now()

	s.Append(newTestRecord("loc-1", now))
	s.Append(newTestRecord("loc-2", now.Add(time.Second)))

	records := s.List()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].LocateID != "loc-1" || records[1].LocateID != "loc-2" {
		t.Fatalf("expected [loc-1, loc-2], got [%s, %s]", records[0].LocateID, records[1].LocateID)
	}
}

func TestLedgerStore_List_Empty(t *testing.T) {
	s := NewLedgerStore()

	records := s.List()
	if records == nil {
		t.Fatal("expected non-nil empty slice, got nil")
	}
	if len(records) != 0 {
		t.Fatalf("expected 0 records, got %d", len(records))
	}
}

func TestLedgerStore_Append_DetachesSources(t *testing.T) {
	s := NewLedgerStore()

	sources := []string{"State Street (TaxID: 99-123456)"}
	rec := domain.LocateRecord{LocateID: "loc-1", Ticker: "XYZ", Quantity: 100, Sources: sources}
	s.Append(rec)

	sources[0] = "mutated"

	records := s.List()
	if records[0].Sources[0] != "State Street (TaxID: 99-123456)" {
		t.Fatal("Append should copy sources; ledger record was mutated through the caller's slice")
	}
}

func TestLedgerStore_List_ReturnsCopy(t *testing.T) {
	s := NewLedgerStore()
	s.Append(newTestRecord("loc-1", time.Now()))

	records := s.List()
	records[0].LocateID = "tampered"

	original := s.List()
	if original[0].LocateID != "loc-1" {
		t.Fatal("List should return a copy; internal state was mutated")
	}
}

func TestLedgerStore_ConcurrentAppends(t *testing.T) {
	s := NewLedgerStore()
	var wg sync.WaitGroup
	now := time.Now()

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Append(newTestRecord(fmt.Sprintf("loc-%d", i), now))
		}(i)
		go func() {
			defer wg.Done()
			s.List()
		}()
	}
	wg.Wait()

	if s.Len() != 100 {
		t.Fatalf("expected 100 records, got %d", s.Len())
	}
}
