package service

import (
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/store"
)

// AuditService exposes the read-only view of the locate ledger.
type AuditService struct {
	ledger *store.LedgerStore
}

// NewAuditService creates an AuditService.
func NewAuditService(ledger *store.LedgerStore) *AuditService {
	return &AuditService{ledger: ledger}
}

// Ledger returns the full ledger in insertion (chronological) order.
func (s *AuditService) Ledger() []domain.LocateRecord {
	return s.ledger.List()
}
