package service

import (
	"fmt"
	"strings"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/engine"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/store"
)

// LotInput is one lendable position in a lender refresh, before
// validation.
type LotInput struct {
	Ticker   string
	Quantity int64
	TaxID    string
	Region   string
}

// InventoryService exposes the read-only inventory views and the
// refresh-collaborator path. All quantity mutations go through the
// gatekeeper so refreshes never interleave with an allocation.
type InventoryService struct {
	gatekeeper *engine.Gatekeeper
	inventory  *store.InventoryStore
	webhookSvc *WebhookService
}

// NewInventoryService creates an InventoryService. webhookSvc may be nil.
func NewInventoryService(gatekeeper *engine.Gatekeeper, inventory *store.InventoryStore, webhookSvc *WebhookService) *InventoryService {
	return &InventoryService{
		gatekeeper: gatekeeper,
		inventory:  inventory,
		webhookSvc: webhookSvc,
	}
}

// List returns all lots ordered by ticker then registration order.
func (s *InventoryService) List() []domain.InventoryLot {
	return s.inventory.List()
}

// ListByTicker returns the lots for one ticker in registration order.
func (s *InventoryService) ListByTicker(ticker string) ([]domain.InventoryLot, error) {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))
	if !tickerRegex.MatchString(normalized) {
		return nil, &domain.ValidationError{
			Message: "ticker must match ^[A-Z0-9_.]{1,12}$ after upper-casing",
		}
	}
	return s.inventory.ListByTicker(normalized), nil
}

// RefreshLender validates a feed snapshot and atomically replaces the
// lender's lots with it. An empty snapshot removes the lender's
// inventory entirely.
func (s *InventoryService) RefreshLender(lender string, lots []LotInput) ([]domain.InventoryLot, error) {
	lender = strings.TrimSpace(lender)
	if lender == "" || len(lender) > 64 {
		return nil, &domain.ValidationError{
			Message: "lender must be a non-empty string of at most 64 characters",
		}
	}

	replacement := make([]domain.InventoryLot, 0, len(lots))
	for i, in := range lots {
		ticker := strings.ToUpper(strings.TrimSpace(in.Ticker))
		if !tickerRegex.MatchString(ticker) {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("lots[%d].ticker must match ^[A-Z0-9_.]{1,12}$ after upper-casing", i),
			}
		}
		if in.Quantity < 0 {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("lots[%d].quantity must be >= 0", i),
			}
		}
		if strings.TrimSpace(in.TaxID) == "" {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("lots[%d].tax_id is required", i),
			}
		}
		region, ok := domain.ParseRegion(in.Region)
		if !ok {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("lots[%d].region must be one of: US, JP", i),
			}
		}

		replacement = append(replacement, domain.InventoryLot{
			Ticker:   ticker,
			Lender:   lender,
			Quantity: in.Quantity,
			TaxID:    strings.TrimSpace(in.TaxID),
			Region:   region,
		})
	}

	stored := s.gatekeeper.RefreshLender(lender, replacement)

	if s.webhookSvc != nil {
		s.webhookSvc.DispatchInventoryRefreshed(lender, len(stored))
	}

	return stored, nil
}
