package service

import (
	"strings"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/store"
)

// RestrictionService exposes the restricted list and its
// refresh-collaborator maintenance path.
type RestrictionService struct {
	restrictions *store.RestrictionStore
	webhookSvc   *WebhookService
}

// NewRestrictionService creates a RestrictionService. webhookSvc may be nil.
func NewRestrictionService(restrictions *store.RestrictionStore, webhookSvc *WebhookService) *RestrictionService {
	return &RestrictionService{
		restrictions: restrictions,
		webhookSvc:   webhookSvc,
	}
}

// List returns the restricted tickers in sorted order.
func (s *RestrictionService) List() []string {
	return s.restrictions.List()
}

// Add places a ticker on the restricted list. Returns the normalized
// ticker and whether it is newly restricted.
func (s *RestrictionService) Add(ticker string) (string, bool, error) {
	normalized, err := normalizeTicker(ticker)
	if err != nil {
		return "", false, err
	}

	added := s.restrictions.Add(normalized)
	if added && s.webhookSvc != nil {
		s.webhookSvc.DispatchRestrictionUpdated(normalized, "added")
	}
	return normalized, added, nil
}

// Remove takes a ticker off the restricted list. Returns
// domain.ErrTickerNotRestricted if it was not on the list.
func (s *RestrictionService) Remove(ticker string) error {
	normalized, err := normalizeTicker(ticker)
	if err != nil {
		return err
	}

	if !s.restrictions.Remove(normalized) {
		return domain.ErrTickerNotRestricted
	}
	if s.webhookSvc != nil {
		s.webhookSvc.DispatchRestrictionUpdated(normalized, "removed")
	}
	return nil
}

// normalizeTicker upper-cases and validates a ticker.
func normalizeTicker(ticker string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))
	if !tickerRegex.MatchString(normalized) {
		return "", &domain.ValidationError{
			Message: "ticker must match ^[A-Z0-9_.]{1,12}$ after upper-casing",
		}
	}
	return normalized, nil
}
