package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/store"
)

// Valid webhook event types.
var validWebhookEvents = map[string]bool{
	"locate.issued":       true,
	"inventory.refreshed": true,
	"restriction.updated": true,
}

var consumerIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// UpsertWebhookRequest represents the input for webhook registration.
type UpsertWebhookRequest struct {
	ConsumerID string
	URL        string
	Events     []string
}

// WebhookService handles subscription CRUD and event dispatch to
// downstream compliance consumers.
type WebhookService struct {
	store  *store.WebhookStore
	client *http.Client
}

// NewWebhookService creates a WebhookService with the given delivery timeout.
func NewWebhookService(webhookStore *store.WebhookStore, timeout time.Duration) *WebhookService {
	return &WebhookService{
		store: webhookStore,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Upsert validates the request and creates or updates subscriptions, one
// per (consumer_id, event) pair. Returns the resulting webhooks and
// whether any new subscription was created.
func (s *WebhookService) Upsert(req UpsertWebhookRequest) ([]*domain.Webhook, bool, error) {
	if !consumerIDRegex.MatchString(req.ConsumerID) {
		return nil, false, &domain.ValidationError{
			Message: "consumer_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}

	if req.URL == "" {
		return nil, false, &domain.ValidationError{Message: "url is required"}
	}
	if len(req.URL) > 2048 {
		return nil, false, &domain.ValidationError{Message: "url must be at most 2048 characters"}
	}
	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || !parsed.IsAbs() {
		return nil, false, &domain.ValidationError{Message: "url must be a valid absolute URL"}
	}
	if parsed.Scheme != "https" {
		return nil, false, &domain.ValidationError{Message: "url must use https scheme"}
	}

	if len(req.Events) == 0 {
		return nil, false, &domain.ValidationError{Message: "events must be a non-empty array"}
	}

	// Deduplicate events while preserving order and validating.
	seen := make(map[string]bool, len(req.Events))
	dedupedEvents := make([]string, 0, len(req.Events))
	for _, event := range req.Events {
		if !validWebhookEvents[event] {
			return nil, false, &domain.ValidationError{
				Message: "Unknown event type: " + event + ". Must be one of: locate.issued, inventory.refreshed, restriction.updated",
			}
		}
		if !seen[event] {
			seen[event] = true
			dedupedEvents = append(dedupedEvents, event)
		}
	}

	now := time.Now().UTC().Truncate(time.Second)
	anyCreated := false
	webhooks := make([]*domain.Webhook, 0, len(dedupedEvents))

	for _, event := range dedupedEvents {
		w := &domain.Webhook{
			WebhookID:  uuid.New().String(),
			ConsumerID: req.ConsumerID,
			Event:      event,
			URL:        req.URL,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if s.store.Upsert(w) {
			anyCreated = true
			webhooks = append(webhooks, w)
		} else if existing := s.store.GetByConsumerEvent(req.ConsumerID, event); existing != nil {
			webhooks = append(webhooks, existing)
		}
	}

	return webhooks, anyCreated, nil
}

// List returns all of a consumer's subscriptions.
func (s *WebhookService) List(consumerID string) ([]*domain.Webhook, error) {
	if !consumerIDRegex.MatchString(consumerID) {
		return nil, &domain.ValidationError{
			Message: "consumer_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	return s.store.ListByConsumer(consumerID), nil
}

// Delete removes a subscription by ID.
func (s *WebhookService) Delete(webhookID string) error {
	return s.store.Delete(webhookID)
}

// eventPayload is the common envelope for all webhook deliveries.
type eventPayload struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

type locateIssuedData struct {
	LocateID string   `json:"locate_id"`
	Ticker   string   `json:"ticker"`
	Quantity int64    `json:"quantity"`
	Sources  []string `json:"sources"`
}

type inventoryRefreshedData struct {
	Lender   string `json:"lender"`
	LotCount int    `json:"lot_count"`
}

type restrictionUpdatedData struct {
	Ticker string `json:"ticker"`
	Action string `json:"action"`
}

// DispatchLocateIssued notifies every locate.issued subscriber of a
// successful locate. Fire-and-forget — delivery errors are ignored.
func (s *WebhookService) DispatchLocateIssued(ticker string, quantity int64, out *domain.Outcome) {
	s.dispatch("locate.issued", locateIssuedData{
		LocateID: out.LocateID,
		Ticker:   ticker,
		Quantity: quantity,
		Sources:  out.Sources,
	})
}

// DispatchInventoryRefreshed notifies subscribers of a lender feed
// replacement. Fire-and-forget.
func (s *WebhookService) DispatchInventoryRefreshed(lender string, lotCount int) {
	s.dispatch("inventory.refreshed", inventoryRefreshedData{
		Lender:   lender,
		LotCount: lotCount,
	})
}

// DispatchRestrictionUpdated notifies subscribers of a restricted-list
// change. action is "added" or "removed". Fire-and-forget.
func (s *WebhookService) DispatchRestrictionUpdated(ticker, action string) {
	s.dispatch("restriction.updated", restrictionUpdatedData{
		Ticker: ticker,
		Action: action,
	})
}

func (s *WebhookService) dispatch(event string, data any) {
	payload := eventPayload{
		Event:     event,
		Timestamp: time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Data:      data,
	}
	for _, wh := range s.store.ListByEvent(event) {
		go s.deliver(wh, event, payload)
	}
}

// deliver sends the payload via HTTP POST. Errors are silently ignored
// (fire-and-forget).
func (s *WebhookService) deliver(wh *domain.Webhook, eventType string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.New().String())
	req.Header.Set("X-Webhook-Id", wh.WebhookID)
	req.Header.Set("X-Event-Type", eventType)

	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
