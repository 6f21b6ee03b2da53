package store

import (
	"sync"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
)

// WebhookStore is a thread-safe in-memory store for webhook subscriptions.
// Primary index: webhook_id → webhook.
// Secondary index: consumer_id → event → webhook.
type WebhookStore struct {
	mu         sync.RWMutex
	webhooks   map[string]*domain.Webhook            // webhook_id → webhook
	byConsumer map[string]map[string]*domain.Webhook // consumer_id → event → webhook
}

// NewWebhookStore creates an empty WebhookStore.
func NewWebhookStore() *WebhookStore {
	return &WebhookStore{
		webhooks:   make(map[string]*domain.Webhook),
		byConsumer: make(map[string]map[string]*domain.Webhook),
	}
}

// Upsert inserts or updates a subscription keyed by (consumer_id, event).
// If one already exists for that pair, only the URL and UpdatedAt change
// (the webhook_id stays stable). Returns true if a new subscription was
// created.
func (s *WebhookStore) Upsert(w *domain.Webhook) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if events, ok := s.byConsumer[w.ConsumerID]; ok {
		if existing, ok := events[w.Event]; ok {
			if existing.URL != w.URL {
				existing.URL = w.URL
				existing.UpdatedAt = w.UpdatedAt
			}
			return false
		}
	}

	s.webhooks[w.WebhookID] = w
	if s.byConsumer[w.ConsumerID] == nil {
		s.byConsumer[w.ConsumerID] = make(map[string]*domain.Webhook)
	}
	s.byConsumer[w.ConsumerID][w.Event] = w

	return true
}

// GetByConsumerEvent returns the subscription for a (consumer_id, event)
// pair, or nil if none exists.
func (s *WebhookStore) GetByConsumerEvent(consumerID, event string) *domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, ok := s.byConsumer[consumerID]
	if !ok {
		return nil
	}
	return events[event]
}

// ListByConsumer returns all of a consumer's subscriptions.
func (s *WebhookStore) ListByConsumer(consumerID string) []*domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.byConsumer[consumerID]
	result := make([]*domain.Webhook, 0, len(events))
	for _, w := range events {
		result = append(result, w)
	}
	return result
}

// ListByEvent returns every subscription for an event across consumers.
func (s *WebhookStore) ListByEvent(event string) []*domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Webhook
	for _, events := range s.byConsumer {
		if w, ok := events[event]; ok {
			result = append(result, w)
		}
	}
	return result
}

// Delete removes a subscription by ID. It returns
// domain.ErrWebhookNotFound if the subscription does not exist.
func (s *WebhookStore) Delete(webhookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.webhooks[webhookID]
	if !ok {
		return domain.ErrWebhookNotFound
	}

	delete(s.webhooks, webhookID)
	if events, ok := s.byConsumer[w.ConsumerID]; ok {
		delete(events, w.Event)
		if len(events) == 0 {
			delete(s.byConsumer, w.ConsumerID)
		}
	}
	return nil
}
