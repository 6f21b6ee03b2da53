package domain

import "time"

// Webhook represents a downstream consumer's subscription to an event
// notification (compliance feeds, surveillance systems).
type Webhook struct {
	WebhookID  string
	ConsumerID string
	Event      string
	URL        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
