package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrLotNotFound         = errors.New("lot_not_found")
	ErrWebhookNotFound     = errors.New("webhook_not_found")
	ErrTickerNotRestricted = errors.New("ticker_not_restricted")

	// ErrInventoryUnderflow indicates an attempted decrement past zero.
	// The engine's liquidity check makes it unreachable, so hitting it
	// means an atomicity guarantee broke somewhere. The store surfaces it
	// as a fault rather than clamping.
	ErrInventoryUnderflow = errors.New("inventory_underflow")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
