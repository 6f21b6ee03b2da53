package service

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/engine"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/store"
)

func newTestWebhookService() (*WebhookService, *store.WebhookStore) {
	ws := store.NewWebhookStore()
	svc := NewWebhookService(ws, 5*time.Second)
	return svc, ws
}

// --- Upsert tests ---

func TestWebhookUpsert_NewSubscriptions(t *testing.T) {
	svc, _ := newTestWebhookService()

	webhooks, created, err := svc.Upsert(UpsertWebhookRequest{
		ConsumerID: "compliance-feed",
		URL:        "https://example.com/hooks",
		Events:     []string{"locate.issued", "restriction.updated"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true for new subscriptions")
	}
	if len(webhooks) != 2 {
		t.Fatalf("got %d webhooks, want 2", len(webhooks))
	}
	if webhooks[0].Event != "locate.issued" {
		t.Errorf("got event %q, want locate.issued", webhooks[0].Event)
	}
}

func TestWebhookUpsert_UpdateExistingURL(t *testing.T) {
	svc, _ := newTestWebhookService()

	first, _, err := svc.Upsert(UpsertWebhookRequest{
		ConsumerID: "compliance-feed",
		URL:        "https://a.example/hooks",
		Events:     []string{"locate.issued"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, created, err := svc.Upsert(UpsertWebhookRequest{
		ConsumerID: "compliance-feed",
		URL:        "https://b.example/hooks",
		Events:     []string{"locate.issued"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false for existing pair")
	}
	if second[0].WebhookID != first[0].WebhookID {
		t.Error("expected stable webhook id across URL update")
	}
	if second[0].URL != "https://b.example/hooks" {
		t.Errorf("got URL %q, want updated URL", second[0].URL)
	}
}

func TestWebhookUpsert_DeduplicatesEvents(t *testing.T) {
	svc, _ := newTestWebhookService()

	webhooks, _, err := svc.Upsert(UpsertWebhookRequest{
		ConsumerID: "compliance-feed",
		URL:        "https://example.com/hooks",
		Events:     []string{"locate.issued", "locate.issued"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(webhooks) != 1 {
		t.Fatalf("got %d webhooks, want 1 after dedupe", len(webhooks))
	}
}

func TestWebhookUpsert_Validation(t *testing.T) {
	svc, _ := newTestWebhookService()

	tests := []struct {
		name string
		req  UpsertWebhookRequest
	}{
		{"bad consumer id", UpsertWebhookRequest{ConsumerID: "bad id!", URL: "https://x.example/h", Events: []string{"locate.issued"}}},
		{"empty url", UpsertWebhookRequest{ConsumerID: "c1", URL: "", Events: []string{"locate.issued"}}},
		{"http scheme", UpsertWebhookRequest{ConsumerID: "c1", URL: "http://x.example/h", Events: []string{"locate.issued"}}},
		{"relative url", UpsertWebhookRequest{ConsumerID: "c1", URL: "/hooks", Events: []string{"locate.issued"}}},
		{"no events", UpsertWebhookRequest{ConsumerID: "c1", URL: "https://x.example/h", Events: nil}},
		{"unknown event", UpsertWebhookRequest{ConsumerID: "c1", URL: "https://x.example/h", Events: []string{"order.filled"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Upsert(tt.req)
			expectValidationError(t, err)
		})
	}
}

// --- List / Delete tests ---

func TestWebhookList(t *testing.T) {
	svc, _ := newTestWebhookService()

	if _, _, err := svc.Upsert(UpsertWebhookRequest{
		ConsumerID: "compliance-feed",
		URL:        "https://example.com/hooks",
		Events:     []string{"locate.issued", "inventory.refreshed"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	webhooks, err := svc.List("compliance-feed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(webhooks) != 2 {
		t.Fatalf("got %d webhooks, want 2", len(webhooks))
	}
}

func TestWebhookDelete_NotFound(t *testing.T) {
	svc, _ := newTestWebhookService()

	err := svc.Delete("missing")
	if !errors.Is(err, domain.ErrWebhookNotFound) {
		t.Fatalf("expected ErrWebhookNotFound, got %v", err)
	}
}

// --- Dispatch tests ---

// hookCapture records webhook deliveries behind a TLS test server.
type hookCapture struct {
	mu       sync.Mutex
	payloads []map[string]any
	headers  []http.Header
}

func newHookCapture() (*hookCapture, *httptest.Server) {
	c := &hookCapture{}
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		json.Unmarshal(body, &payload)
		c.mu.Lock()
		c.payloads = append(c.payloads, payload)
		c.headers = append(c.headers, r.Header.Clone())
		c.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	return c, server
}

func TestDispatchLocateIssued_SendsCorrectPayload(t *testing.T) {
	capture, server := newHookCapture()
	defer server.Close()

	ws := store.NewWebhookStore()
	svc := &WebhookService{store: ws, client: server.Client()}

	ws.Upsert(&domain.Webhook{
		WebhookID:  "wh-1",
		ConsumerID: "compliance-feed",
		Event:      "locate.issued",
		URL:        server.URL + "/hooks",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	})

	svc.DispatchLocateIssued("XYZ", 5000, &domain.Outcome{
		Passed:   true,
		LocateID: "LOCATE-1",
		Sources:  []string{"State Street (TaxID: 99-123456)"},
	})

	// Wait for the delivery goroutine.
	time.Sleep(100 * time.Millisecond)

	capture.mu.Lock()
	defer capture.mu.Unlock()

	if len(capture.payloads) != 1 {
		t.Fatalf("got %d deliveries, want 1", len(capture.payloads))
	}

	payload := capture.payloads[0]
	if payload["event"] != "locate.issued" {
		t.Errorf("got event %v, want locate.issued", payload["event"])
	}
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data to be a map")
	}
	if data["locate_id"] != "LOCATE-1" {
		t.Errorf("got locate_id %v, want LOCATE-1", data["locate_id"])
	}
	if data["ticker"] != "XYZ" {
		t.Errorf("got ticker %v, want XYZ", data["ticker"])
	}
	if data["quantity"] != float64(5000) {
		t.Errorf("got quantity %v, want 5000", data["quantity"])
	}

	h := capture.headers[0]
	if h.Get("X-Webhook-Id") != "wh-1" {
		t.Errorf("got X-Webhook-Id %q, want wh-1", h.Get("X-Webhook-Id"))
	}
	if h.Get("X-Event-Type") != "locate.issued" {
		t.Errorf("got X-Event-Type %q, want locate.issued", h.Get("X-Event-Type"))
	}
	if h.Get("X-Delivery-Id") == "" {
		t.Error("expected X-Delivery-Id header to be set")
	}
}

func TestDispatch_FansOutToAllSubscribers(t *testing.T) {
	capture, server := newHookCapture()
	defer server.Close()

	ws := store.NewWebhookStore()
	svc := &WebhookService{store: ws, client: server.Client()}

	for _, consumer := range []string{"compliance-feed", "surveillance"} {
		ws.Upsert(&domain.Webhook{
			WebhookID:  "wh-" + consumer,
			ConsumerID: consumer,
			Event:      "restriction.updated",
			URL:        server.URL + "/hooks",
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		})
	}

	svc.DispatchRestrictionUpdated("VOLATILE", "added")
	time.Sleep(100 * time.Millisecond)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	if len(capture.payloads) != 2 {
		t.Fatalf("got %d deliveries, want 2", len(capture.payloads))
	}
}

func TestDispatch_NoSubscription_NoRequest(t *testing.T) {
	capture, server := newHookCapture()
	defer server.Close()

	ws := store.NewWebhookStore()
	svc := &WebhookService{store: ws, client: server.Client()}

	svc.DispatchInventoryRefreshed("State Street", 2)
	time.Sleep(100 * time.Millisecond)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	if len(capture.payloads) != 0 {
		t.Fatalf("got %d deliveries, want 0", len(capture.payloads))
	}
}

// Locate service + webhook integration: a PASS dispatches, a REJECT
// does not.
func TestSubmit_DispatchesOnlyOnPass(t *testing.T) {
	capture, server := newHookCapture()
	defer server.Close()

	ws := store.NewWebhookStore()
	webhookSvc := &WebhookService{store: ws, client: server.Client()}
	ws.Upsert(&domain.Webhook{
		WebhookID:  "wh-1",
		ConsumerID: "compliance-feed",
		Event:      "locate.issued",
		URL:        server.URL + "/hooks",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	})

	inventory := store.NewInventoryStore()
	restrictions := store.NewRestrictionStore()
	ledger := store.NewLedgerStore()
	store.SeedDefaults(inventory, restrictions)
	g := engine.NewGatekeeper(inventory, restrictions, ledger)
	svc := NewLocateService(g, webhookSvc, nil)

	if out, err := svc.Submit(SubmitOrderRequest{Ticker: "VOLATILE", Quantity: 1, Region: "US"}); err != nil || out.Passed {
		t.Fatalf("expected reject, got out=%+v err=%v", out, err)
	}
	if out, err := svc.Submit(SubmitOrderRequest{Ticker: "XYZ", Quantity: 1, Region: "US"}); err != nil || !out.Passed {
		t.Fatalf("expected pass, got out=%+v err=%v", out, err)
	}

	time.Sleep(100 * time.Millisecond)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	if len(capture.payloads) != 1 {
		t.Fatalf("got %d deliveries, want 1 (pass only)", len(capture.payloads))
	}
}
