package handler

import (
	"net/http"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/service"
)

// AuditHandler handles HTTP requests for the audit ledger endpoint.
type AuditHandler struct {
	auditSvc *service.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditSvc *service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// ledgerRecordResponse is a single record in the ledger response.
type ledgerRecordResponse struct {
	Timestamp string   `json:"timestamp"`
	LocateID  string   `json:"locate_id"`
	Ticker    string   `json:"ticker"`
	Quantity  int64    `json:"quantity"`
	Sources   []string `json:"sources"`
}

// ledgerResponse is the JSON response for GET /ledger.
type ledgerResponse struct {
	Records []ledgerRecordResponse `json:"records"`
}

// Ledger handles GET /ledger. Records come back in append order.
func (h *AuditHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, ledgerResponse{
		Records: buildLedgerResponses(h.auditSvc.Ledger()),
	})
}

// buildLedgerResponses converts domain records to response records.
func buildLedgerResponses(records []domain.LocateRecord) []ledgerRecordResponse {
	result := make([]ledgerRecordResponse, len(records))
	for i, rec := range records {
		result[i] = ledgerRecordResponse{
			Timestamp: rec.Time.UTC().Format("2006-01-02T15:04:05Z"),
			LocateID:  rec.LocateID,
			Ticker:    rec.Ticker,
			Quantity:  rec.Quantity,
			Sources:   rec.Sources,
		}
	}
	return result
}
