package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/service"
)

// InventoryHandler handles HTTP requests for inventory endpoints.
type InventoryHandler struct {
	inventorySvc *service.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventorySvc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventorySvc: inventorySvc}
}

// lotResponse is a single lot in inventory responses.
type lotResponse struct {
	LotID    int64  `json:"lot_id"`
	Ticker   string `json:"ticker"`
	Lender   string `json:"lender"`
	Quantity int64  `json:"quantity"`
	TaxID    string `json:"tax_id"`
	Region   string `json:"region"`
}

// inventoryResponse is the JSON response for inventory reads and refreshes.
type inventoryResponse struct {
	Inventory []lotResponse `json:"inventory"`
}

// refreshLenderRequest is the JSON request body for
// PUT /inventory/lenders/{lender}.
type refreshLenderRequest struct {
	Lots []refreshLotRequest `json:"lots"`
}

// refreshLotRequest is one position in a lender refresh.
type refreshLotRequest struct {
	Ticker   string `json:"ticker"`
	Quantity int64  `json:"quantity"`
	TaxID    string `json:"tax_id"`
	Region   string `json:"region"`
}

// List handles GET /inventory. An optional ticker query parameter
// narrows the view to one ticker.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")

	var (
		lots []domain.InventoryLot
		err  error
	)
	if ticker == "" {
		lots = h.inventorySvc.List()
	} else {
		lots, err = h.inventorySvc.ListByTicker(ticker)
		if err != nil {
			mapInventoryError(w, err)
			return
		}
	}

	WriteJSON(w, http.StatusOK, inventoryResponse{
		Inventory: buildLotResponses(lots),
	})
}

// RefreshLender handles PUT /inventory/lenders/{lender}.
func (h *InventoryHandler) RefreshLender(w http.ResponseWriter, r *http.Request) {
	lender := chi.URLParam(r, "lender")

	var req refreshLenderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	inputs := make([]service.LotInput, len(req.Lots))
	for i, lot := range req.Lots {
		inputs[i] = service.LotInput{
			Ticker:   lot.Ticker,
			Quantity: lot.Quantity,
			TaxID:    lot.TaxID,
			Region:   lot.Region,
		}
	}

	lots, err := h.inventorySvc.RefreshLender(lender, inputs)
	if err != nil {
		mapInventoryError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, inventoryResponse{
		Inventory: buildLotResponses(lots),
	})
}

// buildLotResponses converts domain lots to response lots.
func buildLotResponses(lots []domain.InventoryLot) []lotResponse {
	result := make([]lotResponse, len(lots))
	for i, lot := range lots {
		result[i] = lotResponse{
			LotID:    lot.LotID,
			Ticker:   lot.Ticker,
			Lender:   lot.Lender,
			Quantity: lot.Quantity,
			TaxID:    lot.TaxID,
			Region:   string(lot.Region),
		}
	}
	return result
}

// mapInventoryError maps domain errors to HTTP responses for inventory
// endpoints.
func mapInventoryError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
