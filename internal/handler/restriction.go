package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/service"
)

// RestrictionHandler handles HTTP requests for restriction endpoints.
type RestrictionHandler struct {
	restrictionSvc *service.RestrictionService
}

// NewRestrictionHandler creates a new RestrictionHandler.
func NewRestrictionHandler(restrictionSvc *service.RestrictionService) *RestrictionHandler {
	return &RestrictionHandler{restrictionSvc: restrictionSvc}
}

// addRestrictionRequest is the JSON request body for POST /restrictions.
type addRestrictionRequest struct {
	Ticker string `json:"ticker"`
}

// restrictionListResponse is the JSON response for GET /restrictions.
type restrictionListResponse struct {
	Restricted []string `json:"restricted"`
}

// restrictionResponse is the JSON response for POST /restrictions.
type restrictionResponse struct {
	Ticker     string `json:"ticker"`
	Restricted bool   `json:"restricted"`
}

// List handles GET /restrictions.
func (h *RestrictionHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, restrictionListResponse{
		Restricted: h.restrictionSvc.List(),
	})
}

// Add handles POST /restrictions. Adding an already-restricted ticker is
// idempotent and returns 200 instead of 201.
func (h *RestrictionHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addRestrictionRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	ticker, added, err := h.restrictionSvc.Add(req.Ticker)
	if err != nil {
		mapRestrictionError(w, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}

	WriteJSON(w, status, restrictionResponse{
		Ticker:     ticker,
		Restricted: true,
	})
}

// Remove handles DELETE /restrictions/{ticker}.
func (h *RestrictionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	if err := h.restrictionSvc.Remove(ticker); err != nil {
		mapRestrictionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// mapRestrictionError maps domain errors to HTTP responses for restriction
// endpoints.
func mapRestrictionError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrTickerNotRestricted):
		WriteError(w, http.StatusNotFound, "ticker_not_restricted", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
