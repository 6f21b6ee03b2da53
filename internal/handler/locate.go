package handler

import (
	"errors"
	"net/http"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/service"
)

// LocateHandler handles HTTP requests for the locate endpoint.
type LocateHandler struct {
	locateSvc *service.LocateService
}

// NewLocateHandler creates a new LocateHandler.
func NewLocateHandler(locateSvc *service.LocateService) *LocateHandler {
	return &LocateHandler{locateSvc: locateSvc}
}

// submitLocateRequest is the JSON request body for POST /locates.
type submitLocateRequest struct {
	Ticker    string `json:"ticker"`
	Quantity  int64  `json:"quantity"`
	Region    string `json:"region"`
	PreBorrow bool   `json:"pre_borrow"`
}

// passResponse is the JSON response for a PASS outcome.
type passResponse struct {
	Outcome  string   `json:"outcome"`
	LocateID string   `json:"locate_id"`
	Sources  []string `json:"sources"`
}

// rejectResponse is the JSON response for a REJECT outcome. Rejections
// are business decisions, not errors, so they travel on 200.
type rejectResponse struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason"`
	Code    string `json:"code"`
}

// Submit handles POST /locates.
func (h *LocateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitLocateRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	out, err := h.locateSvc.Submit(service.SubmitOrderRequest{
		Ticker:    req.Ticker,
		Quantity:  req.Quantity,
		Region:    req.Region,
		PreBorrow: req.PreBorrow,
	})
	if err != nil {
		mapLocateError(w, err)
		return
	}

	if out.Passed {
		WriteJSON(w, http.StatusOK, passResponse{
			Outcome:  "PASS",
			LocateID: out.LocateID,
			Sources:  out.Sources,
		})
		return
	}

	WriteJSON(w, http.StatusOK, rejectResponse{
		Outcome: "REJECT",
		Reason:  out.Rejection.Reason,
		Code:    string(out.Rejection.Code),
	})
}

// mapLocateError maps domain errors to HTTP responses for the locate endpoint.
func mapLocateError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
