package admin

import (
	"net/http"

	"github.com/zarena/platform/internal/conversion"
	"github.com/zarena/platform/internal/handler"
)

// RateAdminHandler handles conversion rate management.
type RateAdminHandler struct {
	rates *conversion.Service
}

// NewRateAdminHandler creates a new RateAdminHandler.
func NewRateAdminHandler(rates *conversion.Service) *RateAdminHandler {
	return &RateAdminHandler{rates: rates}
}

// SetRate handles PUT /admin/rates. Rates are appended, never overwritten,
// so the history of who set what survives.
func (h *RateAdminHandler) SetRate(w http.ResponseWriter, r *http.Request) {
	adminID, err := reviewerFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input struct {
		RatePKR float64 `json:"rate_pkr"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	rate, err := h.rates.SetRate(r.Context(), adminID, input.RatePKR)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, rate)
}
