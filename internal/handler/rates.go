package handler

import (
	"net/http"

	"github.com/zarena/platform/internal/conversion"
)

// RatesHandler exposes the current PKR⇄ZC conversion rate.
type RatesHandler struct {
	rates *conversion.Service
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(rates *conversion.Service) *RatesHandler {
	return &RatesHandler{rates: rates}
}

// GetCurrent handles GET /rates/current.
func (h *RatesHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.rates.CurrentRate(r.Context()))
}
