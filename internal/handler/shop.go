package handler

import (
	"net/http"

	"github.com/zarena/platform/internal/service"
)

// ShopHandler handles the player-facing shop endpoints.
type ShopHandler struct {
	shopSvc *service.ShopService
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(shopSvc *service.ShopService) *ShopHandler {
	return &ShopHandler{shopSvc: shopSvc}
}

// ListProducts handles GET /shop/products. Players see active products only.
func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.shopSvc.ListProducts(r.Context(), true, queryLimit(r))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, ps)
}

// GetProduct handles GET /shop/products/{id}.
func (h *ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	p, err := h.shopSvc.GetProduct(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, p)
}

// Redeem handles POST /shop/products/{id}/redeem.
func (h *ShopHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	order, err := h.shopSvc.Redeem(r.Context(), userID, id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /shop/orders.
func (h *ShopHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	orders, err := h.shopSvc.ListOrders(r.Context(), userID, queryLimit(r))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, orders)
}
