package admin

import (
	"net/http"

	"github.com/zarena/platform/internal/handler"
	"github.com/zarena/platform/internal/service"
)

// ShopAdminHandler handles catalog management.
type ShopAdminHandler struct {
	shopSvc *service.ShopService
}

// NewShopAdminHandler creates a new ShopAdminHandler.
func NewShopAdminHandler(shopSvc *service.ShopService) *ShopAdminHandler {
	return &ShopAdminHandler{shopSvc: shopSvc}
}

// ListProducts handles GET /admin/shop/products: the full catalog including
// inactive products.
func (h *ShopAdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.shopSvc.ListProducts(r.Context(), false, queryLimit(r))
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, ps)
}

// CreateProduct handles POST /admin/shop/products.
func (h *ShopAdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input service.CreateProductInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	p, err := h.shopSvc.CreateProduct(r.Context(), input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PATCH /admin/shop/products/{id}.
func (h *ShopAdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input service.UpdateProductInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	p, err := h.shopSvc.UpdateProduct(r.Context(), id, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, p)
}
