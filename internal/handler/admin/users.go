package admin

import (
	"net/http"

	"github.com/zarena/platform/internal/handler"
	"github.com/zarena/platform/internal/service"
)

// UserAdminHandler handles user search and role management.
type UserAdminHandler struct {
	userSvc *service.UserService
}

// NewUserAdminHandler creates a new UserAdminHandler.
func NewUserAdminHandler(userSvc *service.UserService) *UserAdminHandler {
	return &UserAdminHandler{userSvc: userSvc}
}

// Search handles GET /admin/users?q=...
func (h *UserAdminHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r)
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	users, err := h.userSvc.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, users)
}

// Get handles GET /admin/users/{id}.
func (h *UserAdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	user, err := h.userSvc.Get(r.Context(), userID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, user)
}

// ChangeRole handles PUT /admin/users/{id}/role.
func (h *UserAdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	adminID, err := reviewerFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	userID, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	user, err := h.userSvc.ChangeRole(r.Context(), adminID, userID, input.Role)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, user)
}
