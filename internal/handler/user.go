package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/auth"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/service"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	userSvc *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	user, err := h.userSvc.Get(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PATCH /users/me.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input service.UpdateProfileInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	user, err := h.userSvc.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, user)
}

// subjectFromContext extracts the authenticated user's UUID from the request
// context.
func subjectFromContext(r *http.Request) (uuid.UUID, error) {
	id := auth.UserIDFromContext(r.Context())
	if id == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized("no subject in context")
	}
	return id, nil
}
