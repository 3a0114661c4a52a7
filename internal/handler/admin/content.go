package admin

import (
	"net/http"

	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/handler"
	"github.com/zarena/platform/internal/service"
)

// ContentAdminHandler handles content authoring (news and guides).
type ContentAdminHandler struct {
	contentSvc *service.ContentService
}

// NewContentAdminHandler creates a new ContentAdminHandler.
func NewContentAdminHandler(contentSvc *service.ContentService) *ContentAdminHandler {
	return &ContentAdminHandler{contentSvc: contentSvc}
}

// List handles GET /admin/content: includes drafts.
func (h *ContentAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	var kind *domain.PostKind
	if s := r.URL.Query().Get("kind"); s != "" {
		k := domain.PostKind(s)
		kind = &k
	}

	posts, err := h.contentSvc.List(r.Context(), kind, false, queryLimit(r))
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, posts)
}

// Create handles POST /admin/content.
func (h *ContentAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	authorID, err := reviewerFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input service.CreatePostInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	p, err := h.contentSvc.CreatePost(r.Context(), authorID, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, p)
}

// Update handles PATCH /admin/content/{id}.
func (h *ContentAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input service.UpdatePostInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	p, err := h.contentSvc.UpdatePost(r.Context(), id, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /admin/content/{id}.
func (h *ContentAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	if err := h.contentSvc.DeletePost(r.Context(), id); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}
