package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/service"
)

// ContentHandler handles the public content endpoints (news and guides).
type ContentHandler struct {
	contentSvc *service.ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentSvc *service.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

// List handles GET /content with an optional kind filter. Only published
// posts are visible here.
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	var kind *domain.PostKind
	if s := r.URL.Query().Get("kind"); s != "" {
		k := domain.PostKind(s)
		kind = &k
	}

	posts, err := h.contentSvc.List(r.Context(), kind, true, queryLimit(r))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, posts)
}

// GetBySlug handles GET /content/{slug}.
func (h *ContentHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		RespondError(w, domain.ErrValidation("invalid slug"))
		return
	}

	post, err := h.contentSvc.GetBySlug(r.Context(), slug)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, post)
}
