package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/projection"
)

// ProjectionHandler serves the read models the outbox consumer maintains.
// The consumer process mounts it next to where the projections are built;
// the API keeps answering balance reads from the ledger tables.
type ProjectionHandler struct {
	store projection.Store
}

func NewProjectionHandler(store projection.Store) *ProjectionHandler {
	return &ProjectionHandler{store: store}
}

// Routes returns the consumer-side query router.
func (h *ProjectionHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/projections/balance/{id}", h.Balance)
	return r
}

// Balance handles GET /projections/balance/{id}. A cache miss is a 404; the
// projection is a TTL cache, never the balance source of truth.
func (h *ProjectionHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid user id"))
		return
	}

	p, err := projection.GetBalance(r.Context(), h.store, userID.String())
	if err != nil {
		RespondError(w, domain.ErrNotFound("balance projection", userID.String()))
		return
	}
	RespondJSON(w, http.StatusOK, p)
}
