package admin

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/handler"
	"github.com/zarena/platform/internal/service"
	"github.com/zarena/platform/internal/settlement"
)

// TournamentAdminHandler handles tournament creation, lifecycle edits, and
// prize settlement.
type TournamentAdminHandler struct {
	tournamentSvc *service.TournamentService
	settle        *settlement.TournamentSettlement
}

// NewTournamentAdminHandler creates a new TournamentAdminHandler.
func NewTournamentAdminHandler(tournamentSvc *service.TournamentService, settle *settlement.TournamentSettlement) *TournamentAdminHandler {
	return &TournamentAdminHandler{tournamentSvc: tournamentSvc, settle: settle}
}

// Create handles POST /admin/tournaments.
func (h *TournamentAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	staffID, err := reviewerFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input service.CreateTournamentInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	t, err := h.tournamentSvc.Create(r.Context(), staffID, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, t)
}

// Update handles PATCH /admin/tournaments/{id}.
func (h *TournamentAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input service.UpdateTournamentInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	t, err := h.tournamentSvc.Update(r.Context(), id, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, t)
}

// Settle handles POST /admin/tournaments/{id}/settle. Winners are captain
// IDs in placement order.
func (h *TournamentAdminHandler) Settle(w http.ResponseWriter, r *http.Request) {
	staffID, err := reviewerFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var body struct {
		Winners []uuid.UUID `json:"winners"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	t, err := h.settle.Settle(r.Context(), settlement.SettleInput{
		TournamentID: id,
		SettledBy:    staffID,
		Winners:      body.Winners,
	})
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, t)
}
