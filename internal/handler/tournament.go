package handler

import (
	"net/http"

	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/service"
)

// TournamentHandler handles the public tournament endpoints.
type TournamentHandler struct {
	tournamentSvc *service.TournamentService
}

// NewTournamentHandler creates a new TournamentHandler.
func NewTournamentHandler(tournamentSvc *service.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentSvc: tournamentSvc}
}

// List handles GET /tournaments with an optional status filter.
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.TournamentStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.TournamentStatus(s)
		status = &st
	}

	ts, err := h.tournamentSvc.List(r.Context(), status, queryLimit(r))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, ts)
}

// Get handles GET /tournaments/{id}.
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	t, err := h.tournamentSvc.Get(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, t)
}

// Registrations handles GET /tournaments/{id}/registrations.
func (h *TournamentHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	regs, err := h.tournamentSvc.Registrations(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, regs)
}

// Register handles POST /tournaments/{id}/register.
func (h *TournamentHandler) Register(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		TeamName string `json:"team_name"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	reg, err := h.tournamentSvc.Register(r.Context(), userID, service.RegisterTeamInput{
		TournamentID: id,
		TeamName:     input.TeamName,
	})
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, reg)
}
