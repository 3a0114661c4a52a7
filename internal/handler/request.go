package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/workflow"
)

// RequestHandler handles the player side of deposit and withdrawal requests.
type RequestHandler struct {
	flow *workflow.Service
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(flow *workflow.Service) *RequestHandler {
	return &RequestHandler{flow: flow}
}

// SubmitDeposit handles POST /requests/deposits.
func (h *RequestHandler) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input workflow.SubmitDepositInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}
	input.IdempotencyKey = r.Header.Get("Idempotency-Key")

	req, err := h.flow.SubmitDeposit(r.Context(), userID, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, req)
}

// ListDeposits handles GET /requests/deposits.
func (h *RequestHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	reqs, err := h.flow.ListUserDeposits(r.Context(), userID, queryLimit(r))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, reqs)
}

// GetDeposit handles GET /requests/deposits/{id}. Players can only see their
// own requests.
func (h *RequestHandler) GetDeposit(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	requestID, err := pathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	req, err := h.flow.GetDeposit(r.Context(), requestID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if req.UserID != userID {
		RespondError(w, domain.ErrNotFound("deposit request", requestID.String()))
		return
	}

	RespondJSON(w, http.StatusOK, req)
}

// SubmitWithdrawal handles POST /requests/withdrawals.
func (h *RequestHandler) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input workflow.SubmitWithdrawalInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}
	input.IdempotencyKey = r.Header.Get("Idempotency-Key")

	req, err := h.flow.SubmitWithdrawal(r.Context(), userID, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, req)
}

// ListWithdrawals handles GET /requests/withdrawals.
func (h *RequestHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	reqs, err := h.flow.ListUserWithdrawals(r.Context(), userID, queryLimit(r))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, reqs)
}

// GetWithdrawal handles GET /requests/withdrawals/{id}.
func (h *RequestHandler) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	requestID, err := pathUUID(r, "id")
	if err != nil {
		RespondError(w, err)
		return
	}

	req, err := h.flow.GetWithdrawal(r.Context(), requestID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if req.UserID != userID {
		RespondError(w, domain.ErrNotFound("withdrawal request", requestID.String()))
		return
	}

	RespondJSON(w, http.StatusOK, req)
}

// pathUUID parses a UUID URL parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid " + name)
	}
	return id, nil
}

// queryLimit parses the optional limit query parameter; zero lets the
// service apply its default.
func queryLimit(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return 0
}
