// Package admin holds the staff-only HTTP handlers. Routes in this package
// are mounted behind the authentication middleware plus a capability check.
package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/zarena/platform/internal/auth"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/handler"
	"github.com/zarena/platform/internal/workflow"
)

// RequestAdminHandler handles the deposit and withdrawal review queues.
type RequestAdminHandler struct {
	flow *workflow.Service
}

// NewRequestAdminHandler creates a new RequestAdminHandler.
func NewRequestAdminHandler(flow *workflow.Service) *RequestAdminHandler {
	return &RequestAdminHandler{flow: flow}
}

// PendingDeposits handles GET /admin/requests/deposits.
func (h *RequestAdminHandler) PendingDeposits(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.flow.PendingDeposits(r.Context(), queryLimit(r))
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, reqs)
}

// GetDeposit handles GET /admin/requests/deposits/{id} for review detail.
func (h *RequestAdminHandler) GetDeposit(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	req, err := h.flow.GetDeposit(r.Context(), requestID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, req)
}

// GetWithdrawal handles GET /admin/requests/withdrawals/{id}.
func (h *RequestAdminHandler) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	req, err := h.flow.GetWithdrawal(r.Context(), requestID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, req)
}

// ApproveDeposit handles POST /admin/requests/deposits/{id}/approve. The
// admin enters the ZC credit after checking the claim against the bank
// statement; the claimed PKR amount is never trusted as the credit source.
func (h *RequestAdminHandler) ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	adminID, err := reviewerFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	requestID, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input struct {
		CreditedZC string `json:"credited_zc"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	req, err := h.flow.ApproveDeposit(r.Context(), adminID, workflow.ApproveDepositInput{
		RequestID:  requestID,
		CreditedZC: input.CreditedZC,
	})
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, req)
}

// RejectDeposit handles POST /admin/requests/deposits/{id}/reject.
func (h *RequestAdminHandler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	adminID, err := reviewerFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	requestID, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	reason, err := decodeReason(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	req, err := h.flow.RejectDeposit(r.Context(), adminID, requestID, reason)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, req)
}

// PendingWithdrawals handles GET /admin/requests/withdrawals.
func (h *RequestAdminHandler) PendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.flow.PendingWithdrawals(r.Context(), queryLimit(r))
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, reqs)
}

// PayoutWithdrawal handles POST /admin/requests/withdrawals/{id}/payout. The
// admin confirms the bank transfer went out; the wallet is debited here.
func (h *RequestAdminHandler) PayoutWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, err := reviewerFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	requestID, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	req, err := h.flow.PayoutWithdrawal(r.Context(), adminID, requestID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, req)
}

// RejectWithdrawal handles POST /admin/requests/withdrawals/{id}/reject.
func (h *RequestAdminHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, err := reviewerFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	requestID, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	reason, err := decodeReason(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	req, err := h.flow.RejectWithdrawal(r.Context(), adminID, requestID, reason)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, req)
}

func decodeReason(r *http.Request) (string, error) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		return "", domain.ErrValidation("invalid request body")
	}
	return input.Reason, nil
}

// reviewerFromContext extracts the acting staff member's UUID.
func reviewerFromContext(r *http.Request) (uuid.UUID, error) {
	id := auth.UserIDFromContext(r.Context())
	if id == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized("no subject in context")
	}
	return id, nil
}

// pathUUID parses a UUID URL parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid " + name)
	}
	return id, nil
}

// queryLimit parses the optional limit query parameter.
func queryLimit(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return 0
}
