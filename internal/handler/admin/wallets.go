package admin

import (
	"net/http"

	"github.com/zarena/platform/internal/handler"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/repository"
	"github.com/zarena/platform/internal/workflow"
)

// WalletAdminHandler handles manual adjustments and ledger audits.
type WalletAdminHandler struct {
	flow   *workflow.Service
	engine *ledger.Engine
	db     repository.DBTX
}

// NewWalletAdminHandler creates a new WalletAdminHandler.
func NewWalletAdminHandler(flow *workflow.Service, engine *ledger.Engine, db repository.DBTX) *WalletAdminHandler {
	return &WalletAdminHandler{flow: flow, engine: engine, db: db}
}

// Adjust handles POST /admin/wallets/adjust. A signed amount with a required
// reason; allow_negative overrides the negative-balance guard for clawbacks.
func (h *WalletAdminHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	adminID, err := reviewerFromContext(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	var input workflow.ManualAdjustInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	entry, err := h.flow.ManualAdjust(r.Context(), adminID, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, entry)
}

// Audit handles GET /admin/wallets/{id}/audit: recomputes the user's ledger
// sum and checks it against the wallet balance and the last snapshot.
func (h *WalletAdminHandler) Audit(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	report, err := h.engine.Audit(r.Context(), h.db, userID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, report)
}
