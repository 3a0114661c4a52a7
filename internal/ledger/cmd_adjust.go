package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// AdjustParams is the input for a manual balance adjustment.
type AdjustParams struct {
	UserID  uuid.UUID
	Amount  int64 // signed centi-ZC delta
	Reason  string
	AdminID uuid.UUID

	// AllowNegative permits the adjustment to take the balance below zero
	// (clawback of an erroneous credit the user already spent).
	AllowNegative bool
	Metadata      json.RawMessage
}

// Adjust posts a manual correction entry. A non-empty reason is mandatory:
// adjustments are the only entries without a request or order behind them, so
// the reason is the whole audit trail.
func (e *Engine) Adjust(ctx context.Context, db repository.DBTX, params AdjustParams) (*domain.Transaction, *domain.Wallet, error) {
	if params.Amount == 0 {
		return nil, nil, domain.ErrValidation("adjustment amount must be non-zero")
	}
	reason := strings.TrimSpace(params.Reason)
	if reason == "" {
		return nil, nil, domain.ErrValidation("adjustment reason is required")
	}

	if _, err := e.LockWalletForUpdate(ctx, db, params.UserID); err != nil {
		return nil, nil, fmt.Errorf("adjust: %w", err)
	}

	entry, wallet, err := e.PostEntry(ctx, db, domain.PostEntryParams{
		UserID:        params.UserID,
		Type:          domain.TxAdjust,
		Amount:        params.Amount,
		Reason:        &reason,
		CreatedBy:     &params.AdminID,
		AllowNegative: params.AllowNegative,
		Metadata:      ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("adjust post: %w", err)
	}
	return entry, wallet, nil
}
