package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// PayoutWithdrawalParams is the input for debiting an approved withdrawal.
type PayoutWithdrawalParams struct {
	UserID    uuid.UUID
	Amount    int64 // centi-ZC, positive; the entry is the negation
	RequestID uuid.UUID
	AdminID   uuid.UUID
	Metadata  json.RawMessage
}

// PayoutWithdrawal debits the wallet for a paid withdrawal request. The
// balance is re-checked under the row lock: it may have dropped since the
// request was submitted.
func (e *Engine) PayoutWithdrawal(ctx context.Context, db repository.DBTX, params PayoutWithdrawalParams) (*domain.Transaction, *domain.Wallet, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, nil, domain.ErrValidation(err.Error())
	}

	wallet, err := e.LockWalletForUpdate(ctx, db, params.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("payout withdrawal: %w", err)
	}
	if wallet.Balance < params.Amount {
		return nil, nil, domain.ErrInsufficientBalance()
	}

	entry, updated, err := e.PostEntry(ctx, db, domain.PostEntryParams{
		UserID:    params.UserID,
		Type:      domain.TxWithdrawalPayout,
		Amount:    -params.Amount,
		Reference: strPtr(params.RequestID.String()),
		CreatedBy: &params.AdminID,
		Metadata:  ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("payout withdrawal post: %w", err)
	}
	return entry, updated, nil
}
