package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// CreditDepositParams is the input for crediting an approved deposit.
type CreditDepositParams struct {
	UserID    uuid.UUID
	Amount    int64 // centi-ZC, the admin-entered credit
	RequestID uuid.UUID
	AdminID   uuid.UUID
	Metadata  json.RawMessage
}

// CreditDeposit credits the wallet for a verified deposit request.
// Pattern: Lock → PostEntry.
func (e *Engine) CreditDeposit(ctx context.Context, db repository.DBTX, params CreditDepositParams) (*domain.Transaction, *domain.Wallet, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, nil, domain.ErrValidation(err.Error())
	}

	if _, err := e.LockWalletForUpdate(ctx, db, params.UserID); err != nil {
		return nil, nil, fmt.Errorf("credit deposit: %w", err)
	}

	entry, wallet, err := e.PostEntry(ctx, db, domain.PostEntryParams{
		UserID:    params.UserID,
		Type:      domain.TxDepositCredit,
		Amount:    params.Amount,
		Reference: strPtr(params.RequestID.String()),
		CreatedBy: &params.AdminID,
		Metadata:  ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("credit deposit post: %w", err)
	}
	return entry, wallet, nil
}
