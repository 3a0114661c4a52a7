package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// ChargeEntryFeeParams is the input for debiting a tournament entry fee.
type ChargeEntryFeeParams struct {
	UserID       uuid.UUID
	Fee          int64 // centi-ZC, positive
	TournamentID uuid.UUID
}

// ChargeEntryFee debits the captain's wallet for a paid tournament slot.
// The caller runs this in the same transaction as the registration insert.
func (e *Engine) ChargeEntryFee(ctx context.Context, db repository.DBTX, params ChargeEntryFeeParams) (*domain.Transaction, *domain.Wallet, error) {
	if err := domain.ValidatePositiveAmount(params.Fee); err != nil {
		return nil, nil, domain.ErrValidation(err.Error())
	}

	wallet, err := e.LockWalletForUpdate(ctx, db, params.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("charge entry fee: %w", err)
	}
	if wallet.Balance < params.Fee {
		return nil, nil, domain.ErrInsufficientBalance()
	}

	metadata, _ := json.Marshal(map[string]string{"tournament_id": params.TournamentID.String()})
	entry, updated, err := e.PostEntry(ctx, db, domain.PostEntryParams{
		UserID:    params.UserID,
		Type:      domain.TxTournamentEntry,
		Amount:    -params.Fee,
		Reference: strPtr(params.TournamentID.String()),
		Metadata:  metadata,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("charge entry fee post: %w", err)
	}
	return entry, updated, nil
}
