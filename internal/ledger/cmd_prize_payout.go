package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// CreditPrizeParams is the input for crediting a tournament prize share.
type CreditPrizeParams struct {
	UserID       uuid.UUID
	Amount       int64 // centi-ZC, positive
	TournamentID uuid.UUID
	Placement    int // 1-based
	SettledBy    uuid.UUID
}

// CreditPrize credits one placement's share of a tournament prize pool. The
// caller runs this in the same transaction as the tournament completion, one
// call per winner.
func (e *Engine) CreditPrize(ctx context.Context, db repository.DBTX, params CreditPrizeParams) (*domain.Transaction, *domain.Wallet, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, nil, domain.ErrValidation(err.Error())
	}

	if _, err := e.LockWalletForUpdate(ctx, db, params.UserID); err != nil {
		return nil, nil, fmt.Errorf("credit prize: %w", err)
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"tournament_id": params.TournamentID.String(),
		"placement":     params.Placement,
	})
	entry, wallet, err := e.PostEntry(ctx, db, domain.PostEntryParams{
		UserID:    params.UserID,
		Type:      domain.TxPrizePayout,
		Amount:    params.Amount,
		Reference: strPtr(params.TournamentID.String()),
		CreatedBy: &params.SettledBy,
		Metadata:  metadata,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("credit prize post: %w", err)
	}
	return entry, wallet, nil
}
