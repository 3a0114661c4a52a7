package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/repository"
)

// ManualAdjustInput holds an admin balance correction. Amount is a signed
// decimal string; AllowNegative overrides the negative-balance guard for
// clawbacks of credits the user already spent.
type ManualAdjustInput struct {
	UserID        uuid.UUID `json:"user_id"`
	Amount        string    `json:"amount"`
	Reason        string    `json:"reason"`
	AllowNegative bool      `json:"allow_negative,omitempty"`
}

// ManualAdjust posts a correction entry against a wallet.
func (s *Service) ManualAdjust(ctx context.Context, adminID uuid.UUID, input ManualAdjustInput) (*domain.Transaction, error) {
	amount, err := domain.ParseSignedAmount(input.Amount)
	if err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	var entry *domain.Transaction
	err = s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		entry, _, err = s.engine.Adjust(ctx, db, ledger.AdjustParams{
			UserID:        input.UserID,
			Amount:        amount,
			Reason:        input.Reason,
			AdminID:       adminID,
			AllowNegative: input.AllowNegative,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("manual adjustment posted",
		"user_id", input.UserID, "amount", domain.FormatAmount(amount),
		"created_by", adminID, "allow_negative", input.AllowNegative)
	return entry, nil
}
