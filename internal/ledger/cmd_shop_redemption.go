package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// RedeemProductParams is the input for debiting a shop redemption.
type RedeemProductParams struct {
	UserID    uuid.UUID
	Price     int64 // centi-ZC, positive, captured at redemption time
	ProductID uuid.UUID
	OrderID   uuid.UUID
}

// RedeemProduct debits the wallet for a shop order. The caller runs this in
// the same transaction as the stock decrement and the order insert.
func (e *Engine) RedeemProduct(ctx context.Context, db repository.DBTX, params RedeemProductParams) (*domain.Transaction, *domain.Wallet, error) {
	if err := domain.ValidatePositiveAmount(params.Price); err != nil {
		return nil, nil, domain.ErrValidation(err.Error())
	}

	wallet, err := e.LockWalletForUpdate(ctx, db, params.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("redeem product: %w", err)
	}
	if wallet.Balance < params.Price {
		return nil, nil, domain.ErrInsufficientBalance()
	}

	metadata, _ := json.Marshal(map[string]string{
		"product_id": params.ProductID.String(),
		"order_id":   params.OrderID.String(),
	})
	entry, updated, err := e.PostEntry(ctx, db, domain.PostEntryParams{
		UserID:    params.UserID,
		Type:      domain.TxShopRedemption,
		Amount:    -params.Price,
		Reference: strPtr(params.OrderID.String()),
		Metadata:  metadata,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("redeem product post: %w", err)
	}
	return entry, updated, nil
}
