package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/zarena/platform/internal/domain"
)

// BalanceProjection is the read model built from transaction_posted events.
// Balance is centi-ZC; BalanceZC is the formatted display value.
type BalanceProjection struct {
	UserID    string `json:"user_id"`
	Balance   int64  `json:"balance"`
	BalanceZC string `json:"balance_zc"`
	UpdatedAt string `json:"updated_at"`
}

const balanceTTL = 5 * time.Minute

func balanceKey(userID string) string {
	return fmt.Sprintf("projection:balance:%s", userID)
}

// ApplyTransaction updates the balance projection from a posted ledger entry.
// BalanceAfter is a point-in-time snapshot, so replaying the same event is
// harmless.
func ApplyTransaction(ctx context.Context, store Store, tx *domain.Transaction) error {
	p := BalanceProjection{
		UserID:    tx.UserID.String(),
		Balance:   tx.BalanceAfter,
		BalanceZC: domain.FormatAmount(tx.BalanceAfter),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return SetJSON(ctx, store, balanceKey(p.UserID), p, balanceTTL)
}

// GetBalance retrieves a cached balance projection.
func GetBalance(ctx context.Context, store Store, userID string) (*BalanceProjection, error) {
	var p BalanceProjection
	if err := GetJSON(ctx, store, balanceKey(userID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// InvalidateBalance removes a cached balance.
func InvalidateBalance(ctx context.Context, store Store, userID string) error {
	return store.Delete(ctx, balanceKey(userID))
}
