package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// AuditReport holds the outcome of a wallet invariant audit.
type AuditReport struct {
	UserID    uuid.UUID        `json:"user_id"`
	Balance   int64            `json:"balance"`
	LedgerSum int64            `json:"ledger_sum"`
	Checks    []InvariantCheck `json:"checks"`
	AllPassed bool             `json:"all_passed"`
}

// InvariantCheck records a single invariant validation.
type InvariantCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Audit validates the ledger invariants for one wallet:
//  1. Ledger sum: the wallet balance equals the sum of approved entries
//  2. Snapshot parity: the newest entry's balance_after matches the wallet row
//
// Read-only; safe to run against a live wallet outside any workflow.
func (e *Engine) Audit(ctx context.Context, db repository.DBTX, userID uuid.UUID) (*AuditReport, error) {
	wallet, err := e.wallets.FindByUserID(ctx, db, userID)
	if err != nil {
		return nil, fmt.Errorf("audit wallet: %w", err)
	}
	if wallet == nil {
		return nil, domain.ErrNotFound("wallet", userID.String())
	}

	sum, err := e.transactions.SumApproved(ctx, db, userID)
	if err != nil {
		return nil, fmt.Errorf("audit sum: %w", err)
	}

	var lastTx *domain.Transaction
	recent, err := e.transactions.ListByUser(ctx, db, userID, nil, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("audit last entry: %w", err)
	}
	if len(recent) > 0 {
		lastTx = &recent[0]
	}

	checks := []InvariantCheck{
		{
			Name:   "ledger_sum",
			Passed: wallet.Balance == sum,
			Detail: fmt.Sprintf("balance=%d sum=%d", wallet.Balance, sum),
		},
	}
	if lastTx != nil {
		checks = append(checks, InvariantCheck{
			Name:   "snapshot_parity",
			Passed: lastTx.BalanceAfter == wallet.Balance,
			Detail: fmt.Sprintf("balance=%d last_snapshot=%d", wallet.Balance, lastTx.BalanceAfter),
		})
	} else {
		checks = append(checks, InvariantCheck{
			Name:   "snapshot_parity",
			Passed: wallet.Balance == 0,
			Detail: "no transactions (empty ledger)",
		})
	}

	allPassed := true
	for _, c := range checks {
		if !c.Passed {
			allPassed = false
		}
	}

	return &AuditReport{
		UserID:    userID,
		Balance:   wallet.Balance,
		LedgerSum: sum,
		Checks:    checks,
		AllPassed: allPassed,
	}, nil
}
