package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// Engine provides the foundational ledger operations:
//  1. LockWalletForUpdate — row-level pessimistic lock
//  2. PostEntry — atomic balance update + append-only insert + outbox event
//
// Every Z-Credit movement on the platform goes through PostEntry; nothing
// else writes the wallets or ledger_transactions tables.
type Engine struct {
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	outbox       repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	outbox repository.OutboxRepository,
) *Engine {
	return &Engine{
		wallets:      wallets,
		transactions: transactions,
		outbox:       outbox,
	}
}

// LockWalletForUpdate acquires a row-level lock and returns the wallet.
// Must be called within a transaction.
func (e *Engine) LockWalletForUpdate(ctx context.Context, db repository.DBTX, userID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := e.wallets.LockForUpdate(ctx, db, userID)
	if err != nil {
		return nil, fmt.Errorf("lock wallet: %w", err)
	}
	if wallet == nil {
		return nil, domain.ErrNotFound("wallet", userID.String())
	}
	return wallet, nil
}

// PostEntry atomically applies a signed delta to the wallet and appends the
// matching ledger entry. All commands delegate to this.
//
// Steps:
//  1. Apply the delta using server-side arithmetic
//  2. Reject if the result is negative and AllowNegative is not set
//  3. Insert the transaction with the post-update balance snapshot
//  4. Insert the outbox event
//
// All steps run within the caller's transaction, so a rejection in step 2
// rolls back the balance change from step 1.
func (e *Engine) PostEntry(ctx context.Context, db repository.DBTX, params domain.PostEntryParams) (*domain.Transaction, *domain.Wallet, error) {
	updated, err := e.wallets.ApplyDelta(ctx, db, params.UserID, params.Amount)
	if err != nil {
		return nil, nil, fmt.Errorf("apply delta: %w", err)
	}
	if updated == nil {
		return nil, nil, domain.ErrNotFound("wallet", params.UserID.String())
	}

	if updated.Balance < 0 && !params.AllowNegative {
		return nil, nil, domain.ErrNegativeBalance()
	}

	entry, err := e.transactions.Insert(ctx, db, params, updated.Balance)
	if err != nil {
		return nil, nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := e.outbox.Insert(ctx, db, domain.NewTransactionPostedEvent(entry)); err != nil {
		return nil, nil, fmt.Errorf("insert outbox event: %w", err)
	}

	return entry, updated, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ensureJSON(data json.RawMessage) json.RawMessage {
	if data == nil {
		return json.RawMessage(`{}`)
	}
	return data
}
