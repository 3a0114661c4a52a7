// Package workflow implements the deposit and withdrawal request lifecycle:
// player submission, the admin review queue, and the terminal dispositions
// that move Z-Credits through the ledger engine.
package workflow

import (
	"log/slog"

	"github.com/zarena/platform/internal/guard"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/policy"
	"github.com/zarena/platform/internal/repository"
)

// Service orchestrates wallet request workflows. All dispositions run the
// request status flip and the ledger entry in one database transaction; the
// conditional status update makes concurrent dispositions lose cleanly.
type Service struct {
	db          repository.DBTX
	tx          repository.Transactor
	users       repository.UserRepository
	deposits    repository.DepositRepository
	withdrawals repository.WithdrawalRepository
	wallets     repository.WalletRepository
	outbox      repository.OutboxRepository
	engine      *ledger.Engine

	depositLimiter    guard.SubmitLimiter
	withdrawalLimiter guard.SubmitLimiter
	submissions       *guard.IdempotencyGuard
	limits            policy.SubmissionLimitPolicy
	routing           policy.PayoutRoutingPolicy
	logger            *slog.Logger
}

// Config bundles the Service dependencies.
type Config struct {
	DB          repository.DBTX
	Tx          repository.Transactor
	Users       repository.UserRepository
	Deposits    repository.DepositRepository
	Withdrawals repository.WithdrawalRepository
	Wallets     repository.WalletRepository
	Outbox      repository.OutboxRepository
	Engine      *ledger.Engine

	DepositLimiter    guard.SubmitLimiter
	WithdrawalLimiter guard.SubmitLimiter
	Submissions       *guard.IdempotencyGuard
	Limits            policy.SubmissionLimitPolicy
	Routing           policy.PayoutRoutingPolicy
	Logger            *slog.Logger
}

// NewService creates a workflow Service. A nil Submissions guard is
// replaced with a fresh one so submission paths never nil-check it.
func NewService(cfg Config) *Service {
	if cfg.Submissions == nil {
		cfg.Submissions = guard.NewIdempotencyGuard()
	}
	return &Service{
		db:                cfg.DB,
		tx:                cfg.Tx,
		users:             cfg.Users,
		deposits:          cfg.Deposits,
		withdrawals:       cfg.Withdrawals,
		wallets:           cfg.Wallets,
		outbox:            cfg.Outbox,
		engine:            cfg.Engine,
		depositLimiter:    cfg.DepositLimiter,
		withdrawalLimiter: cfg.WithdrawalLimiter,
		submissions:       cfg.Submissions,
		limits:            cfg.Limits,
		routing:           cfg.Routing,
		logger:            cfg.Logger,
	}
}
