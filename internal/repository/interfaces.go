package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zarena/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Transactor runs fn inside a single database transaction. Every
// balance-affecting workflow (disposition + ledger append, entry-fee debit +
// registration) goes through it so the paired writes commit or roll back
// together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(db DBTX) error) error
}

// UserRepository provides access to users.
type UserRepository interface {
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error)
	FindByUsername(ctx context.Context, db DBTX, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.User, error)
	Create(ctx context.Context, db DBTX, user *domain.User) error
	UpdateProfile(ctx context.Context, db DBTX, id uuid.UUID, displayName, whatsapp string, avatarURL *string) error
	UpdateRole(ctx context.Context, db DBTX, id uuid.UUID, role domain.Role) error
	Search(ctx context.Context, db DBTX, query string, limit int) ([]domain.User, error)
}

// WalletRepository provides access to wallets.
type WalletRepository interface {
	FindByUserID(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.Wallet, error)
	Create(ctx context.Context, db DBTX, userID uuid.UUID) error

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE). Must be
	// called within a transaction.
	LockForUpdate(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.Wallet, error)

	// ApplyDelta atomically adjusts the balance using server-side arithmetic
	// and returns the updated wallet.
	ApplyDelta(ctx context.Context, db DBTX, userID uuid.UUID, delta int64) (*domain.Wallet, error)
}

// TransactionRepository provides access to the append-only ledger_transactions.
type TransactionRepository interface {
	// Insert creates a new approved ledger entry with the post-update balance
	// snapshot. Returns the inserted row.
	Insert(ctx context.Context, db DBTX, params domain.PostEntryParams, balanceAfter int64) (*domain.Transaction, error)

	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Transaction, error)

	// ListByUser returns transactions newest first with optional status filter
	// and cursor-based pagination.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, status *domain.TransactionStatus, cursor *string, limit int) ([]domain.Transaction, error)

	// SumApproved returns the sum of approved transaction amounts for a user.
	// Audit tool for the balance invariant.
	SumApproved(ctx context.Context, db DBTX, userID uuid.UUID) (int64, error)
}

// DepositRepository provides access to deposit_requests.
type DepositRepository interface {
	Insert(ctx context.Context, db DBTX, req *domain.DepositRequest) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.DepositRequest, error)

	// GetForUpdate locks the request row for disposition. Must be called
	// within a transaction.
	GetForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (*domain.DepositRequest, error)

	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.DepositRequest, error)
	ListByStatus(ctx context.Context, db DBTX, status domain.RequestStatus, limit int) ([]domain.DepositRequest, error)

	// ReviewStats aggregates the user's deposit history for queue risk
	// scoring.
	ReviewStats(ctx context.Context, db DBTX, userID uuid.UUID) (domain.RequestReviewStats, error)

	// MarkVerified conditionally transitions submitted → verified, recording
	// the admin-entered credit, the ledger entry link and the reviewer stamp.
	// Returns the number of rows matched: 0 means the request was no longer
	// in submitted state.
	MarkVerified(ctx context.Context, db DBTX, id uuid.UUID, creditedAmount int64, txID, reviewerID uuid.UUID) (int64, error)

	// MarkRejected conditionally transitions submitted → rejected.
	MarkRejected(ctx context.Context, db DBTX, id uuid.UUID, reviewerID uuid.UUID, reason string) (int64, error)
}

// WithdrawalRepository provides access to withdrawal_requests.
type WithdrawalRepository interface {
	Insert(ctx context.Context, db DBTX, req *domain.WithdrawalRequest) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.WithdrawalRequest, error)
	GetForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (*domain.WithdrawalRequest, error)
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.WithdrawalRequest, error)
	ListByStatus(ctx context.Context, db DBTX, status domain.RequestStatus, limit int) ([]domain.WithdrawalRequest, error)

	// ReviewStats aggregates the user's withdrawal history for queue risk
	// scoring.
	ReviewStats(ctx context.Context, db DBTX, userID uuid.UUID) (domain.RequestReviewStats, error)

	// MarkPaid conditionally transitions submitted → paid.
	MarkPaid(ctx context.Context, db DBTX, id uuid.UUID, txID, reviewerID uuid.UUID) (int64, error)
	MarkRejected(ctx context.Context, db DBTX, id uuid.UUID, reviewerID uuid.UUID, reason string) (int64, error)
}

// RateRepository provides access to conversion_rates.
type RateRepository interface {
	// Latest returns the most recently recorded rate, or nil when none exists.
	Latest(ctx context.Context, db DBTX) (*domain.ConversionRate, error)
	Insert(ctx context.Context, db DBTX, rate *domain.ConversionRate) error
}

// TournamentRepository provides access to tournaments and registrations.
type TournamentRepository interface {
	Create(ctx context.Context, db DBTX, t *domain.Tournament) error
	Update(ctx context.Context, db DBTX, t *domain.Tournament) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Tournament, error)

	// GetForUpdate locks the tournament row so slot counting is race-free.
	GetForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Tournament, error)

	List(ctx context.Context, db DBTX, status *domain.TournamentStatus, limit int) ([]domain.Tournament, error)
	CountRegistrations(ctx context.Context, db DBTX, tournamentID uuid.UUID) (int, error)
	HasRegistration(ctx context.Context, db DBTX, tournamentID, captainID uuid.UUID) (bool, error)
	InsertRegistration(ctx context.Context, db DBTX, reg *domain.Registration) error
	ListRegistrations(ctx context.Context, db DBTX, tournamentID uuid.UUID) ([]domain.Registration, error)
}

// ProductRepository provides access to shop_products and shop_orders.
type ProductRepository interface {
	Create(ctx context.Context, db DBTX, p *domain.Product) error
	Update(ctx context.Context, db DBTX, p *domain.Product) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Product, error)
	GetForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, db DBTX, activeOnly bool, limit int) ([]domain.Product, error)

	// DecrementStock conditionally decrements stock where stock > 0.
	// Returns rows matched: 0 means the product sold out concurrently.
	DecrementStock(ctx context.Context, db DBTX, id uuid.UUID) (int64, error)

	InsertOrder(ctx context.Context, db DBTX, o *domain.Order) error
	ListOrdersByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.Order, error)
}

// PostRepository provides access to posts (news/guides).
type PostRepository interface {
	Create(ctx context.Context, db DBTX, p *domain.Post) error
	Update(ctx context.Context, db DBTX, p *domain.Post) error
	Delete(ctx context.Context, db DBTX, id uuid.UUID) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Post, error)
	FindBySlug(ctx context.Context, db DBTX, slug string) (*domain.Post, error)
	List(ctx context.Context, db DBTX, kind *domain.PostKind, publishedOnly bool, limit int) ([]domain.Post, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the
	// state change it describes).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error
}
