package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/infra"
)

type depositRepo struct{}

// NewDepositRepository returns a pgx-backed DepositRepository.
func NewDepositRepository() DepositRepository {
	return &depositRepo{}
}

const depositColumns = `id, user_id, amount_pkr, currency, sender_bank, sender_account, sender_holder, transferred_at,
	receipt_url, status, credited_amount, transaction_id, reviewed_by, reviewed_at, rejection_reason, created_at`

func (r *depositRepo) Insert(ctx context.Context, db DBTX, req *domain.DepositRequest) error {
	_, err := db.Exec(ctx, `
		INSERT INTO deposit_requests
		  (id, user_id, amount_pkr, currency, sender_bank, sender_account, sender_holder, transferred_at, receipt_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.UserID, infra.Int64ToNumeric(req.AmountPKR), req.Currency,
		req.Sender.BankName, req.Sender.AccountNumber, req.Sender.HolderName,
		req.TransferredAt, req.ReceiptURL, string(req.Status))
	if err != nil {
		return fmt.Errorf("insert deposit request: %w", err)
	}
	return nil
}

func (r *depositRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.DepositRequest, error) {
	row := db.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposit_requests WHERE id = $1`, id)
	return scanDeposit(row)
}

func (r *depositRepo) GetForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (*domain.DepositRequest, error) {
	row := db.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposit_requests WHERE id = $1 FOR UPDATE`, id)
	return scanDeposit(row)
}

func (r *depositRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.DepositRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+depositColumns+` FROM deposit_requests
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query deposit requests: %w", err)
	}
	defer rows.Close()
	return collectDeposits(rows)
}

func (r *depositRepo) ListByStatus(ctx context.Context, db DBTX, status domain.RequestStatus, limit int) ([]domain.DepositRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := db.Query(ctx, `
		SELECT `+depositColumns+` FROM deposit_requests
		WHERE status = $1 ORDER BY created_at ASC LIMIT $2`, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("query deposit queue: %w", err)
	}
	defer rows.Close()
	return collectDeposits(rows)
}

func (r *depositRepo) ReviewStats(ctx context.Context, db DBTX, userID uuid.UUID) (domain.RequestReviewStats, error) {
	var stats domain.RequestReviewStats
	err := db.QueryRow(ctx, `
		SELECT
		  COUNT(*) FILTER (WHERE status = 'submitted'),
		  COUNT(*) FILTER (WHERE status = 'rejected' AND reviewed_at > now() - interval '30 days'),
		  COUNT(*) FILTER (WHERE status = 'verified'),
		  COALESCE(AVG(amount_pkr) FILTER (WHERE status = 'verified'), 0)::bigint
		FROM deposit_requests WHERE user_id = $1`, userID).
		Scan(&stats.Pending, &stats.RejectedLast30Days, &stats.ApprovedCount, &stats.ApprovedAvg)
	if err != nil {
		return stats, fmt.Errorf("deposit review stats: %w", err)
	}
	return stats, nil
}

// MarkVerified is the conditional write that makes disposition idempotent:
// the status predicate guarantees at most one transition out of submitted.
func (r *depositRepo) MarkVerified(ctx context.Context, db DBTX, id uuid.UUID, creditedAmount int64, txID, reviewerID uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, `
		UPDATE deposit_requests
		SET status = 'verified', credited_amount = $2, transaction_id = $3,
		    reviewed_by = $4, reviewed_at = now()
		WHERE id = $1 AND status = 'submitted'`,
		id, infra.Int64ToNumeric(creditedAmount), txID, reviewerID)
	if err != nil {
		return 0, fmt.Errorf("mark deposit verified: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *depositRepo) MarkRejected(ctx context.Context, db DBTX, id uuid.UUID, reviewerID uuid.UUID, reason string) (int64, error) {
	tag, err := db.Exec(ctx, `
		UPDATE deposit_requests
		SET status = 'rejected', reviewed_by = $2, reviewed_at = now(), rejection_reason = $3
		WHERE id = $1 AND status = 'submitted'`,
		id, reviewerID, reason)
	if err != nil {
		return 0, fmt.Errorf("mark deposit rejected: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanDeposit(row pgx.Row) (*domain.DepositRequest, error) {
	var d domain.DepositRequest
	var amountNum, creditedNum pgtype.Numeric
	err := row.Scan(
		&d.ID, &d.UserID, &amountNum, &d.Currency,
		&d.Sender.BankName, &d.Sender.AccountNumber, &d.Sender.HolderName, &d.TransferredAt,
		&d.ReceiptURL, &d.Status, &creditedNum, &d.TransactionID,
		&d.ReviewedBy, &d.ReviewedAt, &d.RejectionReason, &d.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan deposit request: %w", err)
	}

	d.AmountPKR, err = infra.NumericToInt64(amountNum)
	if err != nil {
		return nil, fmt.Errorf("convert amount_pkr: %w", err)
	}
	if creditedNum.Valid {
		credited, err := infra.NumericToInt64(creditedNum)
		if err != nil {
			return nil, fmt.Errorf("convert credited_amount: %w", err)
		}
		d.CreditedAmount = &credited
	}
	return &d, nil
}

func collectDeposits(rows pgx.Rows) ([]domain.DepositRequest, error) {
	var reqs []domain.DepositRequest
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *d)
	}
	return reqs, rows.Err()
}
