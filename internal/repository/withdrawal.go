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

type withdrawalRepo struct{}

// NewWithdrawalRepository returns a pgx-backed WithdrawalRepository.
func NewWithdrawalRepository() WithdrawalRepository {
	return &withdrawalRepo{}
}

const withdrawalColumns = `id, user_id, amount_zc, recipient_bank, recipient_account, recipient_holder, recipient_iban,
	status, transaction_id, reviewed_by, reviewed_at, rejection_reason, created_at`

func (r *withdrawalRepo) Insert(ctx context.Context, db DBTX, req *domain.WithdrawalRequest) error {
	_, err := db.Exec(ctx, `
		INSERT INTO withdrawal_requests
		  (id, user_id, amount_zc, recipient_bank, recipient_account, recipient_holder, recipient_iban, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.UserID, infra.Int64ToNumeric(req.AmountZC),
		req.Recipient.BankName, req.Recipient.AccountNumber, req.Recipient.HolderName, req.Recipient.IBAN,
		string(req.Status))
	if err != nil {
		return fmt.Errorf("insert withdrawal request: %w", err)
	}
	return nil
}

func (r *withdrawalRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	row := db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1`, id)
	return scanWithdrawal(row)
}

func (r *withdrawalRepo) GetForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	row := db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`, id)
	return scanWithdrawal(row)
}

func (r *withdrawalRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.WithdrawalRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawal_requests
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query withdrawal requests: %w", err)
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func (r *withdrawalRepo) ListByStatus(ctx context.Context, db DBTX, status domain.RequestStatus, limit int) ([]domain.WithdrawalRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := db.Query(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawal_requests
		WHERE status = $1 ORDER BY created_at ASC LIMIT $2`, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("query withdrawal queue: %w", err)
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func (r *withdrawalRepo) ReviewStats(ctx context.Context, db DBTX, userID uuid.UUID) (domain.RequestReviewStats, error) {
	var stats domain.RequestReviewStats
	err := db.QueryRow(ctx, `
		SELECT
		  COUNT(*) FILTER (WHERE status = 'submitted'),
		  COUNT(*) FILTER (WHERE status = 'rejected' AND reviewed_at > now() - interval '30 days'),
		  COUNT(*) FILTER (WHERE status = 'paid'),
		  COALESCE(AVG(amount_zc) FILTER (WHERE status = 'paid'), 0)::bigint
		FROM withdrawal_requests WHERE user_id = $1`, userID).
		Scan(&stats.Pending, &stats.RejectedLast30Days, &stats.ApprovedCount, &stats.ApprovedAvg)
	if err != nil {
		return stats, fmt.Errorf("withdrawal review stats: %w", err)
	}
	return stats, nil
}

func (r *withdrawalRepo) MarkPaid(ctx context.Context, db DBTX, id uuid.UUID, txID, reviewerID uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, `
		UPDATE withdrawal_requests
		SET status = 'paid', transaction_id = $2, reviewed_by = $3, reviewed_at = now()
		WHERE id = $1 AND status = 'submitted'`,
		id, txID, reviewerID)
	if err != nil {
		return 0, fmt.Errorf("mark withdrawal paid: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *withdrawalRepo) MarkRejected(ctx context.Context, db DBTX, id uuid.UUID, reviewerID uuid.UUID, reason string) (int64, error) {
	tag, err := db.Exec(ctx, `
		UPDATE withdrawal_requests
		SET status = 'rejected', reviewed_by = $2, reviewed_at = now(), rejection_reason = $3
		WHERE id = $1 AND status = 'submitted'`,
		id, reviewerID, reason)
	if err != nil {
		return 0, fmt.Errorf("mark withdrawal rejected: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanWithdrawal(row pgx.Row) (*domain.WithdrawalRequest, error) {
	var w domain.WithdrawalRequest
	var amountNum pgtype.Numeric
	err := row.Scan(
		&w.ID, &w.UserID, &amountNum,
		&w.Recipient.BankName, &w.Recipient.AccountNumber, &w.Recipient.HolderName, &w.Recipient.IBAN,
		&w.Status, &w.TransactionID, &w.ReviewedBy, &w.ReviewedAt, &w.RejectionReason, &w.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan withdrawal request: %w", err)
	}

	w.AmountZC, err = infra.NumericToInt64(amountNum)
	if err != nil {
		return nil, fmt.Errorf("convert amount_zc: %w", err)
	}
	return &w, nil
}

func collectWithdrawals(rows pgx.Rows) ([]domain.WithdrawalRequest, error) {
	var reqs []domain.WithdrawalRequest
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *w)
	}
	return reqs, rows.Err()
}
