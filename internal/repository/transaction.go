package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/infra"
)

type transactionRepo struct{}

// NewTransactionRepository returns a pgx-backed TransactionRepository.
func NewTransactionRepository() TransactionRepository {
	return &transactionRepo{}
}

const txColumns = `id, user_id, type, amount, status, balance_after, reference, reason, created_by, metadata, created_at`

func (r *transactionRepo) Insert(ctx context.Context, db DBTX, params domain.PostEntryParams, balanceAfter int64) (*domain.Transaction, error) {
	meta := params.Metadata
	if meta == nil {
		meta = json.RawMessage(`{}`)
	}

	row := db.QueryRow(ctx, `
		INSERT INTO ledger_transactions
		  (user_id, type, amount, status, balance_after, reference, reason, created_by, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+txColumns,
		params.UserID,
		string(params.Type),
		infra.Int64ToNumeric(params.Amount),
		string(domain.TxStatusApproved),
		infra.Int64ToNumeric(balanceAfter),
		params.Reference,
		params.Reason,
		params.CreatedBy,
		meta,
	)
	return scanTransaction(row)
}

func (r *transactionRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Transaction, error) {
	row := db.QueryRow(ctx, `SELECT `+txColumns+` FROM ledger_transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

func (r *transactionRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, status *domain.TransactionStatus, cursor *string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		rows, err = db.Query(ctx, `
			SELECT `+txColumns+`
			FROM ledger_transactions
			WHERE user_id = $1
			  AND ($2::text IS NULL OR status = $2)
			  AND (created_at, id) <= ((SELECT created_at, id FROM ledger_transactions WHERE id = $3))
			ORDER BY created_at DESC, id DESC
			LIMIT $4`, userID, statusArg(status), *cursor, limit)
	} else {
		rows, err = db.Query(ctx, `
			SELECT `+txColumns+`
			FROM ledger_transactions
			WHERE user_id = $1
			  AND ($2::text IS NULL OR status = $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3`, userID, statusArg(status), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *transactionRepo) SumApproved(ctx context.Context, db DBTX, userID uuid.UUID) (int64, error) {
	var sumNum pgtype.Numeric
	err := db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_transactions
		WHERE user_id = $1 AND status = 'approved'`, userID).Scan(&sumNum)
	if err != nil {
		return 0, fmt.Errorf("sum approved: %w", err)
	}
	return infra.NumericToInt64(sumNum)
}

func statusArg(status *domain.TransactionStatus) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	var amountNum, balNum pgtype.Numeric
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.Type, &amountNum, &tx.Status, &balNum,
		&tx.Reference, &tx.Reason, &tx.CreatedBy, &tx.Metadata, &tx.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	var convErr error
	tx.Amount, convErr = infra.NumericToInt64(amountNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert amount: %w", convErr)
	}
	tx.BalanceAfter, convErr = infra.NumericToInt64(balNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert balance_after: %w", convErr)
	}
	return &tx, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var amountNum, balNum pgtype.Numeric
		err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Type, &amountNum, &tx.Status, &balNum,
			&tx.Reference, &tx.Reason, &tx.CreatedBy, &tx.Metadata, &tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		var convErr error
		tx.Amount, convErr = infra.NumericToInt64(amountNum)
		if convErr != nil {
			return nil, convErr
		}
		tx.BalanceAfter, convErr = infra.NumericToInt64(balNum)
		if convErr != nil {
			return nil, convErr
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
