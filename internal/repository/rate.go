package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/zarena/platform/internal/domain"
)

type rateRepo struct{}

// NewRateRepository returns a pgx-backed RateRepository.
func NewRateRepository() RateRepository {
	return &rateRepo{}
}

func (r *rateRepo) Latest(ctx context.Context, db DBTX) (*domain.ConversionRate, error) {
	row := db.QueryRow(ctx, `
		SELECT id, rate_pkr, set_by, created_at
		FROM conversion_rates
		ORDER BY created_at DESC, id DESC
		LIMIT 1`)

	var rate domain.ConversionRate
	err := row.Scan(&rate.ID, &rate.RatePKR, &rate.SetBy, &rate.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan conversion rate: %w", err)
	}
	return &rate, nil
}

func (r *rateRepo) Insert(ctx context.Context, db DBTX, rate *domain.ConversionRate) error {
	_, err := db.Exec(ctx, `
		INSERT INTO conversion_rates (id, rate_pkr, set_by) VALUES ($1, $2, $3)`,
		rate.ID, rate.RatePKR, rate.SetBy)
	if err != nil {
		return fmt.Errorf("insert conversion rate: %w", err)
	}
	return nil
}
