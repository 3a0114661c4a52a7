//go:build integration

package testutil

import (
	"context"
	"time"
)

// CleanAll truncates all tables in dependency-safe order.
func (env *TestEnv) CleanAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		"shop_orders",
		"shop_products",
		"tournament_registrations",
		"tournaments",
		"posts",
		"withdrawal_requests",
		"deposit_requests",
		"conversion_rates",
		"event_outbox",
		"ledger_transactions",
		"wallets",
		"login_attempts",
		"users",
	}

	for _, table := range tables {
		_, _ = env.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
	}
}
