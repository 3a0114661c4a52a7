package guard

import (
	"context"
	"time"

	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

const (
	MaxAttempts   = 5
	LockoutWindow = 15 * time.Minute
)

// RecordAttempt inserts a login attempt row. Failures are deliberately
// ignored so attempt bookkeeping never breaks login itself.
func RecordAttempt(ctx context.Context, db repository.DBTX, identifier, ip string, success bool) {
	if db == nil {
		return
	}
	_, _ = db.Exec(ctx, `
		INSERT INTO login_attempts (identifier, ip_address, success)
		VALUES ($1, $2, $3)`,
		identifier, ip, success)
}

// CheckLocked returns ErrAccountLocked if the account has >= MaxAttempts
// failed logins within the lockout window.
func CheckLocked(ctx context.Context, db repository.DBTX, identifier string) error {
	if db == nil {
		return nil
	}
	var count int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM login_attempts
		WHERE identifier = $1 AND success = false
		  AND created_at > $2`,
		identifier, time.Now().Add(-LockoutWindow)).Scan(&count)
	if err != nil {
		return nil // fail open on DB error — don't block login
	}
	if count >= MaxAttempts {
		return domain.ErrAccountLocked("too many failed login attempts, try again later")
	}
	return nil
}
