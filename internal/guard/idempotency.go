package guard

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
)

// SubmissionKey scopes a client-supplied Idempotency-Key to one user and
// operation, so two players reusing the same key never collide. An empty
// client key yields an empty scoped key, which the guard always allows.
func SubmissionKey(op string, userID uuid.UUID, clientKey string) string {
	if clientKey == "" {
		return ""
	}
	return op + ":" + userID.String() + ":" + clientKey
}

// IdempotencyGuard deduplicates wallet request submissions by scoped key.
// Process-local: after a restart a replayed key creates a second request
// row, which staff review catches; balances only move on disposition.
type IdempotencyGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewIdempotencyGuard creates an empty in-memory guard.
func NewIdempotencyGuard() *IdempotencyGuard {
	return &IdempotencyGuard{seen: make(map[string]struct{})}
}

// Check claims the key. The first caller is allowed and the key is marked
// seen atomically; later callers are rejected until Release.
func (ig *IdempotencyGuard) Check(_ context.Context, key string) domain.GuardResult {
	if key == "" {
		return domain.GuardResult{Allowed: true}
	}

	ig.mu.Lock()
	defer ig.mu.Unlock()

	if _, dup := ig.seen[key]; dup {
		return domain.GuardResult{
			Allowed: false,
			Reason:  "duplicate request: idempotency key already processed",
			Guard:   "idempotency",
		}
	}
	ig.seen[key] = struct{}{}
	return domain.GuardResult{Allowed: true}
}

// Release frees a claimed key so a failed submission can be retried with
// the same Idempotency-Key.
func (ig *IdempotencyGuard) Release(key string) {
	ig.mu.Lock()
	defer ig.mu.Unlock()
	delete(ig.seen, key)
}
