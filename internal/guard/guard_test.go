package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result := rl.Check(ctx, "deposit:u1")
		assert.True(t, result.Allowed, "submission %d should be allowed", i+1)
	}
}

func TestRateLimiter_BlocksFourthSubmissionInWindow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	ctx := context.Background()

	rl.Check(ctx, "deposit:u1")
	rl.Check(ctx, "deposit:u1")
	rl.Check(ctx, "deposit:u1")
	result := rl.Check(ctx, "deposit:u1")

	assert.False(t, result.Allowed)
	assert.Equal(t, "rate_limiter", result.Guard)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	ctx := context.Background()

	base := time.Now()
	rl.now = func() time.Time { return base }
	rl.Check(ctx, "deposit:u1")
	rl.Check(ctx, "deposit:u1")
	assert.False(t, rl.Check(ctx, "deposit:u1").Allowed)

	// Past the window the old submissions expire.
	rl.now = func() time.Time { return base.Add(61 * time.Second) }
	assert.True(t, rl.Check(ctx, "deposit:u1").Allowed)
}

// Recording and counting an attempt must be one atomic step: a burst of
// concurrent submissions gets exactly limit passes, never more.
func TestRateLimiter_ConcurrentBurstRespectsLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	ctx := context.Background()

	const attempts = 20
	var wg sync.WaitGroup
	var allowed atomic.Int64
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Check(ctx, "deposit:u1").Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(3), allowed.Load())
}

func TestRateLimiter_SeparateKeys(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	ctx := context.Background()

	r1 := rl.Check(ctx, DepositKey(uuid.New()))
	r2 := rl.Check(ctx, DepositKey(uuid.New()))

	assert.True(t, r1.Allowed)
	assert.True(t, r2.Allowed)
}

func TestKeyHelpers_SeparateDepositAndWithdrawal(t *testing.T) {
	id := uuid.New()
	assert.NotEqual(t, DepositKey(id), WithdrawalKey(id))
}

func TestNewRedisRateLimiter_NilClientFallsBackInMemory(t *testing.T) {
	rl := NewRedisRateLimiter(nil, 1, time.Minute)
	ctx := context.Background()

	assert.True(t, rl.Check(ctx, "deposit:u1").Allowed)
	assert.False(t, rl.Check(ctx, "deposit:u1").Allowed)
}

func TestCircuitBreaker_ClosedByDefault(t *testing.T) {
	cb := NewCircuitBreaker(3, 5*time.Second)
	ctx := context.Background()

	result := cb.Check(ctx, "cloudinary")
	assert.True(t, result.Allowed)
}

func TestCircuitBreaker_OpensOnThreshold(t *testing.T) {
	cb := NewCircuitBreaker(2, 5*time.Second)
	ctx := context.Background()

	cb.Check(ctx, "cloudinary")
	cb.RecordFailure("cloudinary")
	cb.RecordFailure("cloudinary")

	result := cb.Check(ctx, "cloudinary")
	assert.False(t, result.Allowed)
	assert.Equal(t, "circuit_breaker", result.Guard)
}

func TestCircuitBreaker_SuccessResets(t *testing.T) {
	cb := NewCircuitBreaker(2, 5*time.Second)
	ctx := context.Background()

	cb.Check(ctx, "cloudinary")
	cb.RecordFailure("cloudinary")
	cb.RecordSuccess("cloudinary")

	result := cb.Check(ctx, "cloudinary")
	assert.True(t, result.Allowed)
}

func TestIdempotencyGuard_AllowsFirst(t *testing.T) {
	ig := NewIdempotencyGuard()
	ctx := context.Background()

	result := ig.Check(ctx, "dep-123")
	assert.True(t, result.Allowed)
}

func TestIdempotencyGuard_BlocksDuplicate(t *testing.T) {
	ig := NewIdempotencyGuard()
	ctx := context.Background()

	ig.Check(ctx, "dep-123")
	result := ig.Check(ctx, "dep-123")

	assert.False(t, result.Allowed)
	assert.Equal(t, "idempotency", result.Guard)
}

func TestIdempotencyGuard_EmptyKeyAllowed(t *testing.T) {
	ig := NewIdempotencyGuard()
	ctx := context.Background()

	r1 := ig.Check(ctx, "")
	r2 := ig.Check(ctx, "")

	assert.True(t, r1.Allowed)
	assert.True(t, r2.Allowed)
}

func TestIdempotencyGuard_ReleaseAllowsRetry(t *testing.T) {
	ig := NewIdempotencyGuard()
	ctx := context.Background()

	ig.Check(ctx, "dep-456")
	ig.Release("dep-456")

	result := ig.Check(ctx, "dep-456")
	require.True(t, result.Allowed)
}

func TestSubmissionKeyScoping(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	assert.NotEqual(t, SubmissionKey("deposit", a, "k1"), SubmissionKey("deposit", b, "k1"))
	assert.NotEqual(t, SubmissionKey("deposit", a, "k1"), SubmissionKey("withdrawal", a, "k1"))
	assert.Equal(t, "", SubmissionKey("deposit", a, ""))
}
