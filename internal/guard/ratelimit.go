package guard

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
)

// SubmitLimiter gates deposit/withdrawal submissions per user. Both the
// in-memory and Redis implementations use a sliding window.
type SubmitLimiter interface {
	Check(ctx context.Context, key string) domain.GuardResult
}

// DepositKey builds the limiter key for a user's deposit submissions.
func DepositKey(userID uuid.UUID) string { return "deposit:" + userID.String() }

// WithdrawalKey builds the limiter key for a user's withdrawal submissions.
func WithdrawalKey(userID uuid.UUID) string { return "withdrawal:" + userID.String() }

// RateLimiter implements a sliding window rate limiter in process memory.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewRateLimiter creates a rate limiter with the given limit per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Check returns a GuardResult indicating whether the key is within rate limits.
func (rl *RateLimiter) Check(_ context.Context, key string) domain.GuardResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	// Remove expired entries
	entries := rl.windows[key]
	valid := entries[:0]
	for _, t := range entries {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.windows[key] = valid
		return domain.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("rate limit exceeded: %d/%s", rl.limit, rl.window),
			Guard:   "rate_limiter",
		}
	}

	rl.windows[key] = append(valid, now)
	return domain.GuardResult{Allowed: true}
}

// RedisRateLimiter is a sliding window limiter backed by a Redis sorted set,
// so the limit holds across API replicas.
type RedisRateLimiter struct {
	client   *redis.Client
	fallback *RateLimiter
	limit    int
	window   time.Duration
}

// NewRedisRateLimiter creates a Redis-backed limiter. When client is nil the
// in-memory limiter is used directly.
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) SubmitLimiter {
	fallback := NewRateLimiter(limit, window)
	if client == nil {
		return fallback
	}
	return &RedisRateLimiter{client: client, fallback: fallback, limit: limit, window: window}
}

// Check counts submissions in the window via ZREMRANGEBYSCORE/ZADD/ZCARD in
// one MULTI/EXEC pipeline: the attempt is recorded and counted atomically, so
// concurrent submissions from API replicas cannot all slip under the limit.
// Redis errors fall back to the in-memory limiter rather than failing open.
func (rl *RedisRateLimiter) Check(ctx context.Context, key string) domain.GuardResult {
	redisKey := "zarena:ratelimit:" + key
	now := time.Now()
	cutoff := strconv.FormatInt(now.Add(-rl.window).UnixNano(), 10)
	member := strconv.FormatInt(now.UnixNano(), 10)

	pipe := rl.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", cutoff)
	addCmd := pipe.ZAdd(ctx, redisKey, &redis.Z{Score: float64(now.UnixNano()), Member: member})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return rl.fallback.Check(ctx, key)
	}
	if err := addCmd.Err(); err != nil {
		return rl.fallback.Check(ctx, key)
	}

	// The count includes the member just added.
	if countCmd.Val() > int64(rl.limit) {
		// Denied attempts do not consume window capacity, matching the
		// in-memory limiter.
		rl.client.ZRem(ctx, redisKey, member)
		return domain.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("rate limit exceeded: %d/%s", rl.limit, rl.window),
			Guard:   "rate_limiter",
		}
	}
	return domain.GuardResult{Allowed: true}
}
