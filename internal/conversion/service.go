package conversion

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// RateCache is a read-through cache for the current rate. A nil cache is a
// valid no-op.
type RateCache interface {
	Get(ctx context.Context) (float64, bool)
	Set(ctx context.Context, rate float64)
	Invalidate(ctx context.Context)
}

// Service resolves the current conversion rate and records rate changes.
type Service struct {
	db       repository.DBTX
	tx       repository.Transactor
	rates    repository.RateRepository
	outbox   repository.OutboxRepository
	cache    RateCache
	fallback float64
	logger   *slog.Logger
}

// NewService creates a conversion Service. cache may be nil.
func NewService(
	db repository.DBTX,
	tx repository.Transactor,
	rates repository.RateRepository,
	outbox repository.OutboxRepository,
	cache RateCache,
	fallback float64,
	logger *slog.Logger,
) *Service {
	if fallback <= 0 {
		fallback = DefaultRatePKR
	}
	return &Service{db: db, tx: tx, rates: rates, outbox: outbox, cache: cache, fallback: fallback, logger: logger}
}

// CurrentRate returns the most recently recorded rate. Lookup failures and
// absence of data degrade to the fallback rate rather than an error, so a
// usable number is always available; the IsFallback flag lets callers show
// the degradation instead of hiding it.
func (s *Service) CurrentRate(ctx context.Context) RateQuote {
	if s.cache != nil {
		if rate, ok := s.cache.Get(ctx); ok && rate > 0 {
			return RateQuote{Rate: rate}
		}
	}

	rate, err := s.rates.Latest(ctx, s.db)
	if err != nil {
		s.logger.Error("conversion rate lookup failed, using fallback", "error", err, "fallback", s.fallback)
		return RateQuote{Rate: s.fallback, IsFallback: true}
	}
	if rate == nil || rate.RatePKR <= 0 {
		return RateQuote{Rate: s.fallback, IsFallback: true}
	}

	if s.cache != nil {
		s.cache.Set(ctx, rate.RatePKR)
	}
	return RateQuote{Rate: rate.RatePKR}
}

// SetRate records a new rate (append, newest wins) and invalidates the cache.
func (s *Service) SetRate(ctx context.Context, adminID uuid.UUID, ratePKR float64) (*domain.ConversionRate, error) {
	if ratePKR <= 0 {
		return nil, domain.ErrValidation("rate must be positive")
	}

	rate := &domain.ConversionRate{
		ID:      uuid.New(),
		RatePKR: ratePKR,
		SetBy:   adminID,
	}
	err := s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		if err := s.rates.Insert(ctx, db, rate); err != nil {
			return domain.ErrInternal("record rate", err)
		}
		return s.outbox.Insert(ctx, db, domain.NewRateUpdatedEvent(rate.ID, adminID, ratePKR))
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.logger.Info("conversion rate updated", "rate_pkr", ratePKR, "set_by", adminID)
	return rate, nil
}

const rateCacheKey = "zarena:rates:current"

type redisRateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRateCache returns a Redis-backed RateCache, or nil when client is nil.
func NewRedisRateCache(client *redis.Client) RateCache {
	if client == nil {
		return nil
	}
	return &redisRateCache{client: client, ttl: 5 * time.Minute}
}

func (c *redisRateCache) Get(ctx context.Context) (float64, bool) {
	val, err := c.client.Get(ctx, rateCacheKey).Result()
	if err != nil {
		return 0, false
	}
	rate, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return rate, true
}

func (c *redisRateCache) Set(ctx context.Context, rate float64) {
	c.client.Set(ctx, rateCacheKey, strconv.FormatFloat(rate, 'f', -1, 64), c.ttl)
}

func (c *redisRateCache) Invalidate(ctx context.Context) {
	c.client.Del(ctx, rateCacheKey)
}
