package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/handler"
	"github.com/zarena/platform/internal/infra"
	"github.com/zarena/platform/internal/projection"
)

// outbox-consumer subscribes to the platform event topics, maintains the
// balance read model from wallet events, and serves that read model over a
// small query endpoint. It is also the reference consumer for downstream
// integrations (notifications, analytics).
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("outbox consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.KafkaEnabled {
		return fmt.Errorf("KAFKA_ENABLED must be true for the outbox consumer")
	}

	groupID := os.Getenv("CONSUMER_GROUP_ID")
	if groupID == "" {
		groupID = "zarena-outbox-consumer"
	}

	var store projection.Store = projection.NewInMemoryStore()
	if redisClient := infra.NewRedisClient(cfg, logger); redisClient != nil {
		defer redisClient.Close()
		store = projection.NewRedisStore(redisClient)
	}

	aggregates := []domain.AggregateType{
		domain.AggregateUser,
		domain.AggregateWallet,
		domain.AggregateRequest,
		domain.AggregateRates,
		domain.AggregateTournament,
		domain.AggregateShop,
	}

	var wg sync.WaitGroup
	for _, agg := range aggregates {
		topic := "zarena." + string(agg)
		consumer := infra.NewKafkaConsumer(cfg.KafkaBrokers, topic, groupID, true, logger)
		defer consumer.Close()

		wg.Add(1)
		go func(topic string, c *infra.KafkaConsumer) {
			defer wg.Done()
			consume(ctx, topic, c, store, logger)
		}(topic, consumer)
	}

	// Query surface for the projections this process maintains.
	queryAddr := os.Getenv("PROJECTION_ADDR")
	if queryAddr == "" {
		queryAddr = ":3201"
	}
	srv := &http.Server{
		Addr:         queryAddr,
		Handler:      handler.NewProjectionHandler(store).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("projection query server starting", "addr", queryAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("projection query server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("outbox-consumer started", "brokers", cfg.KafkaBrokers, "group_id", groupID, "topics", len(aggregates))
	wg.Wait()
	logger.Info("outbox-consumer stopped")
	return nil
}

type eventEnvelope struct {
	EventID       string          `json:"event_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    string          `json:"occurred_at"`
}

func consume(ctx context.Context, topic string, c *infra.KafkaConsumer, store projection.Store, logger *slog.Logger) {
	for {
		msg, err := c.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("read message failed", "topic", topic, "error", err)
			continue
		}

		var envelope eventEnvelope
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			logger.Error("malformed event", "topic", topic, "offset", msg.Offset, "error", err)
			continue
		}

		logger.Info("event received",
			"topic", topic,
			"event_id", envelope.EventID,
			"event_type", envelope.EventType,
			"aggregate_id", envelope.AggregateID,
			"occurred_at", envelope.OccurredAt,
		)

		if envelope.EventType == string(domain.EventTransactionPosted) {
			var tx domain.Transaction
			if err := json.Unmarshal(envelope.Payload, &tx); err != nil {
				// The aggregate_id of a wallet event is the user ID. Drop the
				// cached balance rather than keep serving one we can no longer
				// keep current.
				logger.Error("malformed transaction payload", "event_id", envelope.EventID, "error", err)
				if err := projection.InvalidateBalance(ctx, store, envelope.AggregateID); err != nil {
					logger.Error("balance invalidation failed", "user_id", envelope.AggregateID, "error", err)
				}
				continue
			}
			if err := projection.ApplyTransaction(ctx, store, &tx); err != nil {
				logger.Error("balance projection update failed", "user_id", tx.UserID, "error", err)
			}
		}
	}
}
