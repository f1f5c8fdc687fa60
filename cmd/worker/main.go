// The worker binary publishes committed outbox events to Redis. It runs
// alongside the API so a broker outage never blocks admissions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sigemech/admission-api/config"
	"github.com/sigemech/admission-api/internal/repository/postgres"
	redisbroker "github.com/sigemech/admission-api/pkg/messaging/redis"
	"github.com/sigemech/admission-api/pkg/metrics"
	"github.com/sigemech/admission-api/pkg/worker"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "admission-worker").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewBroker(cfg.Redis.URL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:    cfg.Outbox.BatchSize,
			PollInterval: cfg.Outbox.PollInterval,
			MaxRetries:   cfg.Outbox.MaxRetries,
		},
		logger,
		metrics.NewMetrics("admission_worker"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go processor.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()
	logger.Info().Msg("worker stopped")
}
