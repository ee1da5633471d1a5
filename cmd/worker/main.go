package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"smart-parking/internal/handler/middleware"
	"smart-parking/internal/infra/db"
	"smart-parking/internal/infra/queue"
	"smart-parking/internal/infra/repository"
	"smart-parking/internal/pkg/config"

	"github.com/joho/godotenv"
)

// Outbox relay: drains unpublished booking events from Postgres into
// RabbitMQ. Runs as its own process so the API server never blocks on
// the broker.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	pool, dbCleanup, err := db.Connect(cfg.DB)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbCleanup()

	publisher, pubCleanup, err := queue.NewPublisher(cfg.AMQP)
	if err != nil {
		logger.Error("failed to connect to broker", "error", err)
		os.Exit(1)
	}
	defer pubCleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relay := queue.NewRelay(repository.NewOutboxRepository(pool), publisher, cfg.AMQP.PollEvery)

	logger.Info("starting outbox relay", "queue", cfg.AMQP.Queue, "poll_interval", cfg.AMQP.PollEvery)
	relay.Run(ctx)
	logger.Info("outbox relay stopped")
}
