// Command cleanup removes processed provider webhook log rows older than the
// retention period. It is meant for an external cron job, not an in-process
// goroutine: the webhook scanner only looks at recent rows, so old processed
// ones are dead weight.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/adapter/postgres/webhook"
	"github.com/heartmarshall/solarsync/internal/app"
	"github.com/heartmarshall/solarsync/internal/config"
)

type webhookLog interface {
	DeleteProcessedBefore(ctx context.Context, threshold time.Time) (int64, error)
}

func main() {
	days := flag.Int("days", 0, "retention in days (overrides retention.webhook_log_days)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	retention := cfg.Retention.WebhookLogDays
	if *days != 0 {
		retention = *days
	}

	if err := run(cfg, retention, logger); err != nil {
		logger.Error("webhook log cleanup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, retention int, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	_, err = cleanup(ctx, webhook.New(pool), retention, time.Now(), logger)
	return err
}

// cleanup deletes processed rows older than retention days before now.
func cleanup(ctx context.Context, repo webhookLog, retention int, now time.Time, logger *slog.Logger) (int64, error) {
	if retention < 1 {
		return 0, fmt.Errorf("retention must be at least one day (got %d)", retention)
	}
	threshold := now.AddDate(0, 0, -retention)

	deleted, err := repo.DeleteProcessedBefore(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("delete before %s: %w", threshold.Format(time.RFC3339), err)
	}

	logger.InfoContext(ctx, "webhook log cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("threshold", threshold),
	)
	return deleted, nil
}
