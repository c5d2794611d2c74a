// Package webhook reads the provider webhook log.
package webhook

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/domain"
)

// Repo provides webhook log reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new webhook log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListUnprocessed returns up to limit unprocessed entries, oldest first.
// The log is not tied to a client or installer, so it has no scope.
func (r *Repo) ListUnprocessed(ctx context.Context, limit int) ([]domain.WebhookLogEntry, error) {
	b := postgres.Builder().
		Select("id", "provider", "event_type", "processed", "created_at").
		From("provider_webhook_log").
		Where(sq.Eq{"processed": false}).
		OrderBy("created_at ASC", "id").
		Limit(uint64(max(limit, 1)))

	entries, err := postgres.Select[domain.WebhookLogEntry](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list unprocessed webhooks: %w", err)
	}
	return entries, nil
}

// DeleteProcessedBefore removes processed entries created before threshold
// and returns how many were removed. Unprocessed entries are never removed:
// they are what the stale-webhook alert reports on.
func (r *Repo) DeleteProcessedBefore(ctx context.Context, threshold time.Time) (int64, error) {
	query, args, err := postgres.Builder().
		Delete("provider_webhook_log").
		Where(sq.Eq{"processed": true}).
		Where(sq.Lt{"created_at": threshold}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build webhook delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete processed webhooks: %w", err)
	}
	return tag.RowsAffected(), nil
}
