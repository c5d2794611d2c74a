// Package activity implements the activity feed repository.
package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/domain"
)

var columns = []string{
	"id", "client_id", "installer_id", "project_id", "kind", "message", "created_at",
}

// Repo provides activity log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListRecent returns at most limit entries visible to scope, newest first.
func (r *Repo) ListRecent(ctx context.Context, scope domain.Scope, limit int) ([]domain.ActivityEntry, error) {
	b := postgres.Builder().
		Select(columns...).
		From("activity_log").
		OrderBy("created_at DESC", "id").
		Limit(uint64(max(limit, 1)))
	b = postgres.Scoped(b, scope, "")

	entries, err := postgres.Select[domain.ActivityEntry](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list activity for %s: %w", scope.Key(), err)
	}
	return entries, nil
}

// Create appends an entry to the log.
func (r *Repo) Create(ctx context.Context, e domain.ActivityEntry) error {
	query, args, err := postgres.Builder().
		Insert("activity_log").
		Columns(columns...).
		Values(e.ID, e.ClientID, e.InstallerID, e.ProjectID, e.Kind, e.Message, e.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build activity insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "activity", e.ID)
	}
	return nil
}
