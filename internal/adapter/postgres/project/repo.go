// Package project reads installation projects for dashboard snapshots.
package project

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/domain"
)

var columns = []string{
	"id", "client_id", "installer_id", "name", "address", "status",
	"capacity_kw", "created_at", "updated_at",
}

// Repo provides project persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new project repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListByScope returns the projects visible to scope, newest first.
func (r *Repo) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Project, error) {
	b := postgres.Builder().
		Select(columns...).
		From("projects").
		OrderBy("created_at DESC", "id")
	b = postgres.Scoped(b, scope, "")

	projects, err := postgres.Select[domain.Project](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list projects for %s: %w", scope.Key(), err)
	}
	return projects, nil
}
