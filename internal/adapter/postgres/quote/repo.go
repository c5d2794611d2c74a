// Package quote reads installer quotes.
package quote

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/domain"
)

var columns = []string{
	"id", "project_id", "client_id", "installer_id", "status", "total",
	"currency", "system_size_kw", "valid_until", "created_at", "updated_at",
}

// Repo provides quote persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quote repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListByScope returns the quotes visible to scope, newest first.
func (r *Repo) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Quote, error) {
	b := postgres.Builder().
		Select(columns...).
		From("quotes").
		OrderBy("created_at DESC", "id")
	b = postgres.Scoped(b, scope, "")

	quotes, err := postgres.Select[domain.Quote](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list quotes for %s: %w", scope.Key(), err)
	}
	return quotes, nil
}
