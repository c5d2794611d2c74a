// Package dispute reads payment disputes.
package dispute

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/domain"
)

// Repo provides dispute reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new dispute repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListOpen returns the open disputes visible to scope, oldest first.
func (r *Repo) ListOpen(ctx context.Context, scope domain.Scope) ([]domain.Dispute, error) {
	b := postgres.Builder().
		Select("id", "payment_id", "client_id", "installer_id", "reason", "status", "amount", "created_at").
		From("disputes").
		Where(sq.Eq{"status": string(domain.DisputeStatusOpen)}).
		OrderBy("created_at ASC", "id")
	b = postgres.Scoped(b, scope, "")

	disputes, err := postgres.Select[domain.Dispute](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list open disputes for %s: %w", scope.Key(), err)
	}
	return disputes, nil
}
