// Package milestone implements the payment milestone repository.
package milestone

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/domain"
)

var columns = []string{
	"id", "project_id", "client_id", "installer_id", "title", "amount",
	"currency", "due_date", "status", "created_at",
}

// Repo provides milestone persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new milestone repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListByScope returns the milestones visible to scope ordered by due date.
func (r *Repo) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Milestone, error) {
	b := postgres.Builder().
		Select(columns...).
		From("payment_milestones").
		OrderBy("due_date ASC", "id")
	b = postgres.Scoped(b, scope, "")

	milestones, err := postgres.Select[domain.Milestone](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list milestones for %s: %w", scope.Key(), err)
	}
	return milestones, nil
}

// ListOverdue returns pending milestones whose due date is before asOf,
// oldest first.
func (r *Repo) ListOverdue(ctx context.Context, scope domain.Scope, asOf time.Time) ([]domain.Milestone, error) {
	b := postgres.Builder().
		Select(columns...).
		From("payment_milestones").
		Where(sq.Eq{"status": string(domain.MilestoneStatusPending)}).
		Where(sq.Lt{"due_date": asOf.UTC().Format(time.DateOnly)}).
		OrderBy("due_date ASC", "id")
	b = postgres.Scoped(b, scope, "")

	milestones, err := postgres.Select[domain.Milestone](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list overdue milestones for %s: %w", scope.Key(), err)
	}
	return milestones, nil
}

// GetByID returns a single milestone.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Milestone, error) {
	b := postgres.Builder().
		Select(columns...).
		From("payment_milestones").
		Where(sq.Eq{"id": id})

	m, err := postgres.Get[domain.Milestone](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return domain.Milestone{}, postgres.MapError(err, "payment_milestone", id)
	}
	return m, nil
}
