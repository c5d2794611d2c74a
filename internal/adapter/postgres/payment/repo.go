// Package payment implements the payments repository.
package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/domain"
)

var columns = []string{
	"id", "milestone_id", "project_id", "client_id", "installer_id",
	"provider_intent_id", "provider_status", "status", "amount", "currency",
	"created_at", "updated_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// Repo provides payment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new payment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByScope returns the payments visible to scope, newest first.
func (r *Repo) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Payment, error) {
	b := postgres.Builder().
		Select(columns...).
		From("payments").
		OrderBy("created_at DESC", "id")
	b = postgres.Scoped(b, scope, "")

	payments, err := postgres.Select[domain.Payment](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list payments for %s: %w", scope.Key(), err)
	}
	return payments, nil
}

// GetByID returns a single payment. Inside a transaction the row is locked
// until commit, so two provider updates of one payment apply in turn.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	b := postgres.Builder().
		Select(columns...).
		From("payments").
		Where(sq.Eq{"id": id})
	if postgres.InTx(ctx) {
		b = b.Suffix("FOR UPDATE")
	}

	p, err := postgres.Get[domain.Payment](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return domain.Payment{}, postgres.MapError(err, "payment", id)
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts p and returns the stored row.
func (r *Repo) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	b := postgres.Builder().
		Insert("payments").
		Columns(columns...).
		Values(
			p.ID, p.MilestoneID, p.ProjectID, p.ClientID, p.InstallerID,
			p.ProviderIntentID, p.ProviderStatus, string(p.Status), p.Amount, p.Currency,
			p.CreatedAt, p.UpdatedAt,
		).
		Suffix(returning)

	created, err := postgres.Returning[domain.Payment](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return domain.Payment{}, postgres.MapError(err, "payment", p.ID)
	}
	return created, nil
}

// UpdateStatus stores a provider status together with its mapped internal
// status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, providerStatus string, status domain.PaymentStatus, at time.Time) (domain.Payment, error) {
	b := postgres.Builder().
		Update("payments").
		Set("provider_status", providerStatus).
		Set("status", string(status)).
		Set("updated_at", at).
		Where(sq.Eq{"id": id}).
		Suffix(returning)

	updated, err := postgres.Returning[domain.Payment](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return domain.Payment{}, postgres.MapError(err, "payment", id)
	}
	return updated, nil
}
