// Package kpi computes dashboard KPI aggregates in a single round trip.
package kpi

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/solarsync/internal/adapter/postgres"
	"github.com/heartmarshall/solarsync/internal/domain"
)

// Repo computes KPI aggregates backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new KPI repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Summary returns the aggregates for scope.
func (r *Repo) Summary(ctx context.Context, scope domain.Scope) (domain.KPISummary, error) {
	// Subqueries use ? placeholders; the outer dollar builder renumbers them.
	scoped := func(b sq.SelectBuilder) sq.SelectBuilder { return postgres.Scoped(b, scope, "") }

	projectsTotal := scoped(sq.Select("count(*)").From("projects"))
	projectsActive := scoped(sq.Select("count(*)").From("projects").
		Where(sq.Eq{"status": []string{string(domain.ProjectStatusContracted), string(domain.ProjectStatusInstalling)}}))
	quotesPending := scoped(sq.Select("count(*)").From("quotes").
		Where(sq.Eq{"status": string(domain.QuoteStatusSent)}))
	quotesAccepted := scoped(sq.Select("count(*)").From("quotes").
		Where(sq.Eq{"status": string(domain.QuoteStatusAccepted)}))
	contractsSigned := scoped(sq.Select("count(*)").From("contracts").
		Where(sq.NotEq{"signed_at": nil}))
	collected := scoped(sq.Select("COALESCE(sum(amount), 0)").From("payments").
		Where(sq.Eq{"status": string(domain.PaymentStatusCompleted)}))
	outstanding := scoped(sq.Select("COALESCE(sum(amount), 0)").From("payment_milestones").
		Where(sq.Eq{"status": string(domain.MilestoneStatusPending)}))

	b := postgres.Builder().Select().
		Column(sq.Alias(projectsTotal, "projects_total")).
		Column(sq.Alias(projectsActive, "projects_active")).
		Column(sq.Alias(quotesPending, "quotes_pending")).
		Column(sq.Alias(quotesAccepted, "quotes_accepted")).
		Column(sq.Alias(contractsSigned, "contracts_signed")).
		Column(sq.Alias(collected, "collected")).
		Column(sq.Alias(outstanding, "outstanding"))

	s, err := postgres.Get[domain.KPISummary](ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return domain.KPISummary{}, fmt.Errorf("kpi summary for %s: %w", scope.Key(), err)
	}
	return s, nil
}
