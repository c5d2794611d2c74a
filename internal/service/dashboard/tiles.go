package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solarsync/internal/domain"
)

// kpiTiles turns the KPI aggregates into metric tiles in display order.
func (s *Service) kpiTiles(ctx context.Context, scope domain.Scope) ([]domain.Metric, error) {
	sum, err := s.repos.KPI.Summary(ctx, scope)
	if err != nil {
		return nil, err
	}
	return []domain.Metric{
		{Key: "projects_total", Label: "Projects", Value: decimal.NewFromInt(sum.ProjectsTotal)},
		{Key: "projects_active", Label: "Active installs", Value: decimal.NewFromInt(sum.ProjectsActive)},
		{Key: "quotes_pending", Label: "Quotes awaiting answer", Value: decimal.NewFromInt(sum.QuotesPending)},
		{Key: "quotes_accepted", Label: "Quotes accepted", Value: decimal.NewFromInt(sum.QuotesAccepted)},
		{Key: "contracts_signed", Label: "Contracts signed", Value: decimal.NewFromInt(sum.ContractsSigned)},
		{Key: "collected", Label: "Collected", Value: sum.Collected},
		{Key: "outstanding", Label: "Outstanding", Value: sum.Outstanding},
	}, nil
}
