package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Alert is derived on every scan and never stored.
type Alert struct {
	ID              string    `json:"id"`
	Type            AlertType `json:"type"`
	Severity        Severity  `json:"severity"`
	Message         string    `json:"message"`
	Timestamp       time.Time `json:"timestamp"`
	RelatedEntityID uuid.UUID `json:"related_entity_id"`
}

// Metric is one KPI tile on a dashboard.
type Metric struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// KPISummary holds the raw aggregates behind the metric tiles.
type KPISummary struct {
	ProjectsTotal   int64           `db:"projects_total"`
	ProjectsActive  int64           `db:"projects_active"`
	QuotesPending   int64           `db:"quotes_pending"`
	QuotesAccepted  int64           `db:"quotes_accepted"`
	ContractsSigned int64           `db:"contracts_signed"`
	Collected       decimal.Decimal `db:"collected"`
	Outstanding     decimal.Decimal `db:"outstanding"`
}
