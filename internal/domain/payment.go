package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Milestone is a scheduled payment on a project (deposit, installation, ...).
type Milestone struct {
	ID          uuid.UUID       `db:"id"           json:"id"`
	ProjectID   uuid.UUID       `db:"project_id"   json:"project_id"`
	ClientID    uuid.UUID       `db:"client_id"    json:"client_id"`
	InstallerID uuid.UUID       `db:"installer_id" json:"installer_id"`
	Title       string          `db:"title"        json:"title"`
	Amount      decimal.Decimal `db:"amount"       json:"amount"`
	Currency    string          `db:"currency"     json:"currency"`
	DueDate     time.Time       `db:"due_date"     json:"due_date"`
	Status      MilestoneStatus `db:"status"       json:"status"`
	CreatedAt   time.Time       `db:"created_at"   json:"created_at"`
}

// Payment is the internal record of a provider payment intent.
// ProviderStatus is stored verbatim; Status is always derived from it.
type Payment struct {
	ID               uuid.UUID       `db:"id"                 json:"id"`
	MilestoneID      uuid.UUID       `db:"milestone_id"       json:"milestone_id"`
	ProjectID        uuid.UUID       `db:"project_id"         json:"project_id"`
	ClientID         uuid.UUID       `db:"client_id"          json:"client_id"`
	InstallerID      uuid.UUID       `db:"installer_id"       json:"installer_id"`
	ProviderIntentID string          `db:"provider_intent_id" json:"provider_intent_id"`
	ProviderStatus   string          `db:"provider_status"    json:"provider_status"`
	Status           PaymentStatus   `db:"status"             json:"status"`
	Amount           decimal.Decimal `db:"amount"             json:"amount"`
	Currency         string          `db:"currency"           json:"currency"`
	CreatedAt        time.Time       `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"         json:"updated_at"`
}

// WebhookLogEntry is a row of the provider webhook log.
type WebhookLogEntry struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Provider  string    `db:"provider"   json:"provider"`
	EventType string    `db:"event_type" json:"event_type"`
	Processed bool      `db:"processed"  json:"processed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Dispute is a provider chargeback against a payment.
type Dispute struct {
	ID          uuid.UUID       `db:"id"           json:"id"`
	PaymentID   uuid.UUID       `db:"payment_id"   json:"payment_id"`
	ClientID    uuid.UUID       `db:"client_id"    json:"client_id"`
	InstallerID uuid.UUID       `db:"installer_id" json:"installer_id"`
	Reason      string          `db:"reason"       json:"reason"`
	Status      DisputeStatus   `db:"status"       json:"status"`
	Amount      decimal.Decimal `db:"amount"       json:"amount"`
	CreatedAt   time.Time       `db:"created_at"   json:"created_at"`
}
