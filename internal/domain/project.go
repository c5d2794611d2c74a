package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Project is an installation project shared by a client and an installer.
type Project struct {
	ID          uuid.UUID       `db:"id"           json:"id"`
	ClientID    uuid.UUID       `db:"client_id"    json:"client_id"`
	InstallerID *uuid.UUID      `db:"installer_id" json:"installer_id,omitempty"`
	Name        string          `db:"name"         json:"name"`
	Address     string          `db:"address"      json:"address"`
	Status      ProjectStatus   `db:"status"       json:"status"`
	CapacityKW  decimal.Decimal `db:"capacity_kw"  json:"capacity_kw"`
	CreatedAt   time.Time       `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"   json:"updated_at"`
}

// Quote is an installer's priced offer for a project.
type Quote struct {
	ID           uuid.UUID       `db:"id"             json:"id"`
	ProjectID    uuid.UUID       `db:"project_id"     json:"project_id"`
	ClientID     uuid.UUID       `db:"client_id"      json:"client_id"`
	InstallerID  uuid.UUID       `db:"installer_id"   json:"installer_id"`
	Status       QuoteStatus     `db:"status"         json:"status"`
	Total        decimal.Decimal `db:"total"          json:"total"`
	Currency     string          `db:"currency"       json:"currency"`
	SystemSizeKW decimal.Decimal `db:"system_size_kw" json:"system_size_kw"`
	ValidUntil   *time.Time      `db:"valid_until"    json:"valid_until,omitempty"`
	CreatedAt    time.Time       `db:"created_at"     json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"     json:"updated_at"`
}

// ActivityEntry is one line of the activity feed.
type ActivityEntry struct {
	ID          uuid.UUID  `db:"id"           json:"id"`
	ClientID    *uuid.UUID `db:"client_id"    json:"client_id,omitempty"`
	InstallerID *uuid.UUID `db:"installer_id" json:"installer_id,omitempty"`
	ProjectID   *uuid.UUID `db:"project_id"   json:"project_id,omitempty"`
	Kind        string     `db:"kind"         json:"kind"`
	Message     string     `db:"message"      json:"message"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
}
