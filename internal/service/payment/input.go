package payment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solarsync/internal/domain"
)

// RecordIntentInput holds the parameters for recording a provider payment
// intent against a milestone.
type RecordIntentInput struct {
	MilestoneID      uuid.UUID
	ProviderIntentID string
	ProviderStatus   string
	Amount           decimal.Decimal
	Currency         string
}

// Validate checks all fields and collects all errors.
func (i RecordIntentInput) Validate() error {
	var errs []domain.FieldError

	if i.MilestoneID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "milestone_id", Message: "required"})
	}
	intent := strings.TrimSpace(i.ProviderIntentID)
	if intent == "" {
		errs = append(errs, domain.FieldError{Field: "provider_intent_id", Message: "required"})
	}
	if len(intent) > 255 {
		errs = append(errs, domain.FieldError{Field: "provider_intent_id", Message: "max 255 characters"})
	}
	if strings.TrimSpace(i.ProviderStatus) == "" {
		errs = append(errs, domain.FieldError{Field: "provider_status", Message: "required"})
	}
	if !i.Amount.IsPositive() {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "must be positive"})
	}
	if len(strings.TrimSpace(i.Currency)) != 3 {
		errs = append(errs, domain.FieldError{Field: "currency", Message: "must be a 3-letter code"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateStatusInput holds a provider status change for a payment.
type UpdateStatusInput struct {
	PaymentID      uuid.UUID
	ProviderStatus string
}

// Validate checks all fields and collects all errors.
func (i UpdateStatusInput) Validate() error {
	var errs []domain.FieldError
	if i.PaymentID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "payment_id", Message: "required"})
	}
	if strings.TrimSpace(i.ProviderStatus) == "" {
		errs = append(errs, domain.FieldError{Field: "provider_status", Message: "required"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
