package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solarsync/internal/domain"
)

const activityKind = "payment"

// RecordIntent stores a new provider payment intent for a milestone together
// with its activity entry.
func (s *Service) RecordIntent(ctx context.Context, input RecordIntentInput) (domain.Payment, error) {
	if err := input.Validate(); err != nil {
		return domain.Payment{}, err
	}

	milestone, err := s.milestones.GetByID(ctx, input.MilestoneID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("get milestone: %w", err)
	}
	if milestone.Status != domain.MilestoneStatusPending {
		return domain.Payment{}, domain.NewValidationError("milestone_id",
			fmt.Sprintf("milestone is %s", milestone.Status))
	}

	now := s.now()
	id := uuid.New()
	providerStatus := strings.TrimSpace(input.ProviderStatus)
	p := domain.Payment{
		ID:               id,
		MilestoneID:      milestone.ID,
		ProjectID:        milestone.ProjectID,
		ClientID:         milestone.ClientID,
		InstallerID:      milestone.InstallerID,
		ProviderIntentID: strings.TrimSpace(input.ProviderIntentID),
		ProviderStatus:   providerStatus,
		Status:           s.mapStatus(ctx, id, providerStatus),
		Amount:           input.Amount,
		Currency:         strings.ToUpper(strings.TrimSpace(input.Currency)),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var created domain.Payment
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var txErr error
		created, txErr = s.payments.Create(ctx, p)
		if txErr != nil {
			return fmt.Errorf("create payment: %w", txErr)
		}
		return s.activity.Create(ctx, paymentActivity(created,
			fmt.Sprintf("Payment of %s %s started for %q", created.Amount.StringFixed(2), created.Currency, milestone.Title),
			now))
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.log.InfoContext(ctx, "payment intent recorded",
		slog.String("payment_id", created.ID.String()),
		slog.String("milestone_id", created.MilestoneID.String()),
		slog.String("status", string(created.Status)),
	)
	return created, nil
}

// UpdateProviderStatus stores a provider status change and its mapped
// internal status. Repeating the current provider status is a no-op, so
// replayed webhooks do not add activity entries.
func (s *Service) UpdateProviderStatus(ctx context.Context, input UpdateStatusInput) (domain.Payment, error) {
	if err := input.Validate(); err != nil {
		return domain.Payment{}, err
	}
	providerStatus := strings.TrimSpace(input.ProviderStatus)

	var (
		updated domain.Payment
		changed bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.payments.GetByID(ctx, input.PaymentID)
		if err != nil {
			return fmt.Errorf("get payment: %w", err)
		}
		if current.ProviderStatus == providerStatus {
			updated = current
			return nil
		}

		status := s.mapStatus(ctx, current.ID, providerStatus)
		now := s.now()
		updated, err = s.payments.UpdateStatus(ctx, current.ID, providerStatus, status, now)
		if err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}
		changed = true

		if status == current.Status {
			return nil
		}
		return s.activity.Create(ctx, paymentActivity(updated,
			fmt.Sprintf("Payment of %s %s is now %s", updated.Amount.StringFixed(2), updated.Currency, status),
			now))
	})
	if err != nil {
		return domain.Payment{}, err
	}

	if changed {
		s.log.InfoContext(ctx, "payment status updated",
			slog.String("payment_id", updated.ID.String()),
			slog.String("provider_status", updated.ProviderStatus),
			slog.String("status", string(updated.Status)),
		)
	}
	return updated, nil
}

func paymentActivity(p domain.Payment, message string, at time.Time) domain.ActivityEntry {
	return domain.ActivityEntry{
		ID:          uuid.New(),
		ClientID:    &p.ClientID,
		InstallerID: &p.InstallerID,
		ProjectID:   &p.ProjectID,
		Kind:        activityKind,
		Message:     message,
		CreatedAt:   at,
	}
}
