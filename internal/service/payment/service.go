// Package payment records provider payment intents and their status
// changes. The internal status is always derived from the provider status
// through the shared mapper.
package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solarsync/internal/domain"
	mapper "github.com/heartmarshall/solarsync/internal/payment"
)

type milestoneRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Milestone, error)
}

type paymentRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	Create(ctx context.Context, p domain.Payment) (domain.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, providerStatus string, status domain.PaymentStatus, at time.Time) (domain.Payment, error)
}

type activityRepo interface {
	Create(ctx context.Context, e domain.ActivityEntry) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// fallbackObserver counts provider statuses the mapper did not recognize.
type fallbackObserver interface {
	MapperFallback(path string)
}

type nopObserver struct{}

func (nopObserver) MapperFallback(string) {}

// Service implements payment recording.
type Service struct {
	log        *slog.Logger
	milestones milestoneRepo
	payments   paymentRepo
	activity   activityRepo
	tx         txManager
	obs        fallbackObserver
	now        func() time.Time
}

// NewService creates a new payment service. obs may be nil.
func NewService(
	log *slog.Logger,
	milestones milestoneRepo,
	payments paymentRepo,
	activity activityRepo,
	tx txManager,
	obs fallbackObserver,
) *Service {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Service{
		log:        log.With("service", "payment"),
		milestones: milestones,
		payments:   payments,
		activity:   activity,
		tx:         tx,
		obs:        obs,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// mapStatus maps providerStatus and reports unknown values.
func (s *Service) mapStatus(ctx context.Context, paymentID uuid.UUID, providerStatus string) domain.PaymentStatus {
	status, known := mapper.Lookup(providerStatus)
	if !known {
		s.obs.MapperFallback("record")
		s.log.WarnContext(ctx, "unknown provider status",
			slog.String("payment_id", paymentID.String()),
			slog.String("provider_status", providerStatus),
			slog.String("mapped_to", string(status)),
		)
	}
	return status
}
