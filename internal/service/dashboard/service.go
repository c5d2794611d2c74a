package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/poller"
	"github.com/heartmarshall/solarsync/internal/realtime"
	"github.com/heartmarshall/solarsync/internal/reconcile"
)

type projectRepo interface {
	ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Project, error)
}

type quoteRepo interface {
	ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Quote, error)
}

type milestoneRepo interface {
	ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Milestone, error)
	ListOverdue(ctx context.Context, scope domain.Scope, asOf time.Time) ([]domain.Milestone, error)
}

type paymentRepo interface {
	ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Payment, error)
}

type activityRepo interface {
	ListRecent(ctx context.Context, scope domain.Scope, limit int) ([]domain.ActivityEntry, error)
}

type webhookRepo interface {
	ListUnprocessed(ctx context.Context, limit int) ([]domain.WebhookLogEntry, error)
}

type disputeRepo interface {
	ListOpen(ctx context.Context, scope domain.Scope) ([]domain.Dispute, error)
}

type kpiRepo interface {
	Summary(ctx context.Context, scope domain.Scope) (domain.KPISummary, error)
}

// Repos groups the read side used by dashboard sessions.
type Repos struct {
	Projects   projectRepo
	Quotes     quoteRepo
	Milestones milestoneRepo
	Payments   paymentRepo
	Activity   activityRepo
	Webhooks   webhookRepo
	Disputes   disputeRepo
	KPI        kpiRepo
}

// Observer receives metrics from every component of a session.
type Observer interface {
	reconcile.Observer
	poller.Observer
	MapperFallback(path string)
	SessionOpened()
	SessionClosed()
}

type nopObserver struct{}

func (nopObserver) Merged(string, string, reconcile.Outcome)        {}
func (nopObserver) FetchFailed(string)                              {}
func (nopObserver) Resubscribed(string, string)                     {}
func (nopObserver) Ticked(string, poller.TickOutcome, time.Duration) {}
func (nopObserver) MapperFallback(string)                           {}
func (nopObserver) SessionOpened()                                  {}
func (nopObserver) SessionClosed()                                  {}

const (
	DefaultFeedLimit            = 50
	DefaultWebhookStaleAfter    = time.Hour
	DefaultOverdueCriticalAfter = 7 * 24 * time.Hour
	DefaultWebhookAlertLimit    = 100
)

// Config tunes every session opened by a Service. Zero values take the
// package defaults and those of reconcile and poller.
type Config struct {
	FeedLimit      int
	FetchTimeout   time.Duration
	ResyncInterval time.Duration
	// Backoff builds the resubscribe policy of each reconciler and of the
	// scanners' trigger feeds.
	Backoff func() backoff.BackOff

	AlertsInterval       time.Duration
	MetricsInterval      time.Duration
	WebhookStaleAfter    time.Duration
	OverdueCriticalAfter time.Duration
	WebhookAlertLimit    int
}

func (c Config) withDefaults() Config {
	if c.FeedLimit <= 0 {
		c.FeedLimit = DefaultFeedLimit
	}
	if c.WebhookStaleAfter <= 0 {
		c.WebhookStaleAfter = DefaultWebhookStaleAfter
	}
	if c.OverdueCriticalAfter <= 0 {
		c.OverdueCriticalAfter = DefaultOverdueCriticalAfter
	}
	if c.WebhookAlertLimit <= 0 {
		c.WebhookAlertLimit = DefaultWebhookAlertLimit
	}
	return c
}

// Service opens dashboard sessions.
type Service struct {
	source realtime.Source
	repos  Repos
	cfg    Config
	obs    Observer
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a dashboard service. obs may be nil.
func NewService(
	log *slog.Logger,
	source realtime.Source,
	repos Repos,
	cfg Config,
	obs Observer,
) *Service {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Service{
		source: source,
		repos:  repos,
		cfg:    cfg.withDefaults(),
		obs:    obs,
		log:    log.With("service", "dashboard"),
		now:    time.Now,
	}
}
