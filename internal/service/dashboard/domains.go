package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/payment"
	"github.com/heartmarshall/solarsync/internal/poller"
	"github.com/heartmarshall/solarsync/internal/realtime"
	"github.com/heartmarshall/solarsync/internal/reconcile"
)

// Domain names one dashboard data set.
type Domain string

const (
	DomainProjects   Domain = "projects"
	DomainQuotes     Domain = "quotes"
	DomainMilestones Domain = "milestones"
	DomainPayments   Domain = "payments"
	DomainActivity   Domain = "activity"
	DomainAlerts     Domain = "alerts"
	DomainMetrics    Domain = "metrics"
)

// Domains lists every domain in display order.
var Domains = []Domain{
	DomainProjects,
	DomainQuotes,
	DomainMilestones,
	DomainPayments,
	DomainActivity,
	DomainAlerts,
	DomainMetrics,
}

// ParseDomain validates a domain name.
func ParseDomain(s string) (Domain, error) {
	for _, d := range Domains {
		if string(d) == s {
			return d, nil
		}
	}
	return "", domain.NewValidationError("domain", fmt.Sprintf("unknown dashboard domain %q", s))
}

// Tables feeding the dashboard.
const (
	tableProjects   = "projects"
	tableQuotes     = "quotes"
	tableContracts  = "contracts"
	tableMilestones = "payment_milestones"
	tablePayments   = "payments"
	tableWebhookLog = "provider_webhook_log"
	tableDisputes   = "disputes"
	tableActivity   = "activity_log"
)

func newestFirst[T any](createdAt func(T) int64) func(a, b T) bool {
	return func(a, b T) bool { return createdAt(a) > createdAt(b) }
}

func (s *Service) reconcilerConfig(name Domain) reconcileDefaults {
	return reconcileDefaults{
		name:   string(name),
		source: s.source,
		cfg:    s.cfg,
		obs:    s.obs,
		log:    s.log,
	}
}

// reconcileDefaults carries the settings shared by every reconciler of a
// session.
type reconcileDefaults struct {
	name   string
	source realtime.Source
	cfg    Config
	obs    Observer
	log    *slog.Logger
}

func newReconciler[T any](d reconcileDefaults, cfg reconcile.Config[T]) (*reconcile.Reconciler[T], error) {
	cfg.Name = d.name
	cfg.FetchTimeout = d.cfg.FetchTimeout
	cfg.ResyncInterval = d.cfg.ResyncInterval
	cfg.Backoff = d.cfg.Backoff
	cfg.Logger = d.log
	cfg.Observer = d.obs
	return reconcile.New(d.source, cfg)
}

func (s *Service) newProjects() (*reconcile.Reconciler[domain.Project], error) {
	return newReconciler(s.reconcilerConfig(DomainProjects), reconcile.Config[domain.Project]{
		Bindings: []reconcile.Binding[domain.Project]{
			{Table: tableProjects, Mode: reconcile.PayloadPartial},
		},
		Fetch: s.repos.Projects.ListByScope,
		Key:   func(p domain.Project) string { return p.ID.String() },
		Less:  newestFirst(func(p domain.Project) int64 { return p.CreatedAt.UnixNano() }),
	})
}

func (s *Service) newQuotes() (*reconcile.Reconciler[domain.Quote], error) {
	return newReconciler(s.reconcilerConfig(DomainQuotes), reconcile.Config[domain.Quote]{
		Bindings: []reconcile.Binding[domain.Quote]{{Table: tableQuotes}},
		Fetch:    s.repos.Quotes.ListByScope,
		Key:      func(q domain.Quote) string { return q.ID.String() },
		Less:     newestFirst(func(q domain.Quote) int64 { return q.CreatedAt.UnixNano() }),
	})
}

func (s *Service) newMilestones() (*reconcile.Reconciler[domain.Milestone], error) {
	return newReconciler(s.reconcilerConfig(DomainMilestones), reconcile.Config[domain.Milestone]{
		Bindings: []reconcile.Binding[domain.Milestone]{{Table: tableMilestones}},
		Fetch:    s.repos.Milestones.ListByScope,
		Key:      func(m domain.Milestone) string { return m.ID.String() },
		Less:     func(a, b domain.Milestone) bool { return a.DueDate.Before(b.DueDate) },
	})
}

func (s *Service) newPayments() (*reconcile.Reconciler[domain.Payment], error) {
	return newReconciler(s.reconcilerConfig(DomainPayments), reconcile.Config[domain.Payment]{
		Bindings: []reconcile.Binding[domain.Payment]{
			{Table: tablePayments, Normalize: s.mapPaymentStatus},
		},
		Fetch: func(ctx context.Context, scope domain.Scope) ([]domain.Payment, error) {
			items, err := s.repos.Payments.ListByScope(ctx, scope)
			if err != nil {
				return nil, err
			}
			for i := range items {
				items[i] = s.mapPaymentStatus(items[i])
			}
			return items, nil
		},
		Key:  func(p domain.Payment) string { return p.ID.String() },
		Less: newestFirst(func(p domain.Payment) int64 { return p.CreatedAt.UnixNano() }),
	})
}

// mapPaymentStatus derives the internal status from the provider status on
// every payment that enters a snapshot.
func (s *Service) mapPaymentStatus(p domain.Payment) domain.Payment {
	if p.ProviderStatus == "" {
		return p
	}
	status, known := payment.Lookup(p.ProviderStatus)
	if !known {
		s.obs.MapperFallback("event")
		s.log.Warn("unknown provider status",
			slog.String("payment_id", p.ID.String()),
			slog.String("provider_status", p.ProviderStatus),
			slog.String("mapped_to", string(status)),
		)
	}
	p.Status = status
	return p
}

func (s *Service) newActivity() (*reconcile.Reconciler[domain.ActivityEntry], error) {
	limit := s.cfg.FeedLimit
	return newReconciler(s.reconcilerConfig(DomainActivity), reconcile.Config[domain.ActivityEntry]{
		Bindings: []reconcile.Binding[domain.ActivityEntry]{{Table: tableActivity}},
		Fetch: func(ctx context.Context, scope domain.Scope) ([]domain.ActivityEntry, error) {
			return s.repos.Activity.ListRecent(ctx, scope, limit)
		},
		Key:   func(e domain.ActivityEntry) string { return e.ID.String() },
		Less:  newestFirst(func(e domain.ActivityEntry) int64 { return e.CreatedAt.UnixNano() }),
		Limit: limit,
	})
}

func (s *Service) newAlerts() (*poller.Scanner[domain.Alert], error) {
	return poller.New(poller.Config[domain.Alert]{
		Name:     string(DomainAlerts),
		Interval: s.cfg.AlertsInterval,
		Queries: []poller.Query[domain.Alert]{
			{Name: "overdue_milestones", Run: s.overdueMilestoneAlerts},
			{Name: "unprocessed_webhooks", Run: s.unprocessedWebhookAlerts},
			{Name: "open_disputes", Run: s.openDisputeAlerts},
		},
		Backoff:  s.cfg.Backoff,
		Logger:   s.log,
		Observer: s.obs,
		Now:      s.now,
	})
}

func (s *Service) newMetrics() (*poller.Scanner[domain.Metric], error) {
	return poller.New(poller.Config[domain.Metric]{
		Name:     string(DomainMetrics),
		Interval: s.cfg.MetricsInterval,
		Queries: []poller.Query[domain.Metric]{
			{Name: "kpi_summary", Run: s.kpiTiles},
		},
		Backoff:  s.cfg.Backoff,
		Logger:   s.log,
		Observer: s.obs,
		Now:      s.now,
	})
}

// scopedTopic subscribes to every change of table visible to scope.
func scopedTopic(table string, scope domain.Scope) realtime.Topic {
	t := realtime.Topic{Table: table, Event: realtime.OpAll}
	if !scope.Role.IsAdmin() {
		t.Filter = realtime.Eq(scope.Column(), scope.UserID.String())
	}
	return t
}

// alertTriggers are the tables whose changes re-run the alert queries.
func alertTriggers(scope domain.Scope) []realtime.Topic {
	topics := []realtime.Topic{
		scopedTopic(tableMilestones, scope),
		scopedTopic(tableDisputes, scope),
	}
	if scope.Role.IsAdmin() {
		topics = append(topics, scopedTopic(tableWebhookLog, scope))
	}
	return topics
}

// metricTriggers are the tables whose changes re-run the KPI query.
func metricTriggers(scope domain.Scope) []realtime.Topic {
	return []realtime.Topic{
		scopedTopic(tableProjects, scope),
		scopedTopic(tableQuotes, scope),
		scopedTopic(tableContracts, scope),
		scopedTopic(tablePayments, scope),
		scopedTopic(tableMilestones, scope),
	}
}
