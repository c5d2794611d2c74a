package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/poller"
	"github.com/heartmarshall/solarsync/internal/reconcile"
)

// component is the lifecycle shared by reconcilers and scanners.
type component interface {
	Name() string
	Start(ctx context.Context, scope domain.Scope) error
	Stop()
	Changes() <-chan struct{}
}

// Session is one mounted dashboard: an independent set of reconcilers and
// scanners for a single scope. Nothing is shared between sessions.
type Session struct {
	scope domain.Scope
	log   *slog.Logger
	obs   Observer

	projects   *reconcile.Reconciler[domain.Project]
	quotes     *reconcile.Reconciler[domain.Quote]
	milestones *reconcile.Reconciler[domain.Milestone]
	payments   *reconcile.Reconciler[domain.Payment]
	activity   *reconcile.Reconciler[domain.ActivityEntry]
	alerts     *poller.Scanner[domain.Alert]
	metrics    *poller.Scanner[domain.Metric]

	components []component
	opened     bool
	changes    chan Domain
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// Open starts the given domains for scope, or every domain when none are
// given, and returns once each has finished its initial load. Fetch
// failures do not fail Open; they show up in the affected domain's
// snapshot.
func (s *Service) Open(ctx context.Context, scope domain.Scope, domains ...Domain) (*Session, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		domains = Domains
	}

	sess, err := s.newSession(scope, domains)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range sess.components {
		g.Go(func() error {
			if err := c.Start(gctx, scope); err != nil {
				return fmt.Errorf("start %s: %w", c.Name(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		sess.Close()
		return nil, err
	}

	if sess.alerts != nil {
		if err := sess.alerts.Watch(ctx, s.source, alertTriggers(scope)...); err != nil {
			sess.log.WarnContext(ctx, "alert triggers unavailable, polling only", slog.String("error", err.Error()))
		}
	}
	if sess.metrics != nil {
		if err := sess.metrics.Watch(ctx, s.source, metricTriggers(scope)...); err != nil {
			sess.log.WarnContext(ctx, "metric triggers unavailable, polling only", slog.String("error", err.Error()))
		}
	}

	sess.forward()
	sess.opened = true
	s.obs.SessionOpened()
	sess.log.InfoContext(ctx, "session opened", slog.Int("domains", len(sess.components)))
	return sess, nil
}

// Snapshot loads one domain for scope without keeping it live.
func (s *Service) Snapshot(ctx context.Context, scope domain.Scope, d Domain) (Snapshot, error) {
	if _, err := ParseDomain(string(d)); err != nil {
		return Snapshot{}, err
	}
	sess, err := s.Open(ctx, scope, d)
	if err != nil {
		return Snapshot{}, err
	}
	defer sess.Close()
	return sess.Snapshot(d)
}

func (s *Service) newSession(scope domain.Scope, domains []Domain) (*Session, error) {
	sess := &Session{
		scope:   scope,
		log:     s.log.With("scope", scope.Key()),
		obs:     s.obs,
		changes: make(chan Domain, len(Domains)),
		done:    make(chan struct{}),
	}

	seen := make(map[Domain]bool, len(domains))
	for _, d := range domains {
		if _, err := ParseDomain(string(d)); err != nil {
			return nil, err
		}
		if seen[d] {
			continue
		}
		seen[d] = true

		c, err := s.newComponent(sess, d)
		if err != nil {
			return nil, err
		}
		sess.components = append(sess.components, c)
	}
	return sess, nil
}

// newComponent builds the reconciler or scanner behind d and records it on
// sess.
func (s *Service) newComponent(sess *Session, d Domain) (component, error) {
	var err error
	switch d {
	case DomainProjects:
		sess.projects, err = s.newProjects()
		return sess.projects, err
	case DomainQuotes:
		sess.quotes, err = s.newQuotes()
		return sess.quotes, err
	case DomainMilestones:
		sess.milestones, err = s.newMilestones()
		return sess.milestones, err
	case DomainPayments:
		sess.payments, err = s.newPayments()
		return sess.payments, err
	case DomainActivity:
		sess.activity, err = s.newActivity()
		return sess.activity, err
	case DomainAlerts:
		sess.alerts, err = s.newAlerts()
		return sess.alerts, err
	case DomainMetrics:
		sess.metrics, err = s.newMetrics()
		return sess.metrics, err
	}
	return nil, fmt.Errorf("no component for domain %q", d)
}

// forward fans every component's change signal into Changes.
func (s *Session) forward() {
	s.wg.Add(len(s.components))
	for _, c := range s.components {
		d := Domain(c.Name())
		go func() {
			defer s.wg.Done()
			for range c.Changes() {
				select {
				case s.changes <- d:
				case <-s.done:
					return
				}
			}
		}()
	}
}

// Scope returns the scope the session was opened for.
func (s *Session) Scope() domain.Scope { return s.scope }

// Changes yields the domain whose snapshot changed. It is closed by Close.
func (s *Session) Changes() <-chan Domain { return s.changes }

// Domains lists the domains the session was opened with.
func (s *Session) Domains() []Domain {
	out := make([]Domain, 0, len(s.components))
	for _, c := range s.components {
		out = append(out, Domain(c.Name()))
	}
	return out
}

// Has reports whether d is live in this session.
func (s *Session) Has(d Domain) bool {
	for _, c := range s.components {
		if Domain(c.Name()) == d {
			return true
		}
	}
	return false
}

// The typed views below return a zero view for domains the session was not
// opened with.

func (s *Session) Projects() reconcile.View[domain.Project] {
	return reconcilerView(s.projects)
}

func (s *Session) Quotes() reconcile.View[domain.Quote] {
	return reconcilerView(s.quotes)
}

func (s *Session) Milestones() reconcile.View[domain.Milestone] {
	return reconcilerView(s.milestones)
}

func (s *Session) Payments() reconcile.View[domain.Payment] {
	return reconcilerView(s.payments)
}

func (s *Session) Activity() reconcile.View[domain.ActivityEntry] {
	return reconcilerView(s.activity)
}

func (s *Session) Alerts() poller.View[domain.Alert] {
	return scannerView(s.alerts)
}

func (s *Session) Metrics() poller.View[domain.Metric] {
	return scannerView(s.metrics)
}

func reconcilerView[T any](r *reconcile.Reconciler[T]) reconcile.View[T] {
	if r == nil {
		return reconcile.View[T]{}
	}
	return r.View()
}

func scannerView[T any](sc *poller.Scanner[T]) poller.View[T] {
	if sc == nil {
		return poller.View[T]{}
	}
	return sc.View()
}

// AckAlerts resets the new-alert counter, e.g. when the alerts panel is
// opened. It is a no-op when alerts are not open.
func (s *Session) AckAlerts() {
	if s.alerts != nil {
		s.alerts.Ack()
	}
}

// Refresh re-fetches one domain: a full reload for reconcilers, an
// immediate tick for scanners.
func (s *Session) Refresh(ctx context.Context, d Domain) error {
	if err := s.checkOpen(d); err != nil {
		return err
	}
	switch d {
	case DomainProjects:
		return s.projects.Refresh(ctx)
	case DomainQuotes:
		return s.quotes.Refresh(ctx)
	case DomainMilestones:
		return s.milestones.Refresh(ctx)
	case DomainPayments:
		return s.payments.Refresh(ctx)
	case DomainActivity:
		return s.activity.Refresh(ctx)
	case DomainAlerts:
		return s.alerts.Tick(ctx)
	case DomainMetrics:
		return s.metrics.Tick(ctx)
	}
	return nil
}

func (s *Session) checkOpen(d Domain) error {
	if _, err := ParseDomain(string(d)); err != nil {
		return err
	}
	if !s.Has(d) {
		return domain.NewValidationError("domain", fmt.Sprintf("domain %q is not open in this session", d))
	}
	return nil
}

// Snapshot is the transport-neutral state of one domain.
type Snapshot struct {
	Domain   Domain    `json:"domain"`
	Items    any       `json:"items"`
	Loading  bool      `json:"loading"`
	Error    string    `json:"error,omitempty"`
	Version  uint64    `json:"version"`
	SyncedAt time.Time `json:"synced_at"`
	// NewCount is set for alerts only.
	NewCount *int `json:"new_count,omitempty"`
}

func fromReconciler[T any](d Domain, v reconcile.View[T]) Snapshot {
	snap := Snapshot{
		Domain:   d,
		Items:    v.Items,
		Loading:  v.Loading,
		Version:  v.Version,
		SyncedAt: v.SyncedAt,
	}
	if v.Err != nil {
		snap.Error = v.Err.Error()
	}
	return snap
}

func fromScanner[T any](d Domain, v poller.View[T]) Snapshot {
	snap := Snapshot{
		Domain:   d,
		Items:    v.Items,
		Loading:  v.Loading,
		Version:  v.Version,
		SyncedAt: v.TickedAt,
	}
	if v.Err != nil {
		snap.Error = v.Err.Error()
	}
	return snap
}

// Snapshot returns the current state of d.
func (s *Session) Snapshot(d Domain) (Snapshot, error) {
	if err := s.checkOpen(d); err != nil {
		return Snapshot{}, err
	}
	switch d {
	case DomainProjects:
		return fromReconciler(d, s.projects.View()), nil
	case DomainQuotes:
		return fromReconciler(d, s.quotes.View()), nil
	case DomainMilestones:
		return fromReconciler(d, s.milestones.View()), nil
	case DomainPayments:
		return fromReconciler(d, s.payments.View()), nil
	case DomainActivity:
		return fromReconciler(d, s.activity.View()), nil
	case DomainAlerts:
		v := s.alerts.View()
		snap := fromScanner(d, v)
		snap.NewCount = &v.NewCount
		return snap, nil
	case DomainMetrics:
		return fromScanner(d, s.metrics.View()), nil
	}
	return Snapshot{}, nil
}

// Close stops every component. No snapshot changes after Close returns.
// Close is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		for _, c := range s.components {
			c.Stop()
		}
		s.wg.Wait()
		close(s.changes)

		// A session that failed to open was never counted.
		if s.opened {
			s.obs.SessionClosed()
			s.log.Info("session closed")
		}
	})
}
