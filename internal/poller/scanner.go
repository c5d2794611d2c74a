// Package poller recomputes derived dashboard state (alerts, metric tiles)
// from full queries on a fixed interval, with on-demand ticks when
// upstream tables change.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/realtime"
)

const (
	DefaultInterval = 60 * time.Second
	DefaultTimeout  = 30 * time.Second
)

// ErrTickInFlight is returned by Tick while a previous tick is running.
var ErrTickInFlight = errors.New("tick already in flight")

// TickOutcome labels a tick for metrics.
type TickOutcome string

const (
	TickOK      TickOutcome = "ok"
	TickError   TickOutcome = "error"
	TickSkipped TickOutcome = "skipped"
)

// Observer receives tick results. Methods must be safe for concurrent use.
type Observer interface {
	Ticked(scanner string, outcome TickOutcome, took time.Duration)
}

type nopObserver struct{}

func (nopObserver) Ticked(string, TickOutcome, time.Duration) {}

// Query is one read of a tick. Results of all queries are concatenated in
// the order the queries are configured.
type Query[T any] struct {
	Name string
	Run  func(ctx context.Context, scope domain.Scope) ([]T, error)
}

// Config describes one polled domain.
type Config[T any] struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a whole tick.
	Timeout time.Duration
	Queries []Query[T]
	// Backoff builds the policy for re-opening a dropped Watch feed.
	// Defaults to exponential, 500ms..30s, retrying until stopped.
	Backoff func() backoff.BackOff

	Logger   *slog.Logger
	Observer Observer
	Now      func() time.Time
}

func (c *Config[T]) withDefaults() error {
	if c.Name == "" {
		return errors.New("poller: config: name required")
	}
	if len(c.Queries) == 0 {
		return fmt.Errorf("poller: config %s: at least one query required", c.Name)
	}
	for i, q := range c.Queries {
		if q.Run == nil {
			return fmt.Errorf("poller: config %s: query %d (%s) has no Run", c.Name, i, q.Name)
		}
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Backoff == nil {
		c.Backoff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return nil
}

// View is a read-only copy of a scanner's state.
type View[T any] struct {
	Items []T
	// Loading is true until the first tick completes.
	Loading bool
	// Err is the error of the last tick; Items then still hold the result
	// of the last successful tick.
	Err      error
	NewCount int
	Version  uint64
	TickedAt time.Time
}

// Scanner replaces its whole snapshot on every successful tick.
type Scanner[T any] struct {
	cfg Config[T]
	log *slog.Logger

	inFlight atomic.Bool

	mu       sync.Mutex
	scope    domain.Scope
	started  bool
	stopped  bool
	loaded   bool
	items    []T
	err      error
	newCount int
	version  uint64
	tickedAt time.Time
	subs     []realtime.Subscription

	trigger chan struct{}
	changes chan struct{}
	cancel  context.CancelFunc
	// watchCtx ends the Watch loops on Stop.
	watchCtx    context.Context
	watchCancel context.CancelFunc
	wg          sync.WaitGroup
}

// New creates a scanner. It does nothing until Start.
func New[T any](cfg Config[T]) (*Scanner[T], error) {
	if err := cfg.withDefaults(); err != nil {
		return nil, err
	}
	watchCtx, watchCancel := context.WithCancel(context.Background())
	return &Scanner[T]{
		cfg:         cfg,
		log:         cfg.Logger.With("scanner", cfg.Name),
		items:       []T{},
		trigger:     make(chan struct{}, 1),
		changes:     make(chan struct{}, 1),
		watchCtx:    watchCtx,
		watchCancel: watchCancel,
	}, nil
}

// Name returns the configured domain name.
func (s *Scanner[T]) Name() string { return s.cfg.Name }

// Start runs the first tick immediately, then ticks every Interval and on
// Trigger until Stop. A failed first tick does not fail Start.
func (s *Scanner[T]) Start(ctx context.Context, scope domain.Scope) error {
	if err := scope.Validate(); err != nil {
		return fmt.Errorf("scanner %s: %w", s.cfg.Name, err)
	}

	s.mu.Lock()
	switch {
	case s.stopped:
		s.mu.Unlock()
		return fmt.Errorf("scanner %s: %w", s.cfg.Name, domain.ErrStopped)
	case s.started:
		s.mu.Unlock()
		return fmt.Errorf("scanner %s: %w", s.cfg.Name, domain.ErrAlreadyStarted)
	}
	s.started = true
	s.scope = scope
	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	_ = s.Tick(ctx)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(loopCtx)
	return nil
}

// Watch triggers a tick on every change event matching one of topics.
// A dropped feed is re-opened with backoff and followed by a tick, since
// changes made while it was down were missed. Subscriptions end with Stop.
func (s *Scanner[T]) Watch(ctx context.Context, source realtime.Source, topics ...realtime.Topic) error {
	for _, topic := range topics {
		sub, err := source.Subscribe(ctx, topic, s.onChange)
		if err != nil {
			return fmt.Errorf("scanner %s: watch %s: %w", s.cfg.Name, topic.Table, err)
		}

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			sub.Unsubscribe()
			return fmt.Errorf("scanner %s: %w", s.cfg.Name, domain.ErrStopped)
		}
		i := len(s.subs)
		s.subs = append(s.subs, sub)
		s.wg.Add(1)
		s.mu.Unlock()

		go s.watch(source, topic, i)
	}
	return nil
}

func (s *Scanner[T]) onChange(realtime.ChangeEvent) { s.Trigger() }

// watch re-opens subscription i whenever its feed drops, until Stop.
func (s *Scanner[T]) watch(source realtime.Source, topic realtime.Topic, i int) {
	defer s.wg.Done()
	ctx := s.watchCtx

	for {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		sub := s.subs[i]
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-sub.Done():
		}
		if ctx.Err() != nil {
			return
		}
		err := sub.Err()
		if err == nil {
			err = fmt.Errorf("%w: %s: feed closed", domain.ErrSubscription, topic.Table)
		}
		s.log.Warn("trigger feed dropped, polling only until restored",
			slog.String("table", topic.Table),
			slog.String("error", err.Error()),
		)

		var next realtime.Subscription
		op := func() error {
			var err error
			next, err = source.Subscribe(ctx, topic, s.onChange)
			return err
		}
		notify := func(err error, wait time.Duration) {
			s.log.Debug("resubscribe failed",
				slog.String("table", topic.Table),
				slog.Duration("retry_in", wait),
				slog.String("error", err.Error()),
			)
		}
		if err := backoff.RetryNotify(op, backoff.WithContext(s.cfg.Backoff(), ctx), notify); err != nil {
			return // stopped
		}

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			next.Unsubscribe()
			return
		}
		s.subs[i] = next
		s.mu.Unlock()

		s.log.Info("trigger feed restored", slog.String("table", topic.Table))
		s.Trigger()
	}
}

// Trigger requests a tick without waiting for it. Requests made while one
// is pending coalesce.
func (s *Scanner[T]) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Tick runs every query concurrently and replaces the snapshot with their
// concatenated results. On any query error the previous snapshot is kept.
func (s *Scanner[T]) Tick(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.cfg.Observer.Ticked(s.cfg.Name, TickSkipped, 0)
		return ErrTickInFlight
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	stopped, started, scope := s.stopped, s.started, s.scope
	s.mu.Unlock()
	if stopped {
		return fmt.Errorf("scanner %s: %w", s.cfg.Name, domain.ErrStopped)
	}
	if !started {
		return fmt.Errorf("scanner %s: not started", s.cfg.Name)
	}

	began := s.cfg.Now()
	tctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	results := make([][]T, len(s.cfg.Queries))
	g, gctx := errgroup.WithContext(tctx)
	for i, q := range s.cfg.Queries {
		g.Go(func() error {
			items, err := q.Run(gctx, scope)
			if err != nil {
				return fmt.Errorf("query %s: %w", q.Name, err)
			}
			results[i] = items
			return nil
		})
	}
	err := g.Wait()
	cancel()
	took := s.cfg.Now().Sub(began)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return fmt.Errorf("scanner %s: %w", s.cfg.Name, domain.ErrStopped)
	}
	s.loaded = true

	if err != nil {
		s.err = fmt.Errorf("scanner %s: %w: %w", s.cfg.Name, domain.ErrFetch, err)
		tickErr := s.err
		s.bumpLocked()
		s.mu.Unlock()

		s.cfg.Observer.Ticked(s.cfg.Name, TickError, took)
		s.log.WarnContext(ctx, "tick failed",
			slog.String("scope", scope.Key()),
			slog.String("error", err.Error()),
		)
		return tickErr
	}

	n := 0
	for _, r := range results {
		n += len(r)
	}
	merged := make([]T, 0, n)
	for _, r := range results {
		merged = append(merged, r...)
	}
	if growth := len(merged) - len(s.items); growth > 0 {
		s.newCount += growth
	}
	s.items = merged
	s.err = nil
	s.tickedAt = s.cfg.Now()
	s.bumpLocked()
	s.mu.Unlock()

	s.cfg.Observer.Ticked(s.cfg.Name, TickOK, took)
	s.log.DebugContext(ctx, "ticked",
		slog.String("scope", scope.Key()),
		slog.Int("items", n),
		slog.Duration("took", took),
	)
	return nil
}

// NewCount returns how many items the snapshot grew by since the last Ack.
func (s *Scanner[T]) NewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newCount
}

// Ack resets NewCount to zero.
func (s *Scanner[T]) Ack() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.newCount == 0 {
		return
	}
	s.newCount = 0
	s.bumpLocked()
}

// View returns a copy of the current state.
func (s *Scanner[T]) View() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]T, len(s.items))
	copy(items, s.items)
	return View[T]{
		Items:    items,
		Loading:  !s.loaded,
		Err:      s.err,
		NewCount: s.newCount,
		Version:  s.version,
		TickedAt: s.tickedAt,
	}
}

// Changes is signalled after every tick and Ack. It is closed by Stop.
func (s *Scanner[T]) Changes() <-chan struct{} { return s.changes }

// Stop ends the tick loop and every Watch subscription, waiting for a
// running loop tick to finish. Stop is idempotent.
func (s *Scanner[T]) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	subs := s.subs
	s.subs = nil
	cancel := s.cancel
	close(s.changes)
	s.mu.Unlock()

	s.watchCancel()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// bumpLocked records a change and signals Changes. s.mu must be held.
func (s *Scanner[T]) bumpLocked() {
	s.version++
	if s.stopped {
		return
	}
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func (s *Scanner[T]) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.trigger:
		}
		if err := s.Tick(ctx); errors.Is(err, ErrTickInFlight) {
			s.log.DebugContext(ctx, "tick skipped, previous still running")
		}
	}
}
