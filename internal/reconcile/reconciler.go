package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/realtime"
)

const (
	DefaultFetchTimeout   = 15 * time.Second
	DefaultResyncInterval = 5 * time.Minute
)

// Observer receives reconciler events for metrics. All methods must be
// safe for concurrent use.
type Observer interface {
	Merged(reconciler, table string, outcome Outcome)
	FetchFailed(reconciler string)
	Resubscribed(reconciler, table string)
}

type nopObserver struct{}

func (nopObserver) Merged(string, string, Outcome) {}
func (nopObserver) FetchFailed(string)             {}
func (nopObserver) Resubscribed(string, string)    {}

// Config describes one data domain.
type Config[T any] struct {
	Name     string
	Bindings []Binding[T]
	// Fetch loads the full scoped collection. It is called with a context
	// bounded by FetchTimeout.
	Fetch func(ctx context.Context, scope domain.Scope) ([]T, error)
	// Key returns the row identifier in the same form as realtime.Row.ID.
	Key   func(T) string
	Less  func(a, b T) bool
	Limit int

	FetchTimeout time.Duration
	// ResyncInterval schedules a full re-fetch to repair gaps in the change
	// feed. Negative disables it.
	ResyncInterval time.Duration
	// Backoff builds the resubscribe policy. Defaults to exponential,
	// 500ms..30s, retrying until stopped.
	Backoff func() backoff.BackOff

	Logger   *slog.Logger
	Observer Observer
	Now      func() time.Time
}

func (c *Config[T]) withDefaults() error {
	if c.Name == "" {
		return errors.New("reconcile: config: name required")
	}
	if c.Fetch == nil || c.Key == nil {
		return fmt.Errorf("reconcile: config %s: fetch and key required", c.Name)
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.ResyncInterval == 0 {
		c.ResyncInterval = DefaultResyncInterval
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
	for i := range c.Bindings {
		c.Bindings[i] = c.Bindings[i].withDefaults()
	}
	return nil
}

// View is a read-only copy of a reconciler's state.
type View[T any] struct {
	Items   []T
	Loading bool
	// Err wraps domain.ErrFetch after a failed fetch or domain.ErrSubscription
	// while a change feed is down. Items is empty when no fetch has ever
	// succeeded; after a failed re-fetch it holds the previous snapshot with
	// live events still applied.
	Err      error
	Version  uint64
	SyncedAt time.Time
}

// Reconciler keeps one Snapshot consistent with an initial fetch and the
// change feeds of its bindings. Every mutation happens under one mutex, and
// nothing mutates the snapshot after Stop returns.
type Reconciler[T any] struct {
	cfg    Config[T]
	source realtime.Source
	log    *slog.Logger

	syncMu sync.Mutex // one fetch at a time

	mu        sync.Mutex
	snap      *Snapshot[T]
	scope     domain.Scope
	started   bool
	stopped   bool
	loading   bool
	loaded    bool // a fetch has succeeded at least once
	buffering bool
	buffer    []realtime.ChangeEvent
	fetchErr  error
	subErrs   map[string]error
	subs      []realtime.Subscription
	version   uint64
	syncedAt  time.Time

	changes chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a reconciler. It does nothing until Start.
func New[T any](source realtime.Source, cfg Config[T]) (*Reconciler[T], error) {
	if err := cfg.withDefaults(); err != nil {
		return nil, err
	}
	return &Reconciler[T]{
		cfg:     cfg,
		source:  source,
		log:     cfg.Logger.With("reconciler", cfg.Name),
		snap:    NewSnapshot(cfg.Key, cfg.Less, cfg.Limit),
		subErrs: make(map[string]error),
		subs:    make([]realtime.Subscription, len(cfg.Bindings)),
		changes: make(chan struct{}, 1),
	}, nil
}

// Name returns the configured domain name.
func (r *Reconciler[T]) Name() string { return r.cfg.Name }

// Start subscribes to every binding, performs the initial fetch and
// replays events that arrived during it. Fetch and subscription failures
// do not fail Start; they are reported through View().Err and repaired by
// Refresh, the resync loop or the resubscribe loop.
func (r *Reconciler[T]) Start(ctx context.Context, scope domain.Scope) error {
	if err := scope.Validate(); err != nil {
		return fmt.Errorf("reconciler %s: %w", r.cfg.Name, err)
	}

	r.mu.Lock()
	switch {
	case r.stopped:
		r.mu.Unlock()
		return fmt.Errorf("reconciler %s: %w", r.cfg.Name, domain.ErrStopped)
	case r.started:
		r.mu.Unlock()
		return fmt.Errorf("reconciler %s: %w", r.cfg.Name, domain.ErrAlreadyStarted)
	}
	r.started = true
	r.scope = scope
	r.loading = true
	r.buffering = true
	loopCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()

	log := r.log.With("scope", scope.Key())

	// Subscribe before fetching so nothing committed during the fetch is lost.
	for i, b := range r.cfg.Bindings {
		sub, err := r.source.Subscribe(ctx, b.Topic(scope), r.handler(b))
		r.mu.Lock()
		if r.stopped {
			r.mu.Unlock()
			if sub != nil {
				sub.Unsubscribe()
			}
			return fmt.Errorf("reconciler %s: %w", r.cfg.Name, domain.ErrStopped)
		}
		if err != nil {
			r.subErrs[b.Table] = err
		} else {
			r.subs[i] = sub
		}
		r.mu.Unlock()
		if err != nil {
			log.WarnContext(ctx, "subscribe failed",
				slog.String("table", b.Table),
				slog.String("error", err.Error()),
			)
		}
	}

	_ = r.sync(ctx)

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	// Added under the lock so Stop's Wait never races the Add.
	r.wg.Add(len(r.cfg.Bindings))
	if r.cfg.ResyncInterval > 0 {
		r.wg.Add(1)
	}
	r.mu.Unlock()

	for i := range r.cfg.Bindings {
		go r.watch(loopCtx, i)
	}
	if r.cfg.ResyncInterval > 0 {
		go r.resyncLoop(loopCtx)
	}

	log.DebugContext(ctx, "reconciler started", slog.Int("items", r.Len()))
	return nil
}

// Stop unsubscribes every feed and waits for background loops. No mutation
// of the snapshot happens after Stop returns, even for events already in
// flight. Stop is idempotent.
func (r *Reconciler[T]) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	subs := r.subs
	r.subs = nil
	r.buffer = nil
	cancel := r.cancel
	close(r.changes)
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, sub := range subs {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
	r.wg.Wait()
}

// View returns a copy of the current state.
func (r *Reconciler[T]) View() View[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := View[T]{
		Items:    r.snap.Items(),
		Loading:  r.loading,
		Version:  r.version,
		SyncedAt: r.syncedAt,
	}
	switch {
	case r.fetchErr != nil:
		v.Err = r.fetchErr
	case len(r.subErrs) > 0:
		errs := make([]error, 0, len(r.subErrs))
		for _, err := range r.subErrs {
			errs = append(errs, err)
		}
		v.Err = fmt.Errorf("%w: %w", domain.ErrSubscription, errors.Join(errs...))
	}
	return v
}

// Len returns the number of items in the snapshot.
func (r *Reconciler[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.Len()
}

// Changes is signalled after every snapshot change. Signals coalesce; a
// receiver should read View after each one. The channel is closed by Stop.
func (r *Reconciler[T]) Changes() <-chan struct{} { return r.changes }

// Refresh re-fetches the full collection and replays events received
// meanwhile. It is the manual retry after a fetch error.
func (r *Reconciler[T]) Refresh(ctx context.Context) error {
	r.mu.Lock()
	stopped, started := r.stopped, r.started
	r.mu.Unlock()

	if stopped {
		return fmt.Errorf("reconciler %s: %w", r.cfg.Name, domain.ErrStopped)
	}
	if !started {
		return fmt.Errorf("reconciler %s: not started", r.cfg.Name)
	}
	return r.sync(ctx)
}

// handler returns the change-feed callback of binding b.
func (r *Reconciler[T]) handler(b Binding[T]) realtime.Handler {
	return func(ev realtime.ChangeEvent) {
		r.mu.Lock()
		if r.stopped {
			r.mu.Unlock()
			return
		}
		if r.buffering {
			r.buffer = append(r.buffer, ev)
			r.mu.Unlock()
			return
		}
		if !r.loaded {
			// There is nothing to merge into until a fetch succeeds.
			r.mu.Unlock()
			return
		}
		outcome, err := b.apply(r.snap, ev)
		if outcome.Mutated() {
			r.bumpLocked()
		}
		r.mu.Unlock()

		r.observe(b.Table, ev, outcome, err)
	}
}

func (r *Reconciler[T]) observe(table string, ev realtime.ChangeEvent, outcome Outcome, err error) {
	r.cfg.Observer.Merged(r.cfg.Name, table, outcome)
	switch outcome {
	case OutcomeRejected:
		r.log.Warn("event rejected",
			slog.String("table", table),
			slog.String("op", ev.Op.String()),
			slog.String("error", err.Error()),
		)
	case OutcomeHealed, OutcomeMissing, OutcomeDuplicate:
		r.log.Debug("merge anomaly",
			slog.String("table", table),
			slog.String("op", ev.Op.String()),
			slog.String("id", ev.Key()),
			slog.String("outcome", string(outcome)),
		)
	}
}

// sync fetches the full collection while buffering live events, loads the
// result and replays the buffer on top of it.
func (r *Reconciler[T]) sync(ctx context.Context) error {
	r.syncMu.Lock()
	defer r.syncMu.Unlock()

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return fmt.Errorf("reconciler %s: %w", r.cfg.Name, domain.ErrStopped)
	}
	scope := r.scope
	r.buffering = true
	if r.fetchErr != nil {
		r.loading = true
		r.bumpLocked()
	}
	r.mu.Unlock()

	fctx, cancel := context.WithTimeout(ctx, r.cfg.FetchTimeout)
	items, err := r.cfg.Fetch(fctx, scope)
	cancel()

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return fmt.Errorf("reconciler %s: %w", r.cfg.Name, domain.ErrStopped)
	}

	buffered := r.buffer
	r.buffer = nil
	r.buffering = false
	r.loading = false

	if err != nil {
		r.fetchErr = fmt.Errorf("reconciler %s: %w: %w", r.cfg.Name, domain.ErrFetch, err)
		var results []applied
		if r.loaded {
			// A failed re-fetch leaves the previous snapshot in place.
			results = r.replayLocked(buffered)
		} else {
			r.snap.Load(nil)
		}
		r.bumpLocked()
		fetchErr := r.fetchErr
		stale := r.loaded
		r.mu.Unlock()

		r.observeAll(results)
		r.cfg.Observer.FetchFailed(r.cfg.Name)
		r.log.ErrorContext(ctx, "fetch failed",
			slog.String("scope", scope.Key()),
			slog.Bool("kept_previous", stale),
			slog.String("error", err.Error()),
		)
		return fetchErr
	}

	r.fetchErr = nil
	r.loaded = true
	r.snap.Load(items)
	results := r.replayLocked(buffered)
	r.syncedAt = r.cfg.Now()
	r.bumpLocked()
	n := r.snap.Len()
	r.mu.Unlock()

	r.observeAll(results)
	r.log.DebugContext(ctx, "synced",
		slog.String("scope", scope.Key()),
		slog.Int("items", n),
		slog.Int("replayed", len(buffered)),
	)
	return nil
}

type applied struct {
	table   string
	ev      realtime.ChangeEvent
	outcome Outcome
	err     error
}

// replayLocked applies events buffered during a fetch. r.mu must be held.
func (r *Reconciler[T]) replayLocked(buffered []realtime.ChangeEvent) []applied {
	results := make([]applied, 0, len(buffered))
	for _, ev := range buffered {
		b, ok := r.bindingFor(ev.Table)
		if !ok {
			continue
		}
		outcome, err := b.apply(r.snap, ev)
		results = append(results, applied{b.Table, ev, outcome, err})
	}
	return results
}

func (r *Reconciler[T]) observeAll(results []applied) {
	for _, a := range results {
		r.observe(a.table, a.ev, a.outcome, a.err)
	}
}

func (r *Reconciler[T]) bindingFor(table string) (Binding[T], bool) {
	for _, b := range r.cfg.Bindings {
		if b.Table == table {
			return b, true
		}
	}
	return Binding[T]{}, false
}

// bumpLocked records a change and signals Changes. r.mu must be held.
func (r *Reconciler[T]) bumpLocked() {
	r.version++
	if r.stopped {
		return
	}
	select {
	case r.changes <- struct{}{}:
	default:
	}
}

// watch resubscribes binding i whenever its feed drops, then resyncs to
// cover events lost while it was down.
func (r *Reconciler[T]) watch(ctx context.Context, i int) {
	defer r.wg.Done()
	b := r.cfg.Bindings[i]

	for {
		r.mu.Lock()
		if r.stopped {
			r.mu.Unlock()
			return
		}
		sub := r.subs[i]
		r.mu.Unlock()

		if sub != nil {
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
				err = fmt.Errorf("%w: %s: feed closed", domain.ErrSubscription, b.Table)
			}
			r.mu.Lock()
			if r.stopped {
				r.mu.Unlock()
				return
			}
			r.subErrs[b.Table] = err
			r.subs[i] = nil
			r.bumpLocked()
			r.mu.Unlock()
			r.log.Warn("change feed dropped",
				slog.String("table", b.Table),
				slog.String("error", err.Error()),
			)
		}

		next, err := r.resubscribe(ctx, b)
		if err != nil {
			return // stopped
		}

		r.mu.Lock()
		if r.stopped {
			r.mu.Unlock()
			next.Unsubscribe()
			return
		}
		r.subs[i] = next
		delete(r.subErrs, b.Table)
		r.mu.Unlock()

		r.cfg.Observer.Resubscribed(r.cfg.Name, b.Table)
		r.log.Info("change feed restored", slog.String("table", b.Table))

		_ = r.sync(ctx)
	}
}

func (r *Reconciler[T]) resubscribe(ctx context.Context, b Binding[T]) (realtime.Subscription, error) {
	r.mu.Lock()
	scope := r.scope
	r.mu.Unlock()

	var sub realtime.Subscription
	op := func() error {
		var err error
		sub, err = r.source.Subscribe(ctx, b.Topic(scope), r.handler(b))
		return err
	}
	notify := func(err error, wait time.Duration) {
		r.log.Debug("resubscribe failed",
			slog.String("table", b.Table),
			slog.Duration("retry_in", wait),
			slog.String("error", err.Error()),
		)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(r.cfg.Backoff(), ctx), notify); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *Reconciler[T]) resyncLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.ResyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.sync(ctx)
		}
	}
}
