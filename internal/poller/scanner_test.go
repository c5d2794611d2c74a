package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/realtime"
)

// source is a query whose result can be changed between ticks.
type source struct {
	mu    sync.Mutex
	items []string
	err   error
	calls int
	gate  chan struct{}
}

func (s *source) set(items []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items, s.err = items, err
}

func (s *source) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *source) run(ctx context.Context, _ domain.Scope) ([]string, error) {
	s.mu.Lock()
	s.calls++
	items, err, gate := s.items, s.err, s.gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return append([]string(nil), items...), err
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes map[TickOutcome]int
}

func (o *countingObserver) Ticked(_ string, outcome TickOutcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = make(map[TickOutcome]int)
	}
	o.outcomes[outcome]++
}

func (o *countingObserver) Count(outcome TickOutcome) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomes[outcome]
}

func newTestScanner(t *testing.T, opts func(*Config[string]), queries ...Query[string]) *Scanner[string] {
	t.Helper()

	cfg := Config[string]{
		Name:     "alerts",
		Interval: time.Hour,
		Queries:  queries,
		Logger:   slog.New(slog.DiscardHandler),
	}
	if opts != nil {
		opts(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Stop)
	return s
}

var adminScope = domain.AdminScope(uuid.New())

func TestScanner_StartTicksImmediately(t *testing.T) {
	t.Parallel()

	src := &source{items: []string{"a", "b"}}
	s := newTestScanner(t, nil, Query[string]{Name: "q", Run: src.run})

	assert.True(t, s.View().Loading)
	require.NoError(t, s.Start(context.Background(), adminScope))

	v := s.View()
	assert.False(t, v.Loading)
	assert.NoError(t, v.Err)
	assert.Equal(t, []string{"a", "b"}, v.Items)
	assert.Equal(t, 1, src.Calls())
	assert.False(t, v.TickedAt.IsZero())
}

func TestScanner_FullReplace(t *testing.T) {
	t.Parallel()

	src := &source{items: []string{"a", "b", "c"}}
	s := newTestScanner(t, nil, Query[string]{Name: "q", Run: src.run})
	require.NoError(t, s.Start(context.Background(), adminScope))

	src.set([]string{"b"}, nil)
	require.NoError(t, s.Tick(context.Background()))
	assert.Equal(t, []string{"b"}, s.View().Items, "no stale entries survive a tick")

	src.set(nil, nil)
	require.NoError(t, s.Tick(context.Background()))
	assert.Empty(t, s.View().Items)
	assert.NotNil(t, s.View().Items)
}

func TestScanner_ConcatenatesInQueryOrder(t *testing.T) {
	t.Parallel()

	slow := Query[string]{Name: "slow", Run: func(context.Context, domain.Scope) ([]string, error) {
		time.Sleep(20 * time.Millisecond)
		return []string{"overdue-1", "overdue-2"}, nil
	}}
	fast := Query[string]{Name: "fast", Run: func(context.Context, domain.Scope) ([]string, error) {
		return []string{"webhook-1"}, nil
	}}
	s := newTestScanner(t, nil, slow, fast)
	require.NoError(t, s.Start(context.Background(), adminScope))

	assert.Equal(t, []string{"overdue-1", "overdue-2", "webhook-1"}, s.View().Items)
}

func TestScanner_ErrorKeepsPreviousSnapshot(t *testing.T) {
	t.Parallel()

	good := &source{items: []string{"a"}}
	flaky := &source{items: []string{"x"}}
	obs := &countingObserver{}
	s := newTestScanner(t, func(c *Config[string]) { c.Observer = obs },
		Query[string]{Name: "good", Run: good.run},
		Query[string]{Name: "flaky", Run: flaky.run},
	)
	require.NoError(t, s.Start(context.Background(), adminScope))
	require.Equal(t, []string{"a", "x"}, s.View().Items)

	flaky.set(nil, errors.New("relation does not exist"))
	good.set([]string{"a", "b"}, nil)
	err := s.Tick(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.ErrorContains(t, err, "query flaky")

	v := s.View()
	assert.Equal(t, []string{"a", "x"}, v.Items)
	assert.ErrorIs(t, v.Err, domain.ErrFetch)

	flaky.set([]string{"y"}, nil)
	require.NoError(t, s.Tick(context.Background()))
	v = s.View()
	assert.NoError(t, v.Err)
	assert.Equal(t, []string{"a", "b", "y"}, v.Items)

	assert.Equal(t, 2, obs.Count(TickOK))
	assert.Equal(t, 1, obs.Count(TickError))
}

func TestScanner_FailedFirstTick(t *testing.T) {
	t.Parallel()

	src := &source{err: errors.New("timeout")}
	s := newTestScanner(t, nil, Query[string]{Name: "q", Run: src.run})
	require.NoError(t, s.Start(context.Background(), adminScope))

	v := s.View()
	assert.False(t, v.Loading)
	assert.Error(t, v.Err)
	assert.Empty(t, v.Items)
}

func TestScanner_InFlightGuard(t *testing.T) {
	t.Parallel()

	src := &source{items: []string{"a"}}
	obs := &countingObserver{}
	s := newTestScanner(t, func(c *Config[string]) { c.Observer = obs }, Query[string]{Name: "q", Run: src.run})
	require.NoError(t, s.Start(context.Background(), adminScope))

	gate := make(chan struct{})
	src.mu.Lock()
	src.gate = gate
	src.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- s.Tick(context.Background()) }()

	require.Eventually(t, func() bool { return src.Calls() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, s.Tick(context.Background()), ErrTickInFlight)
	assert.Equal(t, 2, src.Calls(), "skipped tick runs no queries")

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, obs.Count(TickSkipped))

	require.NoError(t, s.Tick(context.Background()))
}

func TestScanner_NewCountTracksNetGrowth(t *testing.T) {
	t.Parallel()

	src := &source{items: []string{"a", "b"}}
	s := newTestScanner(t, nil, Query[string]{Name: "q", Run: src.run})
	require.NoError(t, s.Start(context.Background(), adminScope))
	assert.Equal(t, 2, s.NewCount())

	s.Ack()
	assert.Equal(t, 0, s.NewCount())

	src.set([]string{"a", "b", "c", "d"}, nil)
	require.NoError(t, s.Tick(context.Background()))
	assert.Equal(t, 2, s.NewCount())

	src.set([]string{"a"}, nil)
	require.NoError(t, s.Tick(context.Background()))
	assert.Equal(t, 2, s.NewCount(), "shrinking does not decrement")

	src.set([]string{"a", "e"}, nil)
	require.NoError(t, s.Tick(context.Background()))
	assert.Equal(t, 3, s.NewCount())
	assert.Equal(t, 3, s.View().NewCount)
}

func TestScanner_TriggerAndInterval(t *testing.T) {
	t.Parallel()

	src := &source{items: []string{"a"}}
	s := newTestScanner(t, nil, Query[string]{Name: "q", Run: src.run})
	require.NoError(t, s.Start(context.Background(), adminScope))

	s.Trigger()
	require.Eventually(t, func() bool { return src.Calls() >= 2 }, 2*time.Second, 5*time.Millisecond)

	ticking := &source{}
	fast := newTestScanner(t, func(c *Config[string]) { c.Interval = 10 * time.Millisecond },
		Query[string]{Name: "q", Run: ticking.run})
	require.NoError(t, fast.Start(context.Background(), adminScope))
	require.Eventually(t, func() bool { return ticking.Calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestScanner_WatchTriggersOnChange(t *testing.T) {
	t.Parallel()

	mem := realtime.NewMemorySource()
	src := &source{}
	s := newTestScanner(t, nil, Query[string]{Name: "q", Run: src.run})
	require.NoError(t, s.Start(context.Background(), adminScope))
	require.NoError(t, s.Watch(context.Background(), mem,
		realtime.Topic{Table: "disputes"},
		realtime.Topic{Table: "provider_webhook_log"},
	))

	src.set([]string{"dispute"}, nil)
	mem.Publish(realtime.ChangeEvent{
		Table: "disputes",
		Op:    realtime.OpInsert,
		New:   realtime.Row{"id": uuid.NewString()},
	})

	require.Eventually(t, func() bool {
		return len(s.View().Items) == 1
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	assert.Equal(t, 0, mem.Subscribers("disputes"))
	assert.Equal(t, 0, mem.Subscribers("provider_webhook_log"))
}

func TestScanner_WatchResubscribesAfterDrop(t *testing.T) {
	t.Parallel()

	mem := realtime.NewMemorySource()
	src := &source{}
	s := newTestScanner(t, func(c *Config[string]) {
		c.Backoff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	}, Query[string]{Name: "q", Run: src.run})
	require.NoError(t, s.Start(context.Background(), adminScope))
	require.NoError(t, s.Watch(context.Background(), mem, realtime.Topic{Table: "disputes"}))
	require.Equal(t, 1, src.Calls())

	// Changes missed while the feed was down are covered by a tick on restore.
	src.set([]string{"missed"}, nil)
	require.Equal(t, 1, mem.Drop("disputes"))
	require.Eventually(t, func() bool {
		return mem.Subscribers("disputes") == 1 && len(s.View().Items) == 1
	}, 2*time.Second, 5*time.Millisecond)

	src.set([]string{"missed", "live"}, nil)
	mem.Publish(realtime.ChangeEvent{
		Table: "disputes",
		Op:    realtime.OpInsert,
		New:   realtime.Row{"id": uuid.NewString()},
	})
	require.Eventually(t, func() bool {
		return len(s.View().Items) == 2
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	assert.Equal(t, 0, mem.Subscribers("disputes"))
}

func TestScanner_Lifecycle(t *testing.T) {
	t.Parallel()

	src := &source{items: []string{"a"}}
	s := newTestScanner(t, nil, Query[string]{Name: "q", Run: src.run})

	assert.Error(t, s.Tick(context.Background()), "tick before start")
	assert.ErrorIs(t, s.Start(context.Background(), domain.Scope{Role: "guest"}), domain.ErrValidation)

	require.NoError(t, s.Start(context.Background(), adminScope))
	assert.ErrorIs(t, s.Start(context.Background(), adminScope), domain.ErrAlreadyStarted)

	s.Stop()
	s.Stop()
	for range s.Changes() {
		// Closed by Stop.
	}
	s.Trigger()
	assert.ErrorIs(t, s.Tick(context.Background()), domain.ErrStopped)
	assert.ErrorIs(t, s.Start(context.Background(), adminScope), domain.ErrStopped)

	err := s.Watch(context.Background(), realtime.NewMemorySource(), realtime.Topic{Table: "disputes"})
	assert.ErrorIs(t, err, domain.ErrStopped)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(Config[string]{Queries: []Query[string]{{Name: "q", Run: (&source{}).run}}})
	assert.Error(t, err)

	_, err = New(Config[string]{Name: "x"})
	assert.Error(t, err)

	_, err = New(Config[string]{Name: "x", Queries: []Query[string]{{Name: "q"}}})
	assert.Error(t, err)
}
