package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/heartmarshall/solarsync/internal/domain"
)

// MemorySource is an in-process Source. Publish delivers synchronously on
// the caller's goroutine, which keeps tests deterministic.
type MemorySource struct {
	mu   sync.RWMutex
	subs map[*memorySub]struct{}
	now  func() time.Time
}

type memorySub struct {
	*subscription
	topic   Topic
	handler Handler
}

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		subs: make(map[*memorySub]struct{}),
		now:  time.Now,
	}
}

// Subscribe registers h for topic until Unsubscribe or Drop.
func (m *MemorySource) Subscribe(_ context.Context, topic Topic, h Handler) (Subscription, error) {
	if err := topic.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSubscription, err)
	}

	sub := &memorySub{topic: topic, handler: h}
	sub.subscription = newSubscription(func() {
		m.mu.Lock()
		delete(m.subs, sub)
		m.mu.Unlock()
	})

	m.mu.Lock()
	m.subs[sub] = struct{}{}
	m.mu.Unlock()

	return sub, nil
}

// Publish routes ev to every matching subscriber and returns the number of
// deliveries.
func (m *MemorySource) Publish(ev ChangeEvent) int {
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = m.now()
	}

	m.mu.RLock()
	targets := make([]*memorySub, 0, len(m.subs))
	for s := range m.subs {
		targets = append(targets, s)
	}
	m.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		routed, ok := route(s.topic, ev)
		if !ok {
			continue
		}
		s.handler(routed)
		delivered++
	}
	return delivered
}

// Drop ends every subscription on table as if the connection was lost.
func (m *MemorySource) Drop(table string) int {
	m.mu.Lock()
	var dropped []*memorySub
	for s := range m.subs {
		if s.topic.Table == table {
			dropped = append(dropped, s)
			delete(m.subs, s)
		}
	}
	m.mu.Unlock()

	for _, s := range dropped {
		s.finish(fmt.Errorf("%w: %s: connection lost", domain.ErrSubscription, table))
	}
	return len(dropped)
}

// Subscribers returns the number of live subscriptions on table.
func (m *MemorySource) Subscribers(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for s := range m.subs {
		if s.topic.Table == table {
			n++
		}
	}
	return n
}
