package realtime

import (
	"context"
	"sync"

	"github.com/heartmarshall/solarsync/internal/domain"
)

// Topic selects the events a subscription receives.
type Topic struct {
	Table  string
	Event  Op // OpAll or a single Op; empty means OpAll
	Filter *Filter
}

// Validate checks the table name and event kind.
func (t Topic) Validate() error {
	var errs []domain.FieldError
	if t.Table == "" {
		errs = append(errs, domain.FieldError{Field: "table", Message: "required"})
	}
	if t.Event != "" && t.Event != OpAll && !t.Event.IsValid() {
		errs = append(errs, domain.FieldError{Field: "event", Message: "must be INSERT, UPDATE, DELETE or *"})
	}
	if t.Filter != nil && (t.Filter.Column == "" || t.Filter.Value == "") {
		errs = append(errs, domain.FieldError{Field: "filter", Message: "column and value required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (t Topic) accepts(op Op) bool {
	return t.Event == "" || t.Event == OpAll || t.Event == op
}

// Subscription is a live feed for one Topic.
type Subscription interface {
	// Unsubscribe stops delivery. Events already in flight may still reach
	// the handler; handlers must guard against that themselves.
	Unsubscribe()
	// Done is closed when the feed ends, either by Unsubscribe or by a drop.
	Done() <-chan struct{}
	// Err is nil after Unsubscribe and wraps domain.ErrSubscription after a drop.
	Err() error
}

// Source opens subscriptions on table change feeds.
type Source interface {
	Subscribe(ctx context.Context, topic Topic, h Handler) (Subscription, error)
}

// route applies the topic's table, filter and event selection to ev.
// An UPDATE that moves a row out of the filter is delivered as a DELETE of
// the old row, so scoped snapshots drop rows that left the scope.
func route(topic Topic, ev ChangeEvent) (ChangeEvent, bool) {
	if ev.Table != topic.Table {
		return ev, false
	}
	f := topic.Filter

	switch ev.Op {
	case OpInsert:
		if !f.Matches(ev.New) {
			return ev, false
		}
	case OpUpdate:
		// Partial payloads may omit the filter column; fall back to the old row.
		current := overlay(ev.Old, ev.New)
		if !f.Matches(current) {
			if len(ev.Old) == 0 || !f.Matches(ev.Old) {
				return ev, false
			}
			ev = ChangeEvent{
				Table:      ev.Table,
				Op:         OpDelete,
				Old:        ev.Old,
				ReceivedAt: ev.ReceivedAt,
			}
		}
	case OpDelete:
		if !f.Matches(ev.Row()) {
			return ev, false
		}
	default:
		return ev, false
	}

	if !topic.accepts(ev.Op) {
		return ev, false
	}
	return ev, true
}

// subscription is the Subscription shared by the sources in this package.
type subscription struct {
	cancel func()

	once sync.Once
	done chan struct{}

	mu  sync.Mutex
	err error
}

func newSubscription(cancel func()) *subscription {
	return &subscription{cancel: cancel, done: make(chan struct{})}
}

func (s *subscription) Unsubscribe() {
	s.cancel()
	s.finish(nil)
}

func (s *subscription) Done() <-chan struct{} { return s.done }

func (s *subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// finish ends the subscription once; the first caller's error wins.
func (s *subscription) finish(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	})
}
