package reconcile

import (
	"fmt"

	"github.com/heartmarshall/solarsync/internal/domain"
	"github.com/heartmarshall/solarsync/internal/realtime"
)

// PayloadMode states what an UPDATE event of a table carries.
type PayloadMode int

const (
	// PayloadFull: the new row is complete and replaces the stored row.
	PayloadFull PayloadMode = iota
	// PayloadPartial: the new row holds only changed columns plus id;
	// columns absent from it keep their stored value.
	PayloadPartial
)

func (m PayloadMode) String() string {
	if m == PayloadPartial {
		return "partial"
	}
	return "full"
}

// Outcome is the result of applying one event to a snapshot.
type Outcome string

const (
	OutcomeInserted  Outcome = "inserted"
	OutcomeDuplicate Outcome = "duplicate" // INSERT for a present id, no-op
	OutcomeUpdated   Outcome = "updated"
	OutcomeHealed    Outcome = "healed"  // UPDATE for an absent id, inserted
	OutcomeDeleted   Outcome = "deleted"
	OutcomeMissing   Outcome = "missing"  // DELETE for an absent id, no-op
	OutcomeRejected  Outcome = "rejected" // undecodable payload, no-op
	OutcomeDropped   Outcome = "dropped"  // sorted past the snapshot limit
)

// Mutated reports whether the snapshot changed.
func (o Outcome) Mutated() bool {
	switch o {
	case OutcomeInserted, OutcomeUpdated, OutcomeHealed, OutcomeDeleted:
		return true
	}
	return false
}

// Binding connects one table's change feed to a snapshot of T.
type Binding[T any] struct {
	Table string
	// ScopeColumn is the column filtered for client and installer scopes.
	// Empty uses the scope's own column (client_id / installer_id).
	ScopeColumn string
	Mode        PayloadMode

	// Decode builds a T from a full row. Defaults to a Codec.
	Decode func(realtime.Row) (T, error)
	// Patch writes a partial row over a stored T. Defaults to a Codec.
	Patch func(base T, row realtime.Row) (T, error)
	// Normalize runs on every decoded or patched value before it is stored,
	// e.g. to derive columns that are not sent by the database.
	Normalize func(T) T
}

// Topic returns the subscription topic for scope.
func (b Binding[T]) Topic(scope domain.Scope) realtime.Topic {
	t := realtime.Topic{Table: b.Table, Event: realtime.OpAll}
	if scope.Role.IsAdmin() {
		return t
	}
	col := b.ScopeColumn
	if col == "" {
		col = scope.Column()
	}
	t.Filter = realtime.Eq(col, scope.UserID.String())
	return t
}

func (b Binding[T]) withDefaults() Binding[T] {
	if b.Decode == nil || b.Patch == nil {
		codec := NewCodec[T]()
		if b.Decode == nil {
			b.Decode = codec.Decode
		}
		if b.Patch == nil {
			b.Patch = codec.Patch
		}
	}
	if b.Normalize == nil {
		b.Normalize = func(v T) T { return v }
	}
	return b
}

// Apply merges ev into s following the binding's payload contract:
//
//   - INSERT adds the row unless its id is present (duplicate delivery).
//   - UPDATE replaces the stored row (full) or overlays the payload onto it
//     (partial). An UPDATE for an absent id inserts the row built from the
//     payload, with a partial payload overlaid on the event's old row.
//   - DELETE removes by id and is a no-op when absent.
//
// Errors are returned only with OutcomeRejected; s is unchanged then.
func Apply[T any](s *Snapshot[T], b Binding[T], ev realtime.ChangeEvent) (Outcome, error) {
	b = b.withDefaults()
	return b.apply(s, ev)
}

func (b Binding[T]) apply(s *Snapshot[T], ev realtime.ChangeEvent) (Outcome, error) {
	id := ev.Key()
	if id == "" {
		return OutcomeRejected, fmt.Errorf("%s %s: event without id", ev.Table, ev.Op)
	}

	switch ev.Op {
	case realtime.OpInsert:
		if _, ok := s.Get(id); ok {
			return OutcomeDuplicate, nil
		}
		item, err := b.Decode(ev.New)
		if err != nil {
			return OutcomeRejected, fmt.Errorf("%s %s %s: %w", ev.Table, ev.Op, id, err)
		}
		item = b.Normalize(item)
		if k := s.key(item); k != id {
			return OutcomeRejected, fmt.Errorf("%s %s %s: payload id %q does not match", ev.Table, ev.Op, id, k)
		}
		if !s.Insert(item) {
			return OutcomeDropped, nil
		}
		return OutcomeInserted, nil

	case realtime.OpUpdate:
		stored, ok := s.Get(id)
		var (
			item T
			err  error
		)
		switch {
		case ok && b.Mode == PayloadPartial:
			item, err = b.Patch(stored, ev.New)
		case b.Mode == PayloadPartial && len(ev.Old) > 0:
			// The old row is complete; the payload holds only what changed.
			if item, err = b.Decode(ev.Old); err == nil {
				item, err = b.Patch(item, ev.New)
			}
		default:
			item, err = b.Decode(ev.New)
		}
		if err != nil {
			return OutcomeRejected, fmt.Errorf("%s %s %s: %w", ev.Table, ev.Op, id, err)
		}
		item = b.Normalize(item)
		if k := s.key(item); k != id {
			return OutcomeRejected, fmt.Errorf("%s %s %s: payload id %q does not match", ev.Table, ev.Op, id, k)
		}

		if ok {
			s.Replace(item)
			return OutcomeUpdated, nil
		}
		if !s.Insert(item) {
			return OutcomeDropped, nil
		}
		return OutcomeHealed, nil

	case realtime.OpDelete:
		if s.Remove(id) {
			return OutcomeDeleted, nil
		}
		return OutcomeMissing, nil
	}

	return OutcomeRejected, fmt.Errorf("%s: unsupported operation %q", ev.Table, ev.Op)
}
