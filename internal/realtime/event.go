// Package realtime delivers row change events from the backing tables.
//
// Delivery is at-least-once with no ordering guarantee across rows and no
// gap detection across reconnects; consumers must merge idempotently.
package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

// Op is the kind of row change.
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
	// OpAll subscribes to every operation.
	OpAll Op = "*"
)

func (o Op) String() string { return string(o) }

func (o Op) IsValid() bool {
	switch o {
	case OpInsert, OpUpdate, OpDelete:
		return true
	}
	return false
}

// Row is a JSON-decoded table row. For partial payloads it holds only the
// changed columns plus "id".
type Row map[string]any

// ID returns the row identifier in string form, or "" if absent.
func (r Row) ID() string {
	s, _ := r.String("id")
	return s
}

// String returns the string form of a column value.
func (r Row) String(column string) (string, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case []byte:
		return string(t), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}

// Has reports whether the column is present in the payload.
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// overlay returns base with every column of top written over it.
func overlay(base, top Row) Row {
	out := make(Row, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

// ChangeEvent is a single INSERT, UPDATE or DELETE notification.
type ChangeEvent struct {
	Table      string
	Op         Op
	New        Row
	Old        Row
	ReceivedAt time.Time
}

// Row returns the row the event is about: the new row, or the old row for
// a DELETE.
func (e ChangeEvent) Row() Row {
	if e.Op == OpDelete {
		if len(e.Old) > 0 {
			return e.Old
		}
	}
	return e.New
}

// Key returns the row identifier the event refers to.
func (e ChangeEvent) Key() string {
	if id := e.Row().ID(); id != "" {
		return id
	}
	if id := e.Old.ID(); id != "" {
		return id
	}
	return e.New.ID()
}

// Handler receives routed events.
type Handler func(ChangeEvent)
