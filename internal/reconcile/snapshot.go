// Package reconcile keeps in-memory, ordered, de-duplicated snapshots of
// backend tables consistent with an initial fetch plus a live change feed.
package reconcile

import (
	"slices"
	"sort"
)

// Snapshot is an ordered collection keyed by row identifier. No two items
// share a key. It is not safe for concurrent use; Reconciler serializes
// access.
type Snapshot[T any] struct {
	key   func(T) string
	less  func(a, b T) bool
	limit int

	items []T
	index map[string]int
}

// NewSnapshot creates an empty snapshot. less defines the canonical order
// (nil keeps arrival order, appending new items). limit > 0 caps the length
// by dropping items from the tail.
func NewSnapshot[T any](key func(T) string, less func(a, b T) bool, limit int) *Snapshot[T] {
	return &Snapshot[T]{
		key:   key,
		less:  less,
		limit: limit,
		index: make(map[string]int),
	}
}

// Load replaces the contents with items in canonical order. Later
// duplicates of a key are dropped.
func (s *Snapshot[T]) Load(items []T) {
	s.items = make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := s.key(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		s.items = append(s.items, it)
	}
	if s.less != nil {
		sort.SliceStable(s.items, func(i, j int) bool { return s.less(s.items[i], s.items[j]) })
	}
	s.truncate()
	s.reindex()
}

// Insert adds item at its sorted position. It returns false, leaving the
// snapshot unchanged, when the key is already present. An item that sorts
// past the limit is dropped immediately and Insert also returns false.
func (s *Snapshot[T]) Insert(item T) bool {
	k := s.key(item)
	if _, ok := s.index[k]; ok {
		return false
	}

	pos := len(s.items)
	if s.less != nil {
		// After any equal elements, so arrival order breaks ties.
		pos = sort.Search(len(s.items), func(i int) bool { return s.less(item, s.items[i]) })
	}
	s.items = slices.Insert(s.items, pos, item)
	s.truncate()
	s.reindex()
	_, kept := s.index[k]
	return kept
}

// Replace overwrites the item with the same key. With an order defined the
// item moves to its sorted position. It returns false when the key is absent.
func (s *Snapshot[T]) Replace(item T) bool {
	i, ok := s.index[s.key(item)]
	if !ok {
		return false
	}
	if s.less == nil {
		s.items[i] = item
		return true
	}
	s.items = slices.Delete(s.items, i, i+1)
	pos := sort.Search(len(s.items), func(j int) bool { return s.less(item, s.items[j]) })
	s.items = slices.Insert(s.items, pos, item)
	s.reindex()
	return true
}

// Remove deletes the item with key k. It returns false when absent.
func (s *Snapshot[T]) Remove(k string) bool {
	i, ok := s.index[k]
	if !ok {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.reindex()
	return true
}

// Get returns the item with key k.
func (s *Snapshot[T]) Get(k string) (T, bool) {
	i, ok := s.index[k]
	if !ok {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// Len returns the number of items.
func (s *Snapshot[T]) Len() int { return len(s.items) }

// Items returns a copy of the items in order, never nil.
func (s *Snapshot[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Keys returns the keys in order.
func (s *Snapshot[T]) Keys() []string {
	keys := make([]string, len(s.items))
	for i, it := range s.items {
		keys[i] = s.key(it)
	}
	return keys
}

func (s *Snapshot[T]) truncate() {
	if s.limit > 0 && len(s.items) > s.limit {
		clear(s.items[s.limit:])
		s.items = s.items[:s.limit]
	}
}

func (s *Snapshot[T]) reindex() {
	clear(s.index)
	for i, it := range s.items {
		s.index[s.key(it)] = i
	}
}
