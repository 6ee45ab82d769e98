// Package signals implements the versioned reactive cell store.
//
// Each signal is a value cell with a monotonically increasing version and a
// deduplicated set of subscriber ids (scope ids in practice). Writes bump
// the version and queue every current subscriber into a dirty set; the
// runtime drains that set once per turn to schedule re-renders. The store
// never calls back into subscribers, which keeps it free of re-entrancy.
package signals

import "github.com/loom-ui/loom/pkg/arena"

// ValueKind tags a signal value.
type ValueKind uint8

const (
	KindInt  ValueKind = iota // int32 payload
	KindBool                  // boolean payload
	KindText                  // string payload
)

// Value is a tagged signal value.
type Value struct {
	Kind ValueKind
	Int  int32
	Bool bool
	Text string
}

// Int returns an integer value.
func Int(v int32) Value { return Value{Kind: KindInt, Int: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// Text returns a string value.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// cell is one reactive slot.
type cell struct {
	value   Value
	version uint64
	subs    []uint32
}

// Store owns the signal cells of one runtime instance.
type Store struct {
	cells arena.Slab[cell]

	// dirty queues subscriber ids touched by writes this turn, deduplicated.
	dirty   []uint32
	dirtyIn map[uint32]struct{}
}

// NewStore returns an empty signal store.
func NewStore() *Store {
	return &Store{dirtyIn: make(map[uint32]struct{})}
}

// Create allocates a cell holding v and returns its key. Keys of destroyed
// cells are reused, most recently destroyed first.
func (s *Store) Create(v Value) uint32 {
	return s.cells.Insert(cell{value: v})
}

// Peek returns the value at key without subscribing anything.
func (s *Store) Peek(key uint32) Value {
	return s.cells.Get(key).value
}

// ReadTracked returns the value at key and subscribes sub, idempotently.
func (s *Store) ReadTracked(key, sub uint32) Value {
	c := s.cells.Get(key)
	s.subscribeCell(c, sub)
	return c.value
}

// Write stores v at key, increments the version, and queues every current
// subscriber into the dirty set. Re-queuing a subscriber already dirty
// this turn is a no-op.
func (s *Store) Write(key uint32, v Value) {
	c := s.cells.Get(key)
	c.value = v
	c.version++
	for _, sub := range c.subs {
		if _, queued := s.dirtyIn[sub]; queued {
			continue
		}
		s.dirtyIn[sub] = struct{}{}
		s.dirty = append(s.dirty, sub)
	}
}

// Version returns the write count of the cell at key.
func (s *Store) Version(key uint32) uint64 {
	return s.cells.Get(key).version
}

// Subscribe adds sub to key's subscriber set, idempotently.
func (s *Store) Subscribe(key, sub uint32) {
	s.subscribeCell(s.cells.Get(key), sub)
}

// Unsubscribe removes sub from key's subscriber set. Unknown subscribers
// are ignored.
func (s *Store) Unsubscribe(key, sub uint32) {
	c := s.cells.Get(key)
	for i, existing := range c.subs {
		if existing == sub {
			c.subs[i] = c.subs[len(c.subs)-1]
			c.subs = c.subs[:len(c.subs)-1]
			return
		}
	}
}

// SubscriberCount returns the size of key's subscriber set.
func (s *Store) SubscriberCount(key uint32) int {
	return len(s.cells.Get(key).subs)
}

// Destroy frees the cell at key for reuse. Destroying a dead key is a
// no-op.
func (s *Store) Destroy(key uint32) {
	s.cells.Remove(key)
}

// Contains reports whether key names a live cell.
func (s *Store) Contains(key uint32) bool {
	return s.cells.Contains(key)
}

// UserCount returns the number of live cells.
func (s *Store) UserCount() int {
	return s.cells.Len()
}

// DrainDirty returns the subscribers queued since the last drain, in queue
// order, and clears the dirty set for the next turn.
func (s *Store) DrainDirty() []uint32 {
	if len(s.dirty) == 0 {
		return nil
	}
	out := s.dirty
	s.dirty = nil
	s.dirtyIn = make(map[uint32]struct{})
	return out
}

func (s *Store) subscribeCell(c *cell, sub uint32) {
	for _, existing := range c.subs {
		if existing == sub {
			return
		}
	}
	c.subs = append(c.subs, sub)
}
