// Package arena provides the dense slot arenas the runtime is built on.
//
// Every identifier the runtime hands out (element ids, signal keys, handler
// ids, scope ids) names a slot in one of these arenas: a growable slice of
// slots plus a LIFO free list. Freed slots are reused before the storage
// grows, so ids stay dense under steady churn. The arenas are single-owner
// structures with no internal locking; see the runtime's execution model.
package arena

import "fmt"

// ElementID is an opaque handle naming a host-side DOM node.
//
// The zero value is the reserved root and is never returned by Alloc.
type ElementID uint32

// RootID is the pre-assigned handle for the host document root.
const RootID ElementID = 0

// ElementArena allocates and recycles ElementIDs.
type ElementArena struct {
	alive []bool
	free  []ElementID
	users int
}

// NewElementArena returns an arena with the root slot pre-allocated.
func NewElementArena() *ElementArena {
	return &ElementArena{
		alive: []bool{true}, // slot 0 is the root
	}
}

// Alloc returns a live ElementID, reusing the most recently freed slot
// before growing the arena.
func (a *ElementArena) Alloc() ElementID {
	a.users++
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.alive[id] = true
		return id
	}
	id := ElementID(len(a.alive))
	a.alive = append(a.alive, true)
	return id
}

// Free returns id to the free list. Freeing the root or an id that is
// already free is a no-op.
func (a *ElementArena) Free(id ElementID) {
	if id == RootID || int(id) >= len(a.alive) || !a.alive[id] {
		return
	}
	a.alive[id] = false
	a.free = append(a.free, id)
	a.users--
}

// IsAlive reports whether id currently names an allocated slot.
// The root is always alive.
func (a *ElementArena) IsAlive(id ElementID) bool {
	return int(id) < len(a.alive) && a.alive[id]
}

// UserCount returns the number of live ids excluding the root.
func (a *ElementArena) UserCount() int {
	return a.users
}

// Cap returns the total number of slots ever grown, including the root.
func (a *ElementArena) Cap() int {
	return len(a.alive)
}

// Slab is a generic slot arena: dense storage, LIFO free-list reuse,
// numeric keys. Signal cells, handler entries, and scopes all live in one.
type Slab[T any] struct {
	items []T
	alive []bool
	free  []uint32
	count int
}

// Insert stores v in the lowest reusable slot and returns its key.
func (s *Slab[T]) Insert(v T) uint32 {
	s.count++
	if n := len(s.free); n > 0 {
		k := s.free[n-1]
		s.free = s.free[:n-1]
		s.items[k] = v
		s.alive[k] = true
		return k
	}
	k := uint32(len(s.items))
	s.items = append(s.items, v)
	s.alive = append(s.alive, true)
	return k
}

// Remove frees the slot at k. Removing a dead or out-of-range key is a
// no-op; it returns whether a live slot was actually freed.
func (s *Slab[T]) Remove(k uint32) bool {
	if int(k) >= len(s.items) || !s.alive[k] {
		return false
	}
	var zero T
	s.items[k] = zero
	s.alive[k] = false
	s.free = append(s.free, k)
	s.count--
	return true
}

// Get returns a pointer to the slot at k. It panics if k is dead; callers
// holding ids from outside the current cycle must check Contains first.
func (s *Slab[T]) Get(k uint32) *T {
	if int(k) >= len(s.items) || !s.alive[k] {
		panic(fmt.Sprintf("arena: access to dead slot %d", k))
	}
	return &s.items[k]
}

// Contains reports whether k names a live slot.
func (s *Slab[T]) Contains(k uint32) bool {
	return int(k) < len(s.items) && s.alive[k]
}

// Len returns the number of live slots.
func (s *Slab[T]) Len() int {
	return s.count
}

// Range calls fn for every live slot in key order.
func (s *Slab[T]) Range(fn func(k uint32, v *T)) {
	for i := range s.items {
		if s.alive[i] {
			fn(uint32(i), &s.items[i])
		}
	}
}
