// Package scope implements the component render-scope tree and its hooks.
//
// A scope is one component's render context: its position in the tree, a
// dirty flag, a render counter, and an ordered list of hook slots. Hook
// slots give per-scope allocations (signals, so far) a stable identity:
// the Nth hook call of any render resolves to the slot recorded by the Nth
// hook call of the first render, so hooks must never run conditionally.
//
// The arena also carries the "current scope" that establishes the active
// reactive context. It is explicit per-arena state, not a process global:
// two runtimes with their own arenas are fully isolated.
package scope

import (
	"fmt"

	"github.com/loom-ui/loom/pkg/arena"
	"github.com/loom-ui/loom/pkg/signals"
)

// NoScope is the sentinel for "no scope", used both as the root parent and
// as the idle current-scope value.
const NoScope = ^uint32(0)

// HookKind identifies what a hook slot holds.
type HookKind uint8

// HookSignal is a signal-allocation hook.
const HookSignal HookKind = 1

// Hook is one stable slot in a scope's hook list.
type Hook struct {
	Kind   HookKind
	Signal uint32 // signal key for HookSignal
}

// Scope is one node in the render-scope tree.
type Scope struct {
	Kind   uint32
	Parent uint32 // NoScope for a root scope
	Height uint32

	Hooks   []Hook
	hookIdx int

	Dirty   bool
	Renders uint64
}

// Arena owns the scopes of one runtime and threads the current reactive
// context through begin/end render brackets.
type Arena struct {
	scopes  arena.Slab[Scope]
	signals *signals.Store
	current uint32
}

// NewArena returns an empty scope arena allocating hooks from store.
func NewArena(store *signals.Store) *Arena {
	return &Arena{signals: store, current: NoScope}
}

// CreateScope allocates a scope with an application-defined kind tag.
// Parent may be NoScope for a root scope; otherwise height is parent
// height + 1.
func (a *Arena) CreateScope(kind, parent uint32) uint32 {
	var height uint32
	if parent != NoScope {
		height = a.scopes.Get(parent).Height + 1
	}
	return a.scopes.Insert(Scope{Kind: kind, Parent: parent, Height: height})
}

// CreateChildScope allocates a child of parent with the parent's kind.
func (a *Arena) CreateChildScope(parent uint32) uint32 {
	return a.CreateScope(a.scopes.Get(parent).Kind, parent)
}

// BeginRender makes id the current scope and active reactive context,
// clears its dirty flag, bumps its render counter, and resets its hook
// cursor. It returns the previously current scope for EndRender; callers
// must pair the two even when renders nest.
func (a *Arena) BeginRender(id uint32) uint32 {
	s := a.scopes.Get(id)
	s.Dirty = false
	s.Renders++
	s.hookIdx = 0
	prev := a.current
	a.current = id
	return prev
}

// EndRender restores the scope that was current before the matching
// BeginRender.
func (a *Arena) EndRender(prev uint32) {
	a.current = prev
}

// Current returns the current scope id, or NoScope outside a render.
func (a *Arena) Current() uint32 {
	return a.current
}

// UseSignalI32 is the signal hook. On the current scope's first render it
// allocates a signal holding initial and records a hook slot; on every
// later render it ignores initial and returns the key stored in the slot
// matching this call's position.
func (a *Arena) UseSignalI32(initial int32) uint32 {
	if a.current == NoScope {
		panic("scope: UseSignalI32 called outside a render")
	}
	s := a.scopes.Get(a.current)
	idx := s.hookIdx
	s.hookIdx++

	if idx < len(s.Hooks) {
		h := s.Hooks[idx]
		if h.Kind != HookSignal {
			panic(fmt.Sprintf("scope: hook %d of scope %d is %d, not a signal hook", idx, a.current, h.Kind))
		}
		return h.Signal
	}
	key := a.signals.Create(signals.Int(initial))
	s.Hooks = append(s.Hooks, Hook{Kind: HookSignal, Signal: key})
	return key
}

// MarkDirty flags id for re-render. Marking a dead scope is a no-op; a
// signal write may race a teardown.
func (a *Arena) MarkDirty(id uint32) {
	if !a.scopes.Contains(id) {
		return
	}
	a.scopes.Get(id).Dirty = true
}

// IsDirty reports whether id is flagged for re-render.
func (a *Arena) IsDirty(id uint32) bool {
	return a.scopes.Get(id).Dirty
}

// Height returns id's depth in the scope tree.
func (a *Arena) Height(id uint32) uint32 {
	return a.scopes.Get(id).Height
}

// Parent returns id's parent, or NoScope.
func (a *Arena) Parent(id uint32) uint32 {
	return a.scopes.Get(id).Parent
}

// RenderCount returns the number of completed BeginRender calls on id.
func (a *Arena) RenderCount(id uint32) uint64 {
	return a.scopes.Get(id).Renders
}

// HookCount returns the number of recorded hook slots on id.
func (a *Arena) HookCount(id uint32) int {
	return len(a.scopes.Get(id).Hooks)
}

// Contains reports whether id names a live scope.
func (a *Arena) Contains(id uint32) bool {
	return a.scopes.Contains(id)
}

// Len returns the number of live scopes.
func (a *Arena) Len() int {
	return a.scopes.Len()
}

// DestroyScope tears down id: its hook signals are destroyed and its slot
// freed for reuse. Destroying a dead scope is a no-op.
func (a *Arena) DestroyScope(id uint32) {
	if !a.scopes.Contains(id) {
		return
	}
	s := a.scopes.Get(id)
	for _, h := range s.Hooks {
		if h.Kind == HookSignal {
			a.signals.Destroy(h.Signal)
		}
	}
	a.scopes.Remove(id)
	if a.current == id {
		a.current = NoScope
	}
}

// Dirty returns the ids of all dirty scopes ordered by height, parents
// before children, so re-renders run top down.
func (a *Arena) DirtyScopes() []uint32 {
	var out []uint32
	a.scopes.Range(func(k uint32, s *Scope) {
		if s.Dirty {
			out = append(out, k)
		}
	})
	// Insertion sort by height; dirty sets are small.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && a.Height(out[j-1]) > a.Height(out[j]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
