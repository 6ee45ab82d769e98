// Package handler implements the event-handler registry and its dispatch
// actions.
//
// A handler entry binds an event name on some element to a small action
// against the signal store: set, add, subtract, toggle, or copy the input
// text. Entries are slot-allocated with the same free-list discipline as
// the other arenas and are bulk-removed when their owning scope tears
// down.
package handler

import (
	"github.com/loom-ui/loom/pkg/arena"
	"github.com/loom-ui/loom/pkg/signals"
)

// Action tags what a handler does to its target signal.
type Action uint8

const (
	ActionSet          Action = iota // write the operand
	ActionAdd                        // add the operand
	ActionSub                        // subtract the operand
	ActionToggle                     // invert a boolean signal
	ActionSetFromInput               // write the event's string payload
	ActionCustom                     // deferred to application routing
)

// String returns the string representation of the Action.
func (a Action) String() string {
	switch a {
	case ActionSet:
		return "Set"
	case ActionAdd:
		return "Add"
	case ActionSub:
		return "Sub"
	case ActionToggle:
		return "Toggle"
	case ActionSetFromInput:
		return "SetFromInput"
	case ActionCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Entry is one registered handler.
type Entry struct {
	Scope   uint32 // owning scope id
	Action  Action
	Signal  uint32 // target signal key
	Operand int32
	Event   string // DOM event name, e.g. "click"
}

// Registry stores handler entries for one runtime.
type Registry struct {
	entries arena.Slab[Entry]
}

// NewRegistry returns an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register stores e and returns its handler id, reusing freed slots first.
func (r *Registry) Register(e Entry) uint32 {
	return r.entries.Insert(e)
}

// Get returns the entry for id. It panics for a dead id.
func (r *Registry) Get(id uint32) Entry {
	return *r.entries.Get(id)
}

// Contains reports whether id names a live entry.
func (r *Registry) Contains(id uint32) bool {
	return r.entries.Contains(id)
}

// ScopeID returns the owning scope of id.
func (r *Registry) ScopeID(id uint32) uint32 { return r.entries.Get(id).Scope }

// Action returns the action tag of id.
func (r *Registry) Action(id uint32) Action { return r.entries.Get(id).Action }

// SignalKey returns the target signal of id.
func (r *Registry) SignalKey(id uint32) uint32 { return r.entries.Get(id).Signal }

// Operand returns the integer operand of id.
func (r *Registry) Operand(id uint32) int32 { return r.entries.Get(id).Operand }

// EventName returns the event name of id.
func (r *Registry) EventName(id uint32) string { return r.entries.Get(id).Event }

// Remove frees id. Removing a dead id is a no-op.
func (r *Registry) Remove(id uint32) {
	r.entries.Remove(id)
}

// RemoveForScope frees every entry owned by scope and returns how many
// were removed. Used on component teardown.
func (r *Registry) RemoveForScope(scope uint32) int {
	ids := r.HandlersForScope(scope)
	for _, id := range ids {
		r.entries.Remove(id)
	}
	return len(ids)
}

// HandlersForScope returns the live handler ids owned by scope, in id
// order.
func (r *Registry) HandlersForScope(scope uint32) []uint32 {
	var out []uint32
	r.entries.Range(func(k uint32, e *Entry) {
		if e.Scope == scope {
			out = append(out, k)
		}
	})
	return out
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return r.entries.Len()
}

// Payload carries the event payload into Apply.
type Payload struct {
	Kind PayloadKind
	Int  int32
	Text string
}

// PayloadKind tags a dispatch payload.
type PayloadKind uint8

const (
	PayloadNone PayloadKind = iota
	PayloadInt
	PayloadText
)

// NoPayload returns the empty payload.
func NoPayload() Payload { return Payload{Kind: PayloadNone} }

// IntPayload returns an integer payload.
func IntPayload(v int32) Payload { return Payload{Kind: PayloadInt, Int: v} }

// TextPayload returns a string payload.
func TextPayload(s string) Payload { return Payload{Kind: PayloadText, Text: s} }

// Apply runs e's action against store. It reports whether the event was
// handled; ActionCustom always defers to application-level routing, and
// ActionSetFromInput requires a text payload.
func Apply(e Entry, store *signals.Store, p Payload) bool {
	switch e.Action {
	case ActionSet:
		store.Write(e.Signal, signals.Int(e.Operand))
	case ActionAdd:
		cur := store.Peek(e.Signal)
		store.Write(e.Signal, signals.Int(cur.Int+e.Operand))
	case ActionSub:
		cur := store.Peek(e.Signal)
		store.Write(e.Signal, signals.Int(cur.Int-e.Operand))
	case ActionToggle:
		cur := store.Peek(e.Signal)
		store.Write(e.Signal, signals.Bool(!cur.Bool))
	case ActionSetFromInput:
		if p.Kind != PayloadText {
			return false
		}
		store.Write(e.Signal, signals.Text(p.Text))
	default: // ActionCustom and unknown tags
		return false
	}
	return true
}
