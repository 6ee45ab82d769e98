// Package vnode holds the per-render virtual node model.
//
// VNodes are built fresh every render pass into an append-only Store and
// consumed exactly once by the create or diff engine. Trees are linked by
// store indices, not pointers, mirroring the flat layout of templates.
// Mount state is the only part of a VNode that mutates after construction.
package vnode

import "github.com/loom-ui/loom/pkg/arena"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindTemplateRef Kind = iota // instance of a registered template
	KindText                    // bare text node
	KindPlaceholder             // empty anchor node
	KindFragment                // grouping of child vnodes
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindTemplateRef:
		return "TemplateRef"
	case KindText:
		return "Text"
	case KindPlaceholder:
		return "Placeholder"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// ValueKind tags a dynamic attribute value.
type ValueKind uint8

const (
	ValNone  ValueKind = iota // attribute absent / cleared
	ValText                   // string value
	ValInt                    // integer value
	ValFloat                  // float value
	ValBool                   // boolean value
	ValEvent                  // event-listener reference (handler id)
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValNone:
		return "None"
	case ValText:
		return "Text"
	case ValInt:
		return "Int"
	case ValFloat:
		return "Float"
	case ValBool:
		return "Bool"
	case ValEvent:
		return "Event"
	default:
		return "Unknown"
	}
}

// AttrValue is a tagged dynamic attribute value.
type AttrValue struct {
	Kind    ValueKind
	Text    string
	Int     int64
	Float   float64
	Bool    bool
	Handler uint32 // ValEvent: handler registry id
}

// TextValue returns a text-tagged value.
func TextValue(s string) AttrValue { return AttrValue{Kind: ValText, Text: s} }

// IntValue returns an integer-tagged value.
func IntValue(v int64) AttrValue { return AttrValue{Kind: ValInt, Int: v} }

// FloatValue returns a float-tagged value.
func FloatValue(v float64) AttrValue { return AttrValue{Kind: ValFloat, Float: v} }

// BoolValue returns a boolean-tagged value.
func BoolValue(v bool) AttrValue { return AttrValue{Kind: ValBool, Bool: v} }

// EventValue returns an event-reference value for a handler id.
func EventValue(handler uint32) AttrValue { return AttrValue{Kind: ValEvent, Handler: handler} }

// NoneValue returns the absent value.
func NoneValue() AttrValue { return AttrValue{Kind: ValNone} }

// Equal reports whether two values have the same kind and payload.
func (v AttrValue) Equal(o AttrValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValText:
		return v.Text == o.Text
	case ValInt:
		return v.Int == o.Int
	case ValFloat:
		return v.Float == o.Float
	case ValBool:
		return v.Bool == o.Bool
	case ValEvent:
		return v.Handler == o.Handler
	default: // ValNone
		return true
	}
}

// DynAttr is one dynamic attribute filler: the attribute (or event) name
// plus its tagged value. Slot order matches the template's dynamic
// attribute slots.
type DynAttr struct {
	Name  string
	Value AttrValue
}

// MountState carries the element ids assigned when a vnode was mounted.
// It is attached by the create engine and transferred forward onto the
// replacement vnode by the diff engine.
type MountState struct {
	// Roots holds the id of each of this vnode's roots.
	Roots []arena.ElementID

	// SlotIDs holds the filler id per dynamic node slot (TemplateRef).
	SlotIDs []arena.ElementID

	// AttrEls holds the resolved target element per dynamic attribute
	// slot (TemplateRef).
	AttrEls []arena.ElementID
}

// VNode is one render's instantiation of a template or a leaf node.
type VNode struct {
	Kind Kind

	// TemplateRef fields.
	TemplateID uint32
	DynNodes   []int // store indices of fillers, in slot order
	DynAttrs   []DynAttr
	Key        string

	// Text content (KindText).
	Text string

	// Fragment children as store indices.
	Children []int

	// Mount state, written after creation.
	Mount MountState
}

// Store is the per-render vnode arena. Indices are stable for the lifetime
// of one render pass; Reset discards everything for the next pass.
type Store struct {
	nodes []VNode
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Push appends n and returns its index.
func (s *Store) Push(n VNode) int {
	s.nodes = append(s.nodes, n)
	return len(s.nodes) - 1
}

// At returns a pointer to the vnode at index i.
func (s *Store) At(i int) *VNode {
	return &s.nodes[i]
}

// Len returns the number of vnodes pushed.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Reset empties the store, keeping its capacity for the next render.
func (s *Store) Reset() {
	s.nodes = s.nodes[:0]
}

// PushText is shorthand for pushing a text vnode.
func (s *Store) PushText(content string) int {
	return s.Push(VNode{Kind: KindText, Text: content})
}

// PushPlaceholder is shorthand for pushing a placeholder vnode.
func (s *Store) PushPlaceholder() int {
	return s.Push(VNode{Kind: KindPlaceholder})
}

// PushFragment is shorthand for pushing a fragment over child indices.
func (s *Store) PushFragment(children ...int) int {
	return s.Push(VNode{Kind: KindFragment, Children: children})
}
