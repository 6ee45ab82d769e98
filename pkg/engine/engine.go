// Package engine materializes and diffs vnode trees, emitting mutation
// records through the wire writer.
//
// The create engine mounts a vnode tree for the first time: it allocates
// element ids, writes the records that build the tree host-side, and
// attaches mount state to the vnodes. The diff engine compares a mounted
// vnode against its successor, emits only the mutations needed, and moves
// the mount state forward so the successor becomes a valid "old" side for
// the next pass.
package engine

import (
	"strconv"

	"github.com/loom-ui/loom/pkg/arena"
	"github.com/loom-ui/loom/pkg/template"
	"github.com/loom-ui/loom/pkg/vnode"
	"github.com/loom-ui/loom/pkg/wire"
)

// ListenerTable tracks which handler is bound to (element, event) pairs as
// listener records are emitted, so the host bridge can resolve incoming
// events. Implementations may be nil-free no-ops.
type ListenerTable interface {
	Bind(el arena.ElementID, event string, handler uint32)
	Unbind(el arena.ElementID, event string)
}

// Engine walks vnodes against templates and writes mutations. Store is the
// current render's vnode arena; the previous render's store is passed into
// DiffNode explicitly.
type Engine struct {
	Templates *template.Registry
	Store     *vnode.Store
	Elements  *arena.ElementArena
	W         *wire.Writer
	Listeners ListenerTable
}

// New returns an engine over the given collaborators. listeners may be nil
// when no event routing is needed (tests, static output).
func New(reg *template.Registry, store *vnode.Store, elements *arena.ElementArena, w *wire.Writer, listeners ListenerTable) *Engine {
	return &Engine{Templates: reg, Store: store, Elements: elements, W: w, Listeners: listeners}
}

func (e *Engine) bind(el arena.ElementID, event string, handler uint32) {
	if e.Listeners != nil {
		e.Listeners.Bind(el, event, handler)
	}
}

func (e *Engine) unbind(el arena.ElementID, event string) {
	if e.Listeners != nil {
		e.Listeners.Unbind(el, event)
	}
}

// attrString renders a non-event attribute value for the wire. ValNone
// renders empty, which the host treats as clearing the attribute.
func attrString(v vnode.AttrValue) string {
	switch v.Kind {
	case vnode.ValText:
		return v.Text
	case vnode.ValInt:
		return strconv.FormatInt(v.Int, 10)
	case vnode.ValFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case vnode.ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Roots returns the mounted root element ids of the vnode at idx in
// document order, descending through fragments.
func Roots(s *vnode.Store, idx int) []arena.ElementID {
	return collectRoots(s, idx)
}

// collectRoots gathers the mounted root ids of a vnode in document order,
// descending through fragments.
func collectRoots(s *vnode.Store, idx int) []arena.ElementID {
	v := s.At(idx)
	if v.Kind != vnode.KindFragment {
		return v.Mount.Roots
	}
	var out []arena.ElementID
	for _, c := range v.Children {
		out = append(out, collectRoots(s, c)...)
	}
	return out
}

// ReleaseNode frees every element id held by the mounted vnode at idx and
// drops its listener bindings, without emitting mutations. Callers emit
// their own Remove records first when the subtree is still attached.
func (e *Engine) ReleaseNode(s *vnode.Store, idx int) {
	e.release(s, idx)
}

// release frees every element id held by a discarded vnode's mount state
// and drops its listener bindings. Free is a no-op on already-freed ids,
// so aliasing between roots, slots, and attribute targets is harmless.
func (e *Engine) release(s *vnode.Store, idx int) {
	v := s.At(idx)
	if v.Kind == vnode.KindFragment {
		for _, c := range v.Children {
			e.release(s, c)
		}
		return
	}
	if v.Kind == vnode.KindTemplateRef {
		for slot, a := range v.DynAttrs {
			if a.Value.Kind == vnode.ValEvent && slot < len(v.Mount.AttrEls) {
				e.unbind(v.Mount.AttrEls[slot], a.Name)
			}
		}
		for _, c := range v.DynNodes {
			e.release(s, c)
		}
		for _, id := range v.Mount.AttrEls {
			e.Elements.Free(id)
		}
	}
	for _, id := range v.Mount.Roots {
		e.Elements.Free(id)
	}
}
