package engine

import (
	"fmt"

	"github.com/loom-ui/loom/pkg/arena"
	"github.com/loom-ui/loom/pkg/vnode"
)

// CreateNode mounts the vnode at idx for the first time and returns the
// number of roots it placed. Mount state is written back onto the vnode.
func (e *Engine) CreateNode(idx int) uint32 {
	v := e.Store.At(idx)
	switch v.Kind {
	case vnode.KindText:
		id := e.Elements.Alloc()
		e.W.CreateTextNode(id, v.Text)
		v.Mount.Roots = []arena.ElementID{id}
		return 1

	case vnode.KindPlaceholder:
		id := e.Elements.Alloc()
		e.W.CreatePlaceholder(id)
		v.Mount.Roots = []arena.ElementID{id}
		return 1

	case vnode.KindFragment:
		var n uint32
		for _, c := range v.Children {
			n += e.CreateNode(c)
		}
		return n

	case vnode.KindTemplateRef:
		return e.createTemplateRef(v)

	default:
		panic(fmt.Sprintf("engine: create of unknown vnode kind %d", v.Kind))
	}
}

func (e *Engine) createTemplateRef(v *vnode.VNode) uint32 {
	tpl := e.Templates.Get(v.TemplateID)

	roots := make([]arena.ElementID, len(tpl.Roots))
	for i := range tpl.Roots {
		id := e.Elements.Alloc()
		e.W.LoadTemplate(tpl.ID, uint32(i), id)
		roots[i] = id
	}
	v.Mount.Roots = roots

	// Realize dynamic node fillers in slot order. Each filler replaces the
	// placeholder the template left at its path; a placeholder nested below
	// a root is first named via AssignId so later mutations can target it.
	slotIDs := make([]arena.ElementID, tpl.DynNodeCount())
	for slot, nodeIdx := range tpl.DynNodeIndex {
		filler := e.Store.At(v.DynNodes[slot])
		id := e.Elements.Alloc()
		path := tpl.Path(nodeIdx)
		if len(path) > 1 {
			e.W.AssignID(path, id)
		}
		switch filler.Kind {
		case vnode.KindText:
			e.W.CreateTextNode(id, filler.Text)
		case vnode.KindPlaceholder:
			e.W.CreatePlaceholder(id)
		default:
			panic(fmt.Sprintf("engine: dynamic slot %d filled with %s, want Text or Placeholder", slot, filler.Kind))
		}
		e.W.ReplacePlaceholder(path, 1)
		filler.Mount.Roots = []arena.ElementID{id}
		slotIDs[slot] = id

		// A dynamic node that is itself a template root replaces the
		// loaded root outright.
		if p := tpl.RootPosition(nodeIdx); p >= 0 {
			e.Elements.Free(roots[p])
			roots[p] = id
		}
	}
	v.Mount.SlotIDs = slotIDs

	// Resolve target elements and apply dynamic attributes. Elements
	// shared by several attribute slots are named once.
	attrEls := make([]arena.ElementID, tpl.DynAttrCount())
	resolved := make(map[int]arena.ElementID, len(tpl.Roots))
	for i, r := range tpl.Roots {
		resolved[r] = roots[i]
	}
	for slot, attrIdx := range tpl.DynAttrIndex {
		nodeIdx := tpl.AttrAt(attrIdx).Node
		el, ok := resolved[nodeIdx]
		if !ok {
			el = e.Elements.Alloc()
			e.W.AssignID(tpl.Path(nodeIdx), el)
			resolved[nodeIdx] = el
		}
		attrEls[slot] = el

		a := v.DynAttrs[slot]
		switch a.Value.Kind {
		case vnode.ValEvent:
			e.W.NewEventListener(el, a.Name)
			e.bind(el, a.Name, a.Value.Handler)
		case vnode.ValNone:
			// Absent at mount: nothing to emit.
		default:
			e.W.SetAttribute(el, 0, a.Name, attrString(a.Value))
		}
	}
	v.Mount.AttrEls = attrEls

	return uint32(len(roots))
}
