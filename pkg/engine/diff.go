package engine

import (
	"github.com/loom-ui/loom/pkg/arena"
	"github.com/loom-ui/loom/pkg/vnode"
)

// DiffNode compares the mounted vnode at oldIdx in prev against its
// successor at newIdx in the engine's current store, emitting the
// mutations needed to transform one into the other. Mount state is copied
// from old to new whether or not mutations fire.
//
// Lists diff positionally: keys are compared for equality only, and no
// move/reorder mutations exist in the protocol. A mismatched kind or
// template id takes the full-replacement path.
func (e *Engine) DiffNode(prev *vnode.Store, oldIdx, newIdx int) {
	old := prev.At(oldIdx)
	next := e.Store.At(newIdx)

	if old.Kind != next.Kind ||
		(old.Kind == vnode.KindTemplateRef && old.TemplateID != next.TemplateID) {
		e.replaceNode(prev, oldIdx, newIdx)
		return
	}

	switch old.Kind {
	case vnode.KindText:
		next.Mount = old.Mount
		if old.Text != next.Text {
			e.W.SetText(old.Mount.Roots[0], next.Text)
		}

	case vnode.KindPlaceholder:
		// Nothing observable can change.
		next.Mount = old.Mount

	case vnode.KindFragment:
		e.diffFragment(prev, old, next)

	case vnode.KindTemplateRef:
		e.diffTemplateRef(prev, old, next)
	}
}

// replaceNode creates the entire new subtree, swaps it in for the old
// one's roots, and discards the old mount state.
func (e *Engine) replaceNode(prev *vnode.Store, oldIdx, newIdx int) {
	count := e.CreateNode(newIdx)
	oldRoots := collectRoots(prev, oldIdx)
	if len(oldRoots) == 0 {
		// The old side rendered nothing; created roots stay on the host
		// stack for the caller to anchor.
		return
	}
	if count == 0 {
		for _, r := range oldRoots {
			e.W.Remove(r)
		}
	} else {
		e.W.ReplaceWith(oldRoots[0], count)
		for _, r := range oldRoots[1:] {
			e.W.Remove(r)
		}
	}
	e.release(prev, oldIdx)
}

func (e *Engine) diffTemplateRef(prev *vnode.Store, old, next *vnode.VNode) {
	tpl := e.Templates.Get(old.TemplateID)

	roots := append([]arena.ElementID(nil), old.Mount.Roots...)
	slotIDs := append([]arena.ElementID(nil), old.Mount.SlotIDs...)

	for slot, nodeIdx := range tpl.DynNodeIndex {
		oldF := prev.At(old.DynNodes[slot])
		newF := e.Store.At(next.DynNodes[slot])
		id := slotIDs[slot]

		if oldF.Kind == newF.Kind {
			newF.Mount = oldF.Mount
			if oldF.Kind == vnode.KindText && oldF.Text != newF.Text {
				e.W.SetText(id, newF.Text)
			}
			continue
		}

		// Filler flipped between text and placeholder: mount the new
		// representation in place of the old one.
		count := e.CreateNode(next.DynNodes[slot])
		e.W.ReplaceWith(id, count)
		e.Elements.Free(id)
		slotIDs[slot] = newF.Mount.Roots[0]
		if p := tpl.RootPosition(nodeIdx); p >= 0 {
			roots[p] = slotIDs[slot]
		}
	}

	attrEls := append([]arena.ElementID(nil), old.Mount.AttrEls...)
	for slot := range tpl.DynAttrIndex {
		e.diffAttr(attrEls[slot], old.DynAttrs[slot], next.DynAttrs[slot])
	}

	next.Mount.Roots = roots
	next.Mount.SlotIDs = slotIDs
	next.Mount.AttrEls = attrEls
}

func (e *Engine) diffAttr(el arena.ElementID, oldA, newA vnode.DynAttr) {
	if oldA.Name == newA.Name && oldA.Value.Equal(newA.Value) {
		return
	}
	oldEvent := oldA.Value.Kind == vnode.ValEvent
	newEvent := newA.Value.Kind == vnode.ValEvent

	switch {
	case oldEvent && newEvent:
		e.W.RemoveEventListener(el, oldA.Name)
		e.unbind(el, oldA.Name)
		e.W.NewEventListener(el, newA.Name)
		e.bind(el, newA.Name, newA.Value.Handler)

	case newEvent:
		e.W.NewEventListener(el, newA.Name)
		e.bind(el, newA.Name, newA.Value.Handler)

	case oldEvent:
		e.W.RemoveEventListener(el, oldA.Name)
		e.unbind(el, oldA.Name)
		if newA.Value.Kind != vnode.ValNone {
			e.W.SetAttribute(el, 0, newA.Name, attrString(newA.Value))
		}

	default:
		// Value change, kind change, or transition to none: one
		// SetAttribute; an empty value clears host-side.
		e.W.SetAttribute(el, 0, newA.Name, attrString(newA.Value))
	}
}

func (e *Engine) diffFragment(prev *vnode.Store, old, next *vnode.VNode) {
	oldN, newN := len(old.Children), len(next.Children)
	common := oldN
	if newN < common {
		common = newN
	}

	for i := 0; i < common; i++ {
		e.DiffNode(prev, old.Children[i], next.Children[i])
	}

	switch {
	case newN > oldN:
		// Extra children follow the last common child.
		var anchor arena.ElementID
		anchored := false
		if common > 0 {
			if roots := collectRoots(e.Store, next.Children[common-1]); len(roots) > 0 {
				anchor = roots[len(roots)-1]
				anchored = true
			}
		}
		for i := common; i < newN; i++ {
			count := e.CreateNode(next.Children[i])
			if count == 0 {
				continue
			}
			if anchored {
				e.W.InsertAfter(anchor, count)
			}
			roots := collectRoots(e.Store, next.Children[i])
			anchor = roots[len(roots)-1]
			anchored = true
		}

	case oldN > newN:
		for i := common; i < oldN; i++ {
			for _, r := range collectRoots(prev, old.Children[i]) {
				e.W.Remove(r)
			}
			e.release(prev, old.Children[i])
		}
	}
}
