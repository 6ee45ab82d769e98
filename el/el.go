// Package el is the declarative sugar over the template builder.
//
// Items compose into a static tree; Build flattens the tree through a
// template.Builder, numbering dynamic slots in document order:
//
//	tpl := el.Build("counter",
//		el.Div(el.Class("counter"),
//			el.H1(el.DynText()),
//			el.Button(el.DynAttr(), el.Text("+1")),
//		),
//	)
//
// Attribute items always apply before child items regardless of argument
// order, so an element's attribute run stays contiguous.
package el

import "github.com/loom-ui/loom/pkg/template"

type itemKind uint8

const (
	itemElement itemKind = iota
	itemText
	itemDynNode
	itemDynText
	itemAttr
	itemDynAttr
)

// Item is one node or attribute in a declarative template tree.
type Item struct {
	kind     itemKind
	tag      string
	text     string
	name     string
	value    string
	children []Item
}

// El returns an element item with the given tag. Attribute items among
// args attach to the element; everything else becomes a child.
func El(tag string, args ...Item) Item {
	return Item{kind: itemElement, tag: tag, children: args}
}

// Text returns a static text item.
func Text(s string) Item {
	return Item{kind: itemText, text: s}
}

// DynText returns a per-instance text slot.
func DynText() Item {
	return Item{kind: itemDynText}
}

// DynNode returns a per-instance node slot.
func DynNode() Item {
	return Item{kind: itemDynNode}
}

// Attr returns a static attribute item.
func Attr(name, value string) Item {
	return Item{kind: itemAttr, name: name, value: value}
}

// DynAttr returns a per-instance attribute slot.
func DynAttr() Item {
	return Item{kind: itemDynAttr}
}

// Class is shorthand for Attr("class", value).
func Class(value string) Item {
	return Attr("class", value)
}

// ID is shorthand for Attr("id", value).
func ID(value string) Item {
	return Attr("id", value)
}

// Build flattens the root items into a named template. Dynamic node and
// attribute slots are numbered in document order. Attribute items at the
// root level panic; they have no element to attach to.
func Build(name string, roots ...Item) *template.Template {
	b := template.NewBuilder(name)
	for _, r := range roots {
		emit(b, r, template.NoParent)
	}
	return b.Build()
}

func emit(b *template.Builder, it Item, parent int) {
	switch it.kind {
	case itemElement:
		idx := b.Element(it.tag, parent)
		for _, c := range it.children {
			switch c.kind {
			case itemAttr:
				b.StaticAttr(idx, c.name, c.value)
			case itemDynAttr:
				b.DynamicAttr(idx)
			}
		}
		for _, c := range it.children {
			if c.kind != itemAttr && c.kind != itemDynAttr {
				emit(b, c, idx)
			}
		}

	case itemText:
		b.Text(it.text, parent)

	case itemDynText:
		b.DynamicText(parent)

	case itemDynNode:
		b.DynamicNode(parent)

	case itemAttr, itemDynAttr:
		panic("el: attribute item outside an element")
	}
}
