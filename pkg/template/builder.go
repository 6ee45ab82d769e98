package template

import "fmt"

// NoParent marks a pushed node as a template root.
const NoParent = -1

// Builder assembles a Template through push operations. Each push returns
// the new node's index so callers can link children and attributes.
//
// Attribute pushes for a node must form one contiguous run: the builder
// records a first-index/count range per node and rejects interleaving.
type Builder struct {
	name     string
	nodes    []Node
	attrs    []Attribute
	roots    []int
	dynNodes []int
	dynAttrs []int
}

// NewBuilder returns an empty builder for a template with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Element pushes an element node under parent (NoParent for a root) and
// returns its index.
func (b *Builder) Element(tag string, parent int) int {
	return b.push(Node{Kind: NodeElement, Tag: tag, AttrFirst: -1}, parent)
}

// Text pushes a static text node and returns its index.
func (b *Builder) Text(content string, parent int) int {
	return b.push(Node{Kind: NodeText, Text: content}, parent)
}

// DynamicNode pushes a per-instance node placeholder and returns its index.
// Slots are numbered in push order.
func (b *Builder) DynamicNode(parent int) int {
	idx := b.push(Node{Kind: NodeDynamic, Slot: len(b.dynNodes)}, parent)
	b.dynNodes = append(b.dynNodes, idx)
	return idx
}

// DynamicText pushes a per-instance text placeholder and returns its index.
func (b *Builder) DynamicText(parent int) int {
	idx := b.push(Node{Kind: NodeDynamicText, Slot: len(b.dynNodes)}, parent)
	b.dynNodes = append(b.dynNodes, idx)
	return idx
}

// StaticAttr attaches a fixed name/value attribute to node.
func (b *Builder) StaticAttr(node int, name, value string) {
	b.attach(node, Attribute{Kind: AttrStatic, Name: name, Value: value, Node: node})
}

// DynamicAttr attaches a per-instance attribute to node and returns its
// slot index.
func (b *Builder) DynamicAttr(node int) int {
	slot := len(b.dynAttrs)
	b.attach(node, Attribute{Kind: AttrDynamic, Slot: slot, Node: node})
	b.dynAttrs = append(b.dynAttrs, len(b.attrs)-1)
	return slot
}

// Build finalizes the template and empties the builder. The returned
// template has ID 0 until registered.
func (b *Builder) Build() *Template {
	t := &Template{
		Name:         b.name,
		Nodes:        b.nodes,
		Attrs:        b.attrs,
		Roots:        b.roots,
		DynNodeIndex: b.dynNodes,
		DynAttrIndex: b.dynAttrs,
	}
	b.nodes = nil
	b.attrs = nil
	b.roots = nil
	b.dynNodes = nil
	b.dynAttrs = nil
	return t
}

func (b *Builder) push(n Node, parent int) int {
	idx := len(b.nodes)
	n.Parent = parent
	b.nodes = append(b.nodes, n)
	if parent == NoParent {
		b.roots = append(b.roots, idx)
		return idx
	}
	if parent < 0 || parent >= idx {
		panic(fmt.Sprintf("template: invalid parent index %d for node %d in %q", parent, idx, b.name))
	}
	if b.nodes[parent].Kind != NodeElement {
		panic(fmt.Sprintf("template: parent %d of node %d is not an element in %q", parent, idx, b.name))
	}
	b.nodes[parent].Children = append(b.nodes[parent].Children, idx)
	return idx
}

func (b *Builder) attach(node int, a Attribute) {
	if node < 0 || node >= len(b.nodes) {
		panic(fmt.Sprintf("template: attribute on unknown node %d in %q", node, b.name))
	}
	n := &b.nodes[node]
	if n.Kind != NodeElement {
		panic(fmt.Sprintf("template: attribute on non-element node %d in %q", node, b.name))
	}
	if n.AttrCount == 0 {
		n.AttrFirst = len(b.attrs)
	} else if n.AttrFirst+n.AttrCount != len(b.attrs) {
		// The range must stay contiguous.
		panic(fmt.Sprintf("template: interleaved attribute run for node %d in %q", node, b.name))
	}
	n.AttrCount++
	b.attrs = append(b.attrs, a)
}
