// Package template models the immutable, name-deduplicated blueprints of
// static UI structure.
//
// A Template owns flat arrays of nodes and attributes linked by integer
// indices rather than pointers. The flat layout keeps templates cheap to
// share between unbounded numbers of per-render instances and trivial to
// address from the wire protocol, which names template positions by index
// and by child paths.
package template

import "fmt"

// NodeKind discriminates template node variants.
type NodeKind uint8

const (
	NodeElement     NodeKind = iota // static element with tag, children, attributes
	NodeText                        // static text content
	NodeDynamic                     // per-instance node filler
	NodeDynamicText                 // per-instance text filler
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case NodeElement:
		return "Element"
	case NodeText:
		return "Text"
	case NodeDynamic:
		return "Dynamic"
	case NodeDynamicText:
		return "DynamicText"
	default:
		return "Unknown"
	}
}

// Node is one position in a template's flat node array.
type Node struct {
	Kind NodeKind

	// Tag is the element tag name (NodeElement only).
	Tag string

	// Text is the static content (NodeText only).
	Text string

	// Slot is the dynamic slot index (NodeDynamic/NodeDynamicText only).
	Slot int

	// Children holds node indices (NodeElement only).
	Children []int

	// AttrFirst and AttrCount delimit this node's range in the
	// template's attribute array (NodeElement only).
	AttrFirst int
	AttrCount int

	// Parent is the parent node index, or -1 for a root.
	Parent int
}

// AttrKind discriminates template attribute variants.
type AttrKind uint8

const (
	AttrStatic  AttrKind = iota // fixed name/value pair
	AttrDynamic                 // per-instance value
)

// Attribute is one position in a template's flat attribute array.
type Attribute struct {
	Kind AttrKind

	// Name and Value are set for AttrStatic.
	Name  string
	Value string

	// Slot is the dynamic slot index for AttrDynamic.
	Slot int

	// Node is the index of the owning node.
	Node int
}

// Template is an immutable blueprint of static UI structure. ID is 0 until
// the template is registered.
type Template struct {
	ID   uint32
	Name string

	Nodes []Node
	Attrs []Attribute
	Roots []int

	// DynNodeIndex maps a dynamic node slot to its node index.
	DynNodeIndex []int

	// DynAttrIndex maps a dynamic attribute slot to its attribute index.
	DynAttrIndex []int
}

// NodeCount returns the number of nodes.
func (t *Template) NodeCount() int { return len(t.Nodes) }

// AttrCount returns the number of attributes.
func (t *Template) AttrCount() int { return len(t.Attrs) }

// RootCount returns the number of root nodes.
func (t *Template) RootCount() int { return len(t.Roots) }

// DynNodeCount returns the number of dynamic node slots.
func (t *Template) DynNodeCount() int { return len(t.DynNodeIndex) }

// DynAttrCount returns the number of dynamic attribute slots.
func (t *Template) DynAttrCount() int { return len(t.DynAttrIndex) }

// NodeAt returns the node at index i.
func (t *Template) NodeAt(i int) *Node {
	if i < 0 || i >= len(t.Nodes) {
		panic(fmt.Sprintf("template: node index %d out of range (%s has %d nodes)", i, t.Name, len(t.Nodes)))
	}
	return &t.Nodes[i]
}

// AttrAt returns the attribute at index i.
func (t *Template) AttrAt(i int) *Attribute {
	if i < 0 || i >= len(t.Attrs) {
		panic(fmt.Sprintf("template: attribute index %d out of range (%s has %d attributes)", i, t.Name, len(t.Attrs)))
	}
	return &t.Attrs[i]
}

// RootPosition returns the position of node index i in the root list,
// or -1 if i is not a root.
func (t *Template) RootPosition(i int) int {
	for p, r := range t.Roots {
		if r == i {
			return p
		}
	}
	return -1
}

// Path returns the child path addressing node i from its template root:
// the first byte is the root position, each following byte a child
// position within its parent. A root node yields a single-byte path.
func (t *Template) Path(i int) []byte {
	var rev []byte
	n := i
	for t.Nodes[n].Parent >= 0 {
		parent := t.Nodes[n].Parent
		pos := -1
		for c, child := range t.Nodes[parent].Children {
			if child == n {
				pos = c
				break
			}
		}
		if pos < 0 {
			panic(fmt.Sprintf("template: node %d not linked from parent %d in %s", n, parent, t.Name))
		}
		rev = append(rev, byte(pos))
		n = parent
	}
	rootPos := t.RootPosition(n)
	if rootPos < 0 {
		panic(fmt.Sprintf("template: node %d has no root ancestor in %s", i, t.Name))
	}

	path := make([]byte, 0, len(rev)+1)
	path = append(path, byte(rootPos))
	for j := len(rev) - 1; j >= 0; j-- {
		path = append(path, rev[j])
	}
	return path
}
