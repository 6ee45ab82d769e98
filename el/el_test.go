package el

import (
	"bytes"
	"testing"

	"github.com/loom-ui/loom/pkg/template"
)

func TestBuildCounter(t *testing.T) {
	tpl := Build("counter",
		Div(Class("counter"),
			H1(DynText()),
			Button(DynAttr(), Text("+1")),
		),
	)

	if tpl.Name != "counter" {
		t.Errorf("Name = %q, want %q", tpl.Name, "counter")
	}
	if tpl.RootCount() != 1 || tpl.NodeCount() != 5 {
		t.Fatalf("shape = %d roots, %d nodes; want 1, 5", tpl.RootCount(), tpl.NodeCount())
	}
	if tpl.DynNodeCount() != 1 || tpl.DynAttrCount() != 1 {
		t.Fatalf("slots = %d node, %d attr; want 1, 1", tpl.DynNodeCount(), tpl.DynAttrCount())
	}

	root := tpl.NodeAt(tpl.Roots[0])
	if root.Tag != "div" || root.AttrCount != 1 {
		t.Errorf("root = %s with %d attrs, want div with 1", root.Tag, root.AttrCount)
	}
	if a := tpl.AttrAt(root.AttrFirst); a.Name != "class" || a.Value != "counter" {
		t.Errorf("root attr = %s=%q", a.Name, a.Value)
	}

	dyn := tpl.NodeAt(tpl.DynNodeIndex[0])
	if dyn.Kind != template.NodeDynamicText {
		t.Errorf("dyn slot kind = %s, want DynamicText", dyn.Kind)
	}
	if got := tpl.Path(tpl.DynNodeIndex[0]); !bytes.Equal(got, []byte{0, 0, 0}) {
		t.Errorf("dyn text path = %v, want [0 0 0]", got)
	}
	btn := tpl.NodeAt(tpl.AttrAt(tpl.DynAttrIndex[0]).Node)
	if btn.Tag != "button" {
		t.Errorf("dyn attr owner = %s, want button", btn.Tag)
	}
}

func TestAttrsApplyBeforeChildren(t *testing.T) {
	// Interleaving attrs with children in argument order must not panic:
	// the builder sees the element's whole attribute run first.
	tpl := Build("mixed",
		Div(Text("a"), Attr("id", "x"), Span(), DynAttr(), Text("b")),
	)
	root := tpl.NodeAt(tpl.Roots[0])
	if root.AttrCount != 2 {
		t.Fatalf("AttrCount = %d, want 2", root.AttrCount)
	}
	if len(root.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(root.Children))
	}
}

func TestSlotsNumberInDocumentOrder(t *testing.T) {
	tpl := Build("slots",
		Div(DynText(), Span(DynNode()), DynText()),
	)
	if tpl.DynNodeCount() != 3 {
		t.Fatalf("DynNodeCount = %d, want 3", tpl.DynNodeCount())
	}
	kinds := []template.NodeKind{
		template.NodeDynamicText, template.NodeDynamic, template.NodeDynamicText,
	}
	for slot, want := range kinds {
		if got := tpl.NodeAt(tpl.DynNodeIndex[slot]).Kind; got != want {
			t.Errorf("slot %d kind = %s, want %s", slot, got, want)
		}
	}
}

func TestMultiRoot(t *testing.T) {
	tpl := Build("pair", P(Text("a")), P(Text("b")))
	if tpl.RootCount() != 2 {
		t.Fatalf("RootCount = %d, want 2", tpl.RootCount())
	}
	if got := tpl.Path(tpl.Roots[1]); !bytes.Equal(got, []byte{1}) {
		t.Errorf("second root path = %v, want [1]", got)
	}
}

func TestRootAttrPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Build with a root-level attribute did not panic")
		}
	}()
	Build("bad", Attr("id", "x"))
}
