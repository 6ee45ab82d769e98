package wire

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/loom-ui/loom/pkg/arena"
)

func TestRoundTripAllOps(t *testing.T) {
	longText := strings.Repeat("x", 1024)
	buf := make([]byte, 8192)
	w := NewWriter(buf)

	w.AppendChildren(1, 2)
	w.AssignID([]byte{0, 1, 3}, 0xFFFFFFFF)
	w.CreatePlaceholder(4)
	w.CreateTextNode(5, longText)
	w.LoadTemplate(7, 0, 8)
	w.ReplaceWith(9, 3)
	w.ReplacePlaceholder([]byte{0}, 1)
	w.InsertAfter(10, 1)
	w.InsertBefore(11, 2)
	w.SetAttribute(12, 0, "class", "active")
	w.SetText(13, "hello")
	w.NewEventListener(14, "click")
	w.RemoveEventListener(14, "click")
	w.Remove(15)
	w.PushRoot(16)
	w.End()

	records, n, err := ReadBatch(w.Bytes())
	if err != nil {
		t.Fatalf("ReadBatch error: %v", err)
	}
	if n != w.Pos() {
		t.Errorf("consumed %d bytes, writer produced %d", n, w.Pos())
	}
	if len(records) != 15 {
		t.Fatalf("decoded %d records, want 15", len(records))
	}

	want := []Record{
		{Op: OpAppendChildren, ID: 1, Count: 2},
		{Op: OpAssignID, Path: []byte{0, 1, 3}, ID: 0xFFFFFFFF},
		{Op: OpCreatePlaceholder, ID: 4},
		{Op: OpCreateTextNode, ID: 5, Text: longText},
		{Op: OpLoadTemplate, TemplateID: 7, Index: 0, ID: 8},
		{Op: OpReplaceWith, ID: 9, Count: 3},
		{Op: OpReplacePlaceholder, Path: []byte{0}, Count: 1},
		{Op: OpInsertAfter, ID: 10, Count: 1},
		{Op: OpInsertBefore, ID: 11, Count: 2},
		{Op: OpSetAttribute, ID: 12, Name: "class", Text: "active"},
		{Op: OpSetText, ID: 13, Text: "hello"},
		{Op: OpNewEventListener, ID: 14, Name: "click"},
		{Op: OpRemoveEventListener, ID: 14, Name: "click"},
		{Op: OpRemove, ID: 15},
		{Op: OpPushRoot, ID: 16},
	}
	for i, r := range records {
		if r.Op != want[i].Op || r.ID != want[i].ID || r.Count != want[i].Count ||
			r.TemplateID != want[i].TemplateID || r.Index != want[i].Index ||
			r.NS != want[i].NS || r.Name != want[i].Name || r.Text != want[i].Text ||
			!bytes.Equal(r.Path, want[i].Path) {
			t.Errorf("record %d = %+v, want %+v", i, r, want[i])
		}
	}
}

func TestWireLayout(t *testing.T) {
	// Byte-exact layout: opcode, little-endian id, u32 length, bytes.
	buf := make([]byte, 64)
	w := NewWriter(buf)
	w.SetText(0x0102, "ab")
	w.End()

	want := []byte{
		0x0B,                   // SetText
		0x02, 0x01, 0x00, 0x00, // id 0x0102 little-endian
		0x02, 0x00, 0x00, 0x00, // text_len 2
		'a', 'b',
		0x00, // End
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("SetText layout = % X, want % X", w.Bytes(), want)
	}
}

func TestSetAttributeLayout(t *testing.T) {
	buf := make([]byte, 64)
	w := NewWriter(buf)
	w.SetAttribute(3, 1, "id", "x")

	want := []byte{
		0x0A,
		0x03, 0x00, 0x00, 0x00, // id
		0x01,       // ns
		0x02, 0x00, // name_len u16
		'i', 'd',
		0x01, 0x00, 0x00, 0x00, // value_len u32
		'x',
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("SetAttribute layout = % X, want % X", w.Bytes(), want)
	}
}

func TestWriterReentry(t *testing.T) {
	buf := make([]byte, 128)
	w := NewWriter(buf)
	w.CreatePlaceholder(1)
	w.End()
	firstEnd := w.Pos()

	// Append a second batch at the cursor left by the first.
	w.SetText(1, "next")
	w.End()

	first, n, err := ReadBatch(buf)
	if err != nil || len(first) != 1 || first[0].Op != OpCreatePlaceholder {
		t.Fatalf("first batch = %v, %v", first, err)
	}
	if n != firstEnd {
		t.Fatalf("first batch consumed %d, want %d", n, firstEnd)
	}
	second, _, err := ReadBatch(buf[n:])
	if err != nil || len(second) != 1 || second[0].Op != OpSetText || second[0].Text != "next" {
		t.Fatalf("second batch = %v, %v", second, err)
	}
}

func TestWriterSeek(t *testing.T) {
	buf := make([]byte, 32)
	w := NewWriter(buf)
	w.CreatePlaceholder(1)
	w.End()

	w.Seek(0)
	w.Remove(2)
	w.End()

	records, _, err := ReadBatch(w.Bytes())
	if err != nil || len(records) != 1 || records[0].Op != OpRemove {
		t.Fatalf("after Seek(0): %v, %v", records, err)
	}
}

func TestWriterOverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("overflow did not panic")
		}
	}()
	w := NewWriter(make([]byte, 4))
	w.CreateTextNode(1, "does not fit")
}

func TestDecoderShortBuffer(t *testing.T) {
	// Truncated SetText: id present, length prefix missing bytes.
	buf := make([]byte, 64)
	w := NewWriter(buf)
	w.SetText(1, "hello")

	for cut := 1; cut < w.Pos(); cut++ {
		d := NewDecoder(buf[:cut])
		if _, err := d.Next(); err != io.ErrUnexpectedEOF {
			t.Errorf("cut at %d: err = %v, want io.ErrUnexpectedEOF", cut, err)
		}
	}
}

func TestDecoderUnknownOp(t *testing.T) {
	d := NewDecoder([]byte{0x7F})
	if _, err := d.Next(); err == nil || !strings.Contains(err.Error(), "unknown opcode") {
		t.Errorf("err = %v, want unknown opcode", err)
	}
}

func TestEmptyBatch(t *testing.T) {
	buf := make([]byte, 4)
	w := NewWriter(buf)
	w.End()

	records, n, err := ReadBatch(w.Bytes())
	if err != nil || len(records) != 0 || n != 1 {
		t.Errorf("empty batch = %v, %d, %v", records, n, err)
	}
}

func TestMaxU32Operands(t *testing.T) {
	buf := make([]byte, 64)
	w := NewWriter(buf)
	w.ReplaceWith(arena.ElementID(0xFFFFFFFF), 0xFFFFFFFF)
	w.End()

	records, _, err := ReadBatch(w.Bytes())
	if err != nil {
		t.Fatalf("ReadBatch error: %v", err)
	}
	if records[0].ID != 0xFFFFFFFF || records[0].Count != 0xFFFFFFFF {
		t.Errorf("max u32 round-trip = %+v", records[0])
	}
}

func TestOpString(t *testing.T) {
	if OpLoadTemplate.String() != "LoadTemplate" || Op(0xEE).String() != "Unknown" {
		t.Error("Op.String() mismatch")
	}
}

func BenchmarkWriterBatch(b *testing.B) {
	buf := make([]byte, 4096)
	for i := 0; i < b.N; i++ {
		w := NewWriter(buf)
		w.LoadTemplate(1, 0, 2)
		w.CreateTextNode(3, "counter: 0")
		w.ReplacePlaceholder([]byte{0, 0}, 1)
		w.SetAttribute(2, 0, "class", "counter")
		w.NewEventListener(2, "click")
		w.End()
	}
}

func BenchmarkReadBatch(b *testing.B) {
	buf := make([]byte, 4096)
	w := NewWriter(buf)
	w.LoadTemplate(1, 0, 2)
	w.CreateTextNode(3, "counter: 0")
	w.ReplacePlaceholder([]byte{0, 0}, 1)
	w.SetAttribute(2, 0, "class", "counter")
	w.NewEventListener(2, "click")
	w.End()
	data := w.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := ReadBatch(data); err != nil {
			b.Fatal(err)
		}
	}
}
