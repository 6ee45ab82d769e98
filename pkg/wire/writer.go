package wire

import (
	"fmt"
	"math"

	"github.com/loom-ui/loom/pkg/arena"
)

// Writer appends mutation records to a fixed, caller-owned byte buffer.
// Every write advances the cursor; nothing is ever rewritten. A writer may
// be re-entered at an arbitrary cursor to append a later batch into the
// same buffer.
//
// The buffer is sized by the host contract; overflowing it is a
// programming-contract violation and panics.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter returns a writer over buf with the cursor at 0.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Pos returns the cursor position.
func (w *Writer) Pos() int {
	return w.pos
}

// Seek moves the cursor to pos for appending a later batch.
func (w *Writer) Seek(pos int) {
	if pos < 0 || pos > len(w.buf) {
		panic(fmt.Sprintf("wire: seek to %d outside buffer of %d bytes", pos, len(w.buf)))
	}
	w.pos = pos
}

// Bytes returns the written prefix of the buffer.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.pos]
}

func (w *Writer) need(n int) {
	if w.pos+n > len(w.buf) {
		panic(fmt.Sprintf("wire: buffer overflow writing %d bytes at %d (buffer is %d bytes)", n, w.pos, len(w.buf)))
	}
}

func (w *Writer) putByte(b byte) {
	w.need(1)
	w.buf[w.pos] = b
	w.pos++
}

func (w *Writer) putU16(v uint16) {
	w.need(2)
	w.buf[w.pos] = byte(v)
	w.buf[w.pos+1] = byte(v >> 8)
	w.pos += 2
}

func (w *Writer) putU32(v uint32) {
	w.need(4)
	w.buf[w.pos] = byte(v)
	w.buf[w.pos+1] = byte(v >> 8)
	w.buf[w.pos+2] = byte(v >> 16)
	w.buf[w.pos+3] = byte(v >> 24)
	w.pos += 4
}

func (w *Writer) putID(id arena.ElementID) {
	w.putU32(uint32(id))
}

// putShortString writes a u16 length prefix plus bytes (names).
func (w *Writer) putShortString(s string) {
	if len(s) > math.MaxUint16 {
		panic(fmt.Sprintf("wire: name of %d bytes exceeds u16 length prefix", len(s)))
	}
	w.putU16(uint16(len(s)))
	w.need(len(s))
	copy(w.buf[w.pos:], s)
	w.pos += len(s)
}

// putLongString writes a u32 length prefix plus bytes (text, values).
func (w *Writer) putLongString(s string) {
	w.putU32(uint32(len(s)))
	w.need(len(s))
	copy(w.buf[w.pos:], s)
	w.pos += len(s)
}

// putPath writes a u8 length prefix plus path bytes.
func (w *Writer) putPath(path []byte) {
	if len(path) > math.MaxUint8 {
		panic(fmt.Sprintf("wire: path of %d segments exceeds u8 length prefix", len(path)))
	}
	w.putByte(byte(len(path)))
	w.need(len(path))
	copy(w.buf[w.pos:], path)
	w.pos += len(path)
}

// End writes the batch terminator.
func (w *Writer) End() {
	w.putByte(byte(OpEnd))
}

// AppendChildren appends the last count created nodes as children of id.
func (w *Writer) AppendChildren(id arena.ElementID, count uint32) {
	w.putByte(byte(OpAppendChildren))
	w.putID(id)
	w.putU32(count)
}

// AssignID assigns id to the node addressed by path under the last loaded
// template root.
func (w *Writer) AssignID(path []byte, id arena.ElementID) {
	w.putByte(byte(OpAssignID))
	w.putPath(path)
	w.putID(id)
}

// CreatePlaceholder creates an empty anchor node known as id.
func (w *Writer) CreatePlaceholder(id arena.ElementID) {
	w.putByte(byte(OpCreatePlaceholder))
	w.putID(id)
}

// CreateTextNode creates a text node known as id.
func (w *Writer) CreateTextNode(id arena.ElementID, text string) {
	w.putByte(byte(OpCreateTextNode))
	w.putID(id)
	w.putLongString(text)
}

// LoadTemplate clones root index of the registered template and names the
// clone id.
func (w *Writer) LoadTemplate(templateID, index uint32, id arena.ElementID) {
	w.putByte(byte(OpLoadTemplate))
	w.putU32(templateID)
	w.putU32(index)
	w.putID(id)
}

// ReplaceWith replaces node id with the last count created nodes.
func (w *Writer) ReplaceWith(id arena.ElementID, count uint32) {
	w.putByte(byte(OpReplaceWith))
	w.putID(id)
	w.putU32(count)
}

// ReplacePlaceholder replaces the node addressed by path with the last
// count created nodes.
func (w *Writer) ReplacePlaceholder(path []byte, count uint32) {
	w.putByte(byte(OpReplacePlaceholder))
	w.putPath(path)
	w.putU32(count)
}

// InsertAfter inserts the last count created nodes after node id.
func (w *Writer) InsertAfter(id arena.ElementID, count uint32) {
	w.putByte(byte(OpInsertAfter))
	w.putID(id)
	w.putU32(count)
}

// InsertBefore inserts the last count created nodes before node id.
func (w *Writer) InsertBefore(id arena.ElementID, count uint32) {
	w.putByte(byte(OpInsertBefore))
	w.putID(id)
	w.putU32(count)
}

// SetAttribute sets an attribute on node id. An empty value clears the
// attribute.
func (w *Writer) SetAttribute(id arena.ElementID, ns byte, name, value string) {
	w.putByte(byte(OpSetAttribute))
	w.putID(id)
	w.putByte(ns)
	w.putShortString(name)
	w.putLongString(value)
}

// SetText replaces the content of text node id.
func (w *Writer) SetText(id arena.ElementID, text string) {
	w.putByte(byte(OpSetText))
	w.putID(id)
	w.putLongString(text)
}

// NewEventListener attaches a listener for the named event to node id.
func (w *Writer) NewEventListener(id arena.ElementID, name string) {
	w.putByte(byte(OpNewEventListener))
	w.putID(id)
	w.putShortString(name)
}

// RemoveEventListener detaches the named event listener from node id.
func (w *Writer) RemoveEventListener(id arena.ElementID, name string) {
	w.putByte(byte(OpRemoveEventListener))
	w.putID(id)
	w.putShortString(name)
}

// Remove detaches node id from the document.
func (w *Writer) Remove(id arena.ElementID) {
	w.putByte(byte(OpRemove))
	w.putID(id)
}

// PushRoot pushes node id onto the host's working stack.
func (w *Writer) PushRoot(id arena.ElementID) {
	w.putByte(byte(OpPushRoot))
	w.putID(id)
}
