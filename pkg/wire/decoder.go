package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/loom-ui/loom/pkg/arena"
)

// ErrUnknownOp reports an opcode outside the protocol table.
var ErrUnknownOp = errors.New("wire: unknown opcode")

// Record is one decoded mutation. Fields are populated per opcode; unused
// fields are zero.
type Record struct {
	Op         Op
	ID         arena.ElementID
	Count      uint32
	TemplateID uint32
	Index      uint32
	Path       []byte
	NS         byte
	Name       string
	Text       string // text or attribute value payload
}

// Decoder reads mutation records from a byte buffer.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a decoder over buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Pos returns the read position.
func (d *Decoder) Pos() int {
	return d.pos
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

func (d *Decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *Decoder) readU16() (uint16, error) {
	if d.pos+2 > len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := uint16(d.buf[d.pos]) | uint16(d.buf[d.pos+1])<<8
	d.pos += 2
	return v, nil
}

func (d *Decoder) readU32() (uint32, error) {
	if d.pos+4 > len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := uint32(d.buf[d.pos]) | uint32(d.buf[d.pos+1])<<8 |
		uint32(d.buf[d.pos+2])<<16 | uint32(d.buf[d.pos+3])<<24
	d.pos += 4
	return v, nil
}

func (d *Decoder) readID() (arena.ElementID, error) {
	v, err := d.readU32()
	return arena.ElementID(v), err
}

func (d *Decoder) readShortString() (string, error) {
	n, err := d.readU16()
	if err != nil {
		return "", err
	}
	if int(n) > d.Remaining() {
		return "", io.ErrUnexpectedEOF
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}

func (d *Decoder) readLongString() (string, error) {
	n, err := d.readU32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}

func (d *Decoder) readPath() ([]byte, error) {
	n, err := d.readByte()
	if err != nil {
		return nil, err
	}
	if int(n) > d.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	p := make([]byte, n)
	copy(p, d.buf[d.pos:d.pos+int(n)])
	d.pos += int(n)
	return p, nil
}

// Next decodes one record. After the End record, further calls return
// io.EOF until the decoder is re-pointed at a later batch.
func (d *Decoder) Next() (Record, error) {
	op, err := d.readByte()
	if err != nil {
		return Record{}, err
	}
	r := Record{Op: Op(op)}

	switch r.Op {
	case OpEnd:
		return r, nil

	case OpAppendChildren, OpReplaceWith, OpInsertAfter, OpInsertBefore:
		if r.ID, err = d.readID(); err != nil {
			return r, err
		}
		r.Count, err = d.readU32()

	case OpAssignID:
		if r.Path, err = d.readPath(); err != nil {
			return r, err
		}
		r.ID, err = d.readID()

	case OpCreatePlaceholder, OpRemove, OpPushRoot:
		r.ID, err = d.readID()

	case OpCreateTextNode, OpSetText:
		if r.ID, err = d.readID(); err != nil {
			return r, err
		}
		r.Text, err = d.readLongString()

	case OpLoadTemplate:
		if r.TemplateID, err = d.readU32(); err != nil {
			return r, err
		}
		if r.Index, err = d.readU32(); err != nil {
			return r, err
		}
		r.ID, err = d.readID()

	case OpReplacePlaceholder:
		if r.Path, err = d.readPath(); err != nil {
			return r, err
		}
		r.Count, err = d.readU32()

	case OpSetAttribute:
		if r.ID, err = d.readID(); err != nil {
			return r, err
		}
		if r.NS, err = d.readByte(); err != nil {
			return r, err
		}
		if r.Name, err = d.readShortString(); err != nil {
			return r, err
		}
		r.Text, err = d.readLongString()

	case OpNewEventListener, OpRemoveEventListener:
		if r.ID, err = d.readID(); err != nil {
			return r, err
		}
		r.Name, err = d.readShortString()

	default:
		return r, fmt.Errorf("%w: 0x%02X at offset %d", ErrUnknownOp, op, d.pos-1)
	}
	return r, err
}

// ReadBatch decodes records from buf until the End terminator. It returns
// the records (End excluded) and the number of bytes consumed including
// the terminator.
func ReadBatch(buf []byte) ([]Record, int, error) {
	d := NewDecoder(buf)
	var records []Record
	for {
		r, err := d.Next()
		if err != nil {
			return records, d.Pos(), err
		}
		if r.Op == OpEnd {
			return records, d.Pos(), nil
		}
		records = append(records, r)
	}
}
