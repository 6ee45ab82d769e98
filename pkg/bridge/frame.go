package bridge

import (
	"fmt"
	"io"

	"github.com/loom-ui/loom/pkg/arena"
	"github.com/loom-ui/loom/pkg/handler"
)

// EventFrame is one client-to-server event message.
//
// Wire layout, little-endian:
//
//	element      u32   target element id
//	event_tag    u8    handler.EventType value
//	payload_kind u8    0 none, 1 int32, 2 string
//	payload            i32, or u32 length prefix plus UTF-8 bytes
type EventFrame struct {
	Element arena.ElementID
	Type    handler.EventType
	Payload handler.Payload
}

const (
	framePayloadNone byte = 0
	framePayloadInt  byte = 1
	framePayloadText byte = 2
)

// EncodeEventFrame serializes f.
func EncodeEventFrame(f EventFrame) []byte {
	out := make([]byte, 0, 16+len(f.Payload.Text))
	out = appendU32(out, uint32(f.Element))
	out = append(out, byte(f.Type))
	switch f.Payload.Kind {
	case handler.PayloadInt:
		out = append(out, framePayloadInt)
		out = appendU32(out, uint32(f.Payload.Int))
	case handler.PayloadText:
		out = append(out, framePayloadText)
		out = appendU32(out, uint32(len(f.Payload.Text)))
		out = append(out, f.Payload.Text...)
	default:
		out = append(out, framePayloadNone)
	}
	return out
}

// DecodeEventFrame parses one event frame. Truncated input yields
// io.ErrUnexpectedEOF; an unknown payload kind is its own error.
func DecodeEventFrame(buf []byte) (EventFrame, error) {
	var f EventFrame
	if len(buf) < 6 {
		return f, io.ErrUnexpectedEOF
	}
	f.Element = arena.ElementID(readU32(buf))
	f.Type = handler.EventType(buf[4])

	rest := buf[6:]
	switch buf[5] {
	case framePayloadNone:
		f.Payload = handler.NoPayload()

	case framePayloadInt:
		if len(rest) < 4 {
			return f, io.ErrUnexpectedEOF
		}
		f.Payload = handler.IntPayload(int32(readU32(rest)))

	case framePayloadText:
		if len(rest) < 4 {
			return f, io.ErrUnexpectedEOF
		}
		n := int(readU32(rest))
		if len(rest[4:]) < n {
			return f, io.ErrUnexpectedEOF
		}
		f.Payload = handler.TextPayload(string(rest[4 : 4+n]))

	default:
		return f, fmt.Errorf("bridge: unknown payload kind %d", buf[5])
	}
	return f, nil
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func readU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
