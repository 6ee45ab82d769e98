// Package wire implements the binary mutation protocol between the runtime
// and its host renderer.
//
// A batch is a sequence of records, one opcode byte each followed by its
// operands, terminated by a single End byte. All multi-byte integers are
// little-endian; strings and paths are length-prefixed, never
// null-terminated. The Writer appends records to a caller-owned buffer
// through a cursor and never looks backward, so a host can replay the bytes
// strictly in order. The Decoder reads a batch back for tests and debug
// tooling; the production consumer is the host, not this package.
package wire

// Op is the mutation opcode.
type Op uint8

const (
	OpEnd                 Op = 0x00 // batch terminator
	OpAppendChildren      Op = 0x01 // id:u32, count:u32
	OpAssignID            Op = 0x02 // path_len:u8, path bytes, id:u32
	OpCreatePlaceholder   Op = 0x03 // id:u32
	OpCreateTextNode      Op = 0x04 // id:u32, text_len:u32, text bytes
	OpLoadTemplate        Op = 0x05 // template_id:u32, index:u32, id:u32
	OpReplaceWith         Op = 0x06 // id:u32, count:u32
	OpReplacePlaceholder  Op = 0x07 // path_len:u8, path bytes, count:u32
	OpInsertAfter         Op = 0x08 // id:u32, count:u32
	OpInsertBefore        Op = 0x09 // id:u32, count:u32
	OpSetAttribute        Op = 0x0A // id:u32, ns:u8, name_len:u16, name, value_len:u32, value
	OpSetText             Op = 0x0B // id:u32, text_len:u32, text bytes
	OpNewEventListener    Op = 0x0C // id:u32, name_len:u16, name bytes
	OpRemoveEventListener Op = 0x0D // id:u32, name_len:u16, name bytes
	OpRemove              Op = 0x0E // id:u32
	OpPushRoot            Op = 0x0F // id:u32
)

// String returns the string representation of the opcode.
func (op Op) String() string {
	switch op {
	case OpEnd:
		return "End"
	case OpAppendChildren:
		return "AppendChildren"
	case OpAssignID:
		return "AssignId"
	case OpCreatePlaceholder:
		return "CreatePlaceholder"
	case OpCreateTextNode:
		return "CreateTextNode"
	case OpLoadTemplate:
		return "LoadTemplate"
	case OpReplaceWith:
		return "ReplaceWith"
	case OpReplacePlaceholder:
		return "ReplacePlaceholder"
	case OpInsertAfter:
		return "InsertAfter"
	case OpInsertBefore:
		return "InsertBefore"
	case OpSetAttribute:
		return "SetAttribute"
	case OpSetText:
		return "SetText"
	case OpNewEventListener:
		return "NewEventListener"
	case OpRemoveEventListener:
		return "RemoveEventListener"
	case OpRemove:
		return "Remove"
	case OpPushRoot:
		return "PushRoot"
	default:
		return "Unknown"
	}
}
