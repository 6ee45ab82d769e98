package handler

// EventType is the event-type tag shared verbatim between the runtime and
// its host. The values are part of the dispatch contract and must not be
// renumbered.
type EventType uint8

const (
	EventClick      EventType = 0
	EventInput      EventType = 1
	EventKeyDown    EventType = 2
	EventKeyUp      EventType = 3
	EventMouseMove  EventType = 4
	EventFocus      EventType = 5
	EventBlur       EventType = 6
	EventSubmit     EventType = 7
	EventChange     EventType = 8
	EventMouseDown  EventType = 9
	EventMouseUp    EventType = 10
	EventMouseEnter EventType = 11
	EventMouseLeave EventType = 12
	EventCustom     EventType = 255
)

// Name returns the DOM event name for the tag, or "custom".
func (e EventType) Name() string {
	switch e {
	case EventClick:
		return "click"
	case EventInput:
		return "input"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	case EventMouseMove:
		return "mousemove"
	case EventFocus:
		return "focus"
	case EventBlur:
		return "blur"
	case EventSubmit:
		return "submit"
	case EventChange:
		return "change"
	case EventMouseDown:
		return "mousedown"
	case EventMouseUp:
		return "mouseup"
	case EventMouseEnter:
		return "mouseenter"
	case EventMouseLeave:
		return "mouseleave"
	default:
		return "custom"
	}
}

// EventTypeByName returns the tag for a DOM event name; unrecognized names
// map to EventCustom.
func EventTypeByName(name string) EventType {
	switch name {
	case "click":
		return EventClick
	case "input":
		return EventInput
	case "keydown":
		return EventKeyDown
	case "keyup":
		return EventKeyUp
	case "mousemove":
		return EventMouseMove
	case "focus":
		return EventFocus
	case "blur":
		return EventBlur
	case "submit":
		return EventSubmit
	case "change":
		return EventChange
	case "mousedown":
		return EventMouseDown
	case "mouseup":
		return EventMouseUp
	case "mouseenter":
		return EventMouseEnter
	case "mouseleave":
		return EventMouseLeave
	default:
		return EventCustom
	}
}
