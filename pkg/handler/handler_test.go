package handler

import (
	"testing"

	"github.com/loom-ui/loom/pkg/signals"
)

func TestRegistrySlotReuse(t *testing.T) {
	r := NewRegistry()

	id0 := r.Register(Entry{Scope: 1, Event: "click"})
	id1 := r.Register(Entry{Scope: 1, Event: "input"})

	r.Remove(id0)
	r.Remove(id0) // idempotent

	if r.Contains(id0) {
		t.Error("Contains(removed) = true")
	}
	if got := r.Register(Entry{Scope: 2, Event: "blur"}); got != id0 {
		t.Errorf("Register after Remove = %d, want reused %d", got, id0)
	}
	if r.EventName(id1) != "input" {
		t.Error("surviving entry clobbered by reuse")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestAccessors(t *testing.T) {
	r := NewRegistry()
	id := r.Register(Entry{Scope: 3, Action: ActionAdd, Signal: 9, Operand: 5, Event: "click"})

	if r.ScopeID(id) != 3 || r.Action(id) != ActionAdd || r.SignalKey(id) != 9 ||
		r.Operand(id) != 5 || r.EventName(id) != "click" {
		t.Errorf("accessors mismatch: %+v", r.Get(id))
	}
}

func TestRemoveForScope(t *testing.T) {
	r := NewRegistry()
	a := r.Register(Entry{Scope: 1, Event: "click"})
	b := r.Register(Entry{Scope: 2, Event: "click"})
	c := r.Register(Entry{Scope: 1, Event: "input"})

	ids := r.HandlersForScope(1)
	if len(ids) != 2 || ids[0] != a || ids[1] != c {
		t.Errorf("HandlersForScope(1) = %v, want [%d %d]", ids, a, c)
	}

	if n := r.RemoveForScope(1); n != 2 {
		t.Errorf("RemoveForScope(1) = %d, want 2", n)
	}
	if r.Contains(a) || r.Contains(c) {
		t.Error("scope 1 handlers survived bulk removal")
	}
	if !r.Contains(b) {
		t.Error("scope 2 handler removed by scope 1 teardown")
	}
	if n := r.RemoveForScope(1); n != 0 {
		t.Errorf("second RemoveForScope(1) = %d, want 0", n)
	}
}

func TestApplyActions(t *testing.T) {
	store := signals.NewStore()
	num := store.Create(signals.Int(10))
	flag := store.Create(signals.Bool(false))
	text := store.Create(signals.Text(""))

	tests := []struct {
		name    string
		entry   Entry
		payload Payload
		handled bool
		check   func() bool
	}{
		{"set", Entry{Action: ActionSet, Signal: num, Operand: 99}, NoPayload(), true,
			func() bool { return store.Peek(num).Int == 99 }},
		{"add", Entry{Action: ActionAdd, Signal: num, Operand: 1}, NoPayload(), true,
			func() bool { return store.Peek(num).Int == 100 }},
		{"sub", Entry{Action: ActionSub, Signal: num, Operand: 30}, NoPayload(), true,
			func() bool { return store.Peek(num).Int == 70 }},
		{"toggle on", Entry{Action: ActionToggle, Signal: flag}, NoPayload(), true,
			func() bool { return store.Peek(flag).Bool }},
		{"toggle off", Entry{Action: ActionToggle, Signal: flag}, NoPayload(), true,
			func() bool { return !store.Peek(flag).Bool }},
		{"set from input", Entry{Action: ActionSetFromInput, Signal: text}, TextPayload("typed"), true,
			func() bool { return store.Peek(text).Text == "typed" }},
		{"set from input without text", Entry{Action: ActionSetFromInput, Signal: text}, NoPayload(), false,
			func() bool { return store.Peek(text).Text == "typed" }},
		{"custom defers", Entry{Action: ActionCustom, Signal: num}, IntPayload(5), false,
			func() bool { return store.Peek(num).Int == 70 }},
	}
	for _, tt := range tests {
		if got := Apply(tt.entry, store, tt.payload); got != tt.handled {
			t.Errorf("%s: Apply = %v, want %v", tt.name, got, tt.handled)
		}
		if !tt.check() {
			t.Errorf("%s: post-state check failed", tt.name)
		}
	}
}

func TestApplyMarksSubscribersDirty(t *testing.T) {
	store := signals.NewStore()
	key := store.Create(signals.Int(0))
	store.Subscribe(key, 42)

	Apply(Entry{Action: ActionAdd, Signal: key, Operand: 1}, store, NoPayload())

	dirty := store.DrainDirty()
	if len(dirty) != 1 || dirty[0] != 42 {
		t.Errorf("DrainDirty = %v, want [42]", dirty)
	}
}

func TestEventTypeNames(t *testing.T) {
	tags := []EventType{
		EventClick, EventInput, EventKeyDown, EventKeyUp, EventMouseMove,
		EventFocus, EventBlur, EventSubmit, EventChange, EventMouseDown,
		EventMouseUp, EventMouseEnter, EventMouseLeave,
	}
	for _, tag := range tags {
		if EventTypeByName(tag.Name()) != tag {
			t.Errorf("EventTypeByName(%q) != %d", tag.Name(), tag)
		}
	}
	if EventCustom.Name() != "custom" {
		t.Errorf("EventCustom.Name() = %q", EventCustom.Name())
	}
	if EventTypeByName("wheel") != EventCustom {
		t.Error("unknown name must map to EventCustom")
	}
	if EventCustom != 255 || EventClick != 0 || EventMouseLeave != 12 {
		t.Error("event tag values are part of the host contract")
	}
}
