package signals

import "testing"

func TestCreateReadWrite(t *testing.T) {
	s := NewStore()
	k := s.Create(Int(41))

	if v := s.Peek(k); v.Kind != KindInt || v.Int != 41 {
		t.Errorf("Peek = %+v, want Int 41", v)
	}
	if s.Version(k) != 0 {
		t.Errorf("Version before write = %d, want 0", s.Version(k))
	}

	s.Write(k, Int(42))
	if v := s.Peek(k); v.Int != 42 {
		t.Errorf("Peek after write = %d, want 42", v.Int)
	}
	if s.Version(k) != 1 {
		t.Errorf("Version after write = %d, want 1", s.Version(k))
	}
}

func TestVersionIncrementsOnlyOnWrite(t *testing.T) {
	s := NewStore()
	k := s.Create(Text("a"))

	s.Peek(k)
	s.ReadTracked(k, 1)
	if s.Version(k) != 0 {
		t.Errorf("Version after reads = %d, want 0", s.Version(k))
	}

	s.Write(k, Text("a")) // same value still counts as a write
	s.Write(k, Text("b"))
	if s.Version(k) != 2 {
		t.Errorf("Version after two writes = %d, want 2", s.Version(k))
	}
}

func TestReadTrackedSubscribesIdempotently(t *testing.T) {
	s := NewStore()
	k := s.Create(Int(0))

	s.ReadTracked(k, 9)
	s.ReadTracked(k, 9)
	s.ReadTracked(k, 9)
	if n := s.SubscriberCount(k); n != 1 {
		t.Errorf("SubscriberCount = %d, want 1", n)
	}

	// Peek never subscribes.
	s.Peek(k)
	if n := s.SubscriberCount(k); n != 1 {
		t.Errorf("SubscriberCount after Peek = %d, want 1", n)
	}
}

func TestWriteQueuesSubscribersOnce(t *testing.T) {
	s := NewStore()
	k := s.Create(Int(0))
	s.Subscribe(k, 1)
	s.Subscribe(k, 2)

	// Two writes in one turn: each subscriber queued exactly once.
	s.Write(k, Int(1))
	s.Write(k, Int(2))

	dirty := s.DrainDirty()
	if len(dirty) != 2 {
		t.Fatalf("DrainDirty = %v, want 2 entries", dirty)
	}
	seen := map[uint32]bool{}
	for _, id := range dirty {
		if seen[id] {
			t.Errorf("subscriber %d queued twice", id)
		}
		seen[id] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("DrainDirty = %v, want subscribers 1 and 2", dirty)
	}

	// Drained: the next turn starts clean.
	if d := s.DrainDirty(); d != nil {
		t.Errorf("second DrainDirty = %v, want nil", d)
	}

	// A later write re-queues.
	s.Write(k, Int(3))
	if d := s.DrainDirty(); len(d) != 2 {
		t.Errorf("DrainDirty after new turn = %v, want 2 entries", d)
	}
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore()
	k := s.Create(Bool(false))
	s.Subscribe(k, 1)
	s.Subscribe(k, 2)
	s.Unsubscribe(k, 1)
	s.Unsubscribe(k, 77) // unknown: ignored

	s.Write(k, Bool(true))
	dirty := s.DrainDirty()
	if len(dirty) != 1 || dirty[0] != 2 {
		t.Errorf("DrainDirty = %v, want [2]", dirty)
	}
}

func TestDestroyAndReuse(t *testing.T) {
	s := NewStore()
	k1 := s.Create(Int(1))
	k2 := s.Create(Int(2))

	s.Destroy(k1)
	s.Destroy(k1) // no-op
	if s.Contains(k1) {
		t.Error("Contains after Destroy = true")
	}
	if s.UserCount() != 1 {
		t.Errorf("UserCount = %d, want 1", s.UserCount())
	}

	// Freed key comes back before growth.
	if k3 := s.Create(Int(3)); k3 != k1 {
		t.Errorf("Create after Destroy = %d, want %d", k3, k1)
	}
	if s.Peek(k2).Int != 2 {
		t.Error("surviving cell clobbered by reuse")
	}
}

func TestPeekDeadKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Peek on dead key did not panic")
		}
	}()
	s := NewStore()
	k := s.Create(Int(0))
	s.Destroy(k)
	s.Peek(k)
}
