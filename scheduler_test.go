package duocore

import "testing"

func TestSchedulerFiresInOrder(t *testing.T) {
	s := newScheduler()
	var order []string
	s.Schedule(30, "third", func(*System) { order = append(order, "third") })
	s.Schedule(10, "first", func(*System) { order = append(order, "first") })
	s.Schedule(20, "second", func(*System) { order = append(order, "second") })

	s.Advance(nil, 25)

	want := []string{"first", "second"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("order[%d] = %s, want %s", i, order[i], name)
		}
	}
	if s.CyclesToNextEvent() != 5 {
		t.Fatalf("CyclesToNextEvent() = %d, want 5", s.CyclesToNextEvent())
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := newScheduler()
	fired := false
	id := s.Schedule(10, "x", func(*System) { fired = true })
	s.Cancel(id)
	s.Advance(nil, 100)
	if fired {
		t.Fatal("cancelled event fired")
	}
}

// TestSchedulerReentrancy verifies spec.md §4.6's rule: an event's callback
// may schedule a new event that lands at or before the now-current time, and
// that new event fires within the same Advance pass.
func TestSchedulerReentrancy(t *testing.T) {
	s := newScheduler()
	var order []string
	s.Schedule(10, "outer", func(sys *System) {
		order = append(order, "outer")
		s.Schedule(0, "inner", func(*System) { order = append(order, "inner") })
	})
	s.Advance(nil, 10)

	want := []string{"outer", "inner"}
	if len(order) != len(want) || order[0] != want[0] || order[1] != want[1] {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestSchedulerEmptyQueueSentinel(t *testing.T) {
	s := newScheduler()
	if s.CyclesToNextEvent() == 0 {
		t.Fatal("empty scheduler should never report 0 cycles to next event")
	}
}

func TestSchedulerResetClearsState(t *testing.T) {
	s := newScheduler()
	s.Schedule(5, "x", func(*System) {})
	s.Advance(nil, 5)
	s.reset()
	if s.Now() != 0 {
		t.Fatalf("Now() after reset = %d, want 0", s.Now())
	}
	if len(s.events) != 0 {
		t.Fatalf("events after reset = %v, want empty", s.events)
	}
}
