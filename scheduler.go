package duocore

import "sort"

// EventCallback is invoked when a scheduled event fires. Per spec.md §4.6 it
// may schedule further events; those with fire_at <= current_time fire
// within the same Run() pass (reentrancy).
type EventCallback func(sys *System)

type scheduledEvent struct {
	fireAt uint64
	id     uint64
	name   string
	cb     EventCallback
}

// Scheduler is the central event queue from spec.md §4.6/§C7: ordered
// ascending by fire_at, binary-search insertion, cancel-by-stable-id.
type Scheduler struct {
	events      []scheduledEvent
	currentTime uint64
	nextID      uint64
}

func newScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) reset() {
	s.events = nil
	s.currentTime = 0
	s.nextID = 0
}

func (s *Scheduler) Now() uint64 { return s.currentTime }

// Schedule inserts a new event and returns its stable handle (id).
func (s *Scheduler) Schedule(delay uint64, name string, cb EventCallback) uint64 {
	fireAt := s.currentTime + delay
	s.nextID++
	id := s.nextID
	i := sort.Search(len(s.events), func(i int) bool { return s.events[i].fireAt > fireAt })
	s.events = append(s.events, scheduledEvent{})
	copy(s.events[i+1:], s.events[i:])
	s.events[i] = scheduledEvent{fireAt: fireAt, id: id, name: name, cb: cb}
	return id
}

// Cancel removes the event with the given id, if still pending.
func (s *Scheduler) Cancel(id uint64) {
	for i, e := range s.events {
		if e.id == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return
		}
	}
}

// Advance moves current_time forward by `delta` cycles, then fires every
// event with fire_at <= current_time, including any newly-scheduled events
// that land at or before the (now-fixed) current_time - the reentrancy rule
// from spec.md §4.6.
func (s *Scheduler) Advance(sys *System, delta uint64) {
	s.currentTime += delta
	for len(s.events) > 0 && s.events[0].fireAt <= s.currentTime {
		e := s.events[0]
		s.events = s.events[1:]
		e.cb(sys)
	}
}

// CyclesToNextEvent returns how many cycles remain until the earliest
// pending event, or a large sentinel if the queue is somehow empty (spec.md
// invariant: "Scheduler is never empty while the system is running").
func (s *Scheduler) CyclesToNextEvent() uint64 {
	if len(s.events) == 0 {
		return 1 << 20
	}
	if s.events[0].fireAt <= s.currentTime {
		return 0
	}
	return s.events[0].fireAt - s.currentTime
}
