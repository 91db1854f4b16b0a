package room

import (
	"log"
	"runtime/debug"
)

// Listener consumes committed room mutations, e.g. a recorder.
// HandleEvent runs on a goroutine owned by the subscription; a slow or
// failing listener never affects the room or other listeners.
type Listener interface {
	HandleEvent(ev Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev Event) error

func (f ListenerFunc) HandleEvent(ev Event) error { return f(ev) }

// subscription drains one listener's bounded queue.
type subscription struct {
	meetingID string
	listener  Listener
	events    chan Event
	done      chan struct{}
}

func newSubscription(meetingID string, l Listener, queueSize int) *subscription {
	s := &subscription{
		meetingID: meetingID,
		listener:  l,
		events:    make(chan Event, queueSize),
		done:      make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *subscription) run() {
	defer close(s.done)
	for ev := range s.events {
		s.handle(ev)
	}
}

func (s *subscription) handle(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Room %s] listener panic on %s: %v\n%s", s.meetingID, ev.Kind, r, debug.Stack())
		}
	}()

	if err := s.listener.HandleEvent(ev); err != nil {
		log.Printf("[Room %s] listener failed on %s: %v", s.meetingID, ev.Kind, err)
	}
}

// deliver enqueues ev without blocking. It reports false when the queue is
// full and the event was dropped. Callers hold the room lock.
func (s *subscription) deliver(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

// stop closes the queue; the goroutine exits after draining what is left.
func (s *subscription) stop() {
	close(s.events)
}
