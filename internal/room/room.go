package room

import (
	"fmt"
	"log"
	"sync"
	"time"

	"slideboard/internal/annotation"
	"slideboard/internal/message"
)

const defaultListenerQueue = 256

// Room is the whiteboard state of one meeting.
//
// Every mutation holds mu for writing while it commits, hands its broadcast
// to the Broadcaster and queues listener events, so all participants and
// listeners observe one total order per room. Rooms never share a lock.
type Room struct {
	MeetingID string
	CreatedAt time.Time

	presentations      map[string]*Presentation
	activePresentation string
	whiteboardEnabled  bool
	listeners          []*subscription
	listenerQueue      int
	closed             bool

	broadcaster Broadcaster
	mu          sync.RWMutex
}

func newRoom(meetingID string, b Broadcaster, opts Options) *Room {
	queue := opts.ListenerQueueSize
	if queue <= 0 {
		queue = defaultListenerQueue
	}
	return &Room{
		MeetingID:         meetingID,
		CreatedAt:         time.Now(),
		presentations:     make(map[string]*Presentation),
		whiteboardEnabled: opts.WhiteboardEnabled,
		listenerQueue:     queue,
		broadcaster:       b,
	}
}

// SetActivePresentation makes presentationID active, creating it with
// pageCount empty pages if it is new. An existing presentation keeps its
// pages and history.
func (r *Room) SetActivePresentation(presentationID string, pageCount int) error {
	if presentationID == "" {
		return message.Invalid("presentationID", "is required")
	}
	if pageCount < 1 {
		return message.Invalid("numberOfSlides", "must be at least 1")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.errClosed()
	}

	pres, exists := r.presentations[presentationID]
	if !exists {
		pres = newPresentation(presentationID, pageCount)
		r.presentations[presentationID] = pres
	}
	r.activePresentation = presentationID

	r.broadcaster.Broadcast(r.MeetingID, message.NewPresentationChanged(pres.ID, pres.PageCount()))
	r.publish(Event{
		Kind:           EventPresentationChanged,
		PresentationID: pres.ID,
		PageNumber:     pres.ActivePageNumber(),
		PageCount:      pres.PageCount(),
	})
	return nil
}

// SetWhiteboardEnabled stores the flag and broadcasts the stored value.
func (r *Room) SetWhiteboardEnabled(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.errClosed()
	}

	r.whiteboardEnabled = enabled
	current := r.whiteboardEnabled

	r.broadcaster.Broadcast(r.MeetingID, message.NewWhiteboardEnabled(current))
	r.publish(Event{Kind: EventWhiteboardToggled, Enabled: &current})
	return nil
}

// IsWhiteboardEnabled replies to requesterID with the current flag.
func (r *Room) IsWhiteboardEnabled(requesterID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return false, r.errClosed()
	}

	r.broadcaster.Direct(r.MeetingID, requesterID, message.NewWhiteboardEnabledReply(r.whiteboardEnabled))
	return r.whiteboardEnabled, nil
}

// AddAnnotation applies the commit policy to a on the active page and
// broadcasts it. Relay-only events are broadcast without touching history
// and do not require an active presentation. Annotations without an id or
// with an unknown kind are rejected.
func (r *Room) AddAnnotation(a annotation.Annotation) (Outcome, error) {
	if a.ID == "" {
		return OutcomeRelayed, message.Invalid("annotation.id", "is required")
	}
	if !a.Kind.Valid() {
		return OutcomeRelayed, message.Invalid("annotation.type", fmt.Sprintf("unknown kind %q", a.Kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return OutcomeRelayed, r.errClosed()
	}

	decision := annotation.Decide(a)
	outcome := OutcomeRelayed

	if decision != annotation.Relay {
		pres, err := r.active()
		if err != nil {
			return OutcomeRelayed, err
		}
		page := pres.activePageRef()

		switch decision {
		case annotation.Append:
			outcome = page.add(a)
		case annotation.Modify:
			if page.replace(a) {
				outcome = OutcomeReplaced
			}
		}

		if outcome != OutcomeRelayed {
			kind := EventAnnotationAdded
			if outcome == OutcomeReplaced {
				kind = EventAnnotationModified
			}
			committed := a
			r.broadcaster.Broadcast(r.MeetingID, message.NewNewAnnotation(a))
			r.publish(Event{
				Kind:           kind,
				PresentationID: pres.ID,
				PageNumber:     page.Number,
				Annotation:     &committed,
			})
			return outcome, nil
		}
	}

	r.broadcaster.Broadcast(r.MeetingID, message.NewNewAnnotation(a))
	return outcome, nil
}

// ChangeActivePage switches the active presentation to page n and
// broadcasts how many annotations that page already holds.
func (r *Room) ChangeActivePage(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.errClosed()
	}

	pres, err := r.active()
	if err != nil {
		return err
	}
	page, err := pres.setActivePage(n)
	if err != nil {
		return err
	}

	r.broadcaster.Broadcast(r.MeetingID, message.NewPageChanged(page.Number, page.NumAnnotations()))
	r.publish(Event{
		Kind:           EventPageChanged,
		PresentationID: pres.ID,
		PageNumber:     page.Number,
		PageCount:      pres.PageCount(),
	})
	return nil
}

// Clear empties the active page.
func (r *Room) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.errClosed()
	}

	pres, err := r.active()
	if err != nil {
		return err
	}
	page := pres.activePageRef()
	page.clear()

	r.broadcaster.Broadcast(r.MeetingID, message.NewClear())
	r.publish(Event{Kind: EventPageCleared, PresentationID: pres.ID, PageNumber: page.Number})
	return nil
}

// Undo removes the most recently stored annotation of the active page.
// Undo on an empty page still broadcasts.
func (r *Room) Undo() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.errClosed()
	}

	pres, err := r.active()
	if err != nil {
		return err
	}
	page := pres.activePageRef()

	ev := Event{Kind: EventAnnotationUndone, PresentationID: pres.ID, PageNumber: page.Number}
	if removed, ok := page.undo(); ok {
		ev.Annotation = &removed
	}

	r.broadcaster.Broadcast(r.MeetingID, message.NewUndo())
	r.publish(ev)
	return nil
}

// ActivePresentation returns the active presentation id and page number.
func (r *Room) ActivePresentation() (string, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return "", 0, r.errClosed()
	}
	pres, err := r.active()
	if err != nil {
		return "", 0, err
	}
	return pres.ID, pres.ActivePageNumber(), nil
}

// AddListener subscribes l to every committed mutation from now on.
func (r *Room) AddListener(l Listener) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.errClosed()
	}

	r.listeners = append(r.listeners, newSubscription(r.MeetingID, l, r.listenerQueue))
	return nil
}

// Close detaches all listeners. Every later operation fails with
// ErrRoomNotFound.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for _, sub := range r.listeners {
		sub.stop()
	}
	r.listeners = nil
}

// active returns the active presentation. Callers hold mu.
func (r *Room) active() (*Presentation, error) {
	pres, ok := r.presentations[r.activePresentation]
	if !ok {
		return nil, fmt.Errorf("%w: no active presentation in meeting %s", ErrPresentationNotFound, r.MeetingID)
	}
	return pres, nil
}

func (r *Room) errClosed() error {
	return fmt.Errorf("%w: meeting %s has ended", ErrRoomNotFound, r.MeetingID)
}

// publish queues ev for every listener. Callers hold mu for writing.
func (r *Room) publish(ev Event) {
	if len(r.listeners) == 0 {
		return
	}
	ev.MeetingID = r.MeetingID
	ev.At = time.Now()

	for _, sub := range r.listeners {
		if !sub.deliver(ev) {
			log.Printf("[Room %s] listener queue full, dropped %s", r.MeetingID, ev.Kind)
		}
	}
}
