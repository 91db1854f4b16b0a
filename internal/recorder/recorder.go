package recorder

import (
	"fmt"

	"slideboard/internal/room"
)

// Recorder is a room listener that appends every committed mutation of a
// meeting to the store.
type Recorder struct {
	meetingID string
	store     *Store
}

func NewRecorder(meetingID string, store *Store) *Recorder {
	return &Recorder{meetingID: meetingID, store: store}
}

// Factory returns a constructor for per-meeting recorders.
func Factory(store *Store) func(meetingID string) room.Listener {
	return func(meetingID string) room.Listener {
		return NewRecorder(meetingID, store)
	}
}

func (r *Recorder) HandleEvent(ev room.Event) error {
	if _, err := r.store.SaveEvent(ev); err != nil {
		return fmt.Errorf("record %s for meeting %s: %w", ev.Kind, r.meetingID, err)
	}
	return nil
}
