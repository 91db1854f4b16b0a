package room

import (
	"fmt"
	"log"
	"sync"
)

// Options configures new rooms.
type Options struct {
	// WhiteboardEnabled is the initial flag of a new room.
	WhiteboardEnabled bool
	// ListenerQueueSize bounds each listener's pending events.
	ListenerQueueSize int
}

// Manager is the registry of rooms, one per running meeting. A room lives
// from meeting start to meeting stop.
type Manager struct {
	rooms       map[string]*Room
	broadcaster Broadcaster
	opts        Options
	mu          sync.RWMutex
}

// NewManager creates a registry whose rooms broadcast through b.
func NewManager(b Broadcaster, opts Options) *Manager {
	return &Manager{
		rooms:       make(map[string]*Room),
		broadcaster: b,
		opts:        opts,
	}
}

// AddRoom creates the room for meetingID. If one already exists it is kept
// as is and returned with created=false.
func (rm *Manager) AddRoom(meetingID string) (r *Room, created bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if existing, ok := rm.rooms[meetingID]; ok {
		return existing, false
	}

	r = newRoom(meetingID, rm.broadcaster, rm.opts)
	rm.rooms[meetingID] = r
	log.Printf("[Registry] room created for meeting %s", meetingID)
	return r, true
}

// GetRoom returns the room for meetingID, or ErrRoomNotFound if the meeting
// has not started.
func (rm *Manager) GetRoom(meetingID string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	r, ok := rm.rooms[meetingID]
	if !ok {
		return nil, fmt.Errorf("%w: meeting %s", ErrRoomNotFound, meetingID)
	}
	return r, nil
}

// RemoveRoom deletes the room for meetingID and detaches its listeners.
func (rm *Manager) RemoveRoom(meetingID string) {
	rm.mu.Lock()
	r, ok := rm.rooms[meetingID]
	delete(rm.rooms, meetingID)
	rm.mu.Unlock()

	if !ok {
		return
	}
	r.Close()
	log.Printf("[Registry] room removed for meeting %s", meetingID)
}

// RoomCount returns the number of running meetings.
func (rm *Manager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	return len(rm.rooms)
}

// Shutdown closes every room.
func (rm *Manager) Shutdown() {
	rm.mu.Lock()
	rooms := rm.rooms
	rm.rooms = make(map[string]*Room)
	rm.mu.Unlock()

	for _, r := range rooms {
		r.Close()
	}
}
