package transport

import (
	"errors"
	"log"
	"sync"

	"slideboard/internal/message"
	"slideboard/internal/user"
)

var ErrMeetingFull = errors.New("meeting is full")

type meeting struct {
	clients map[*Client]bool
	colors  *user.ColorGenerator
}

// Hub fans messages out to the connections of each meeting. It implements
// room.Broadcaster: sends only enqueue on a client's buffered channel, so a
// room can broadcast while holding its lock.
type Hub struct {
	meetings    map[string]*meeting
	maxRoomSize int
	mu          sync.Mutex
}

func NewHub(maxRoomSize int) *Hub {
	return &Hub{
		meetings:    make(map[string]*meeting),
		maxRoomSize: maxRoomSize,
	}
}

// Join registers c with its meeting and returns the participant's color.
func (h *Hub) Join(c *Client) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.meetings[c.MeetingID]
	if !ok {
		m = &meeting{
			clients: make(map[*Client]bool),
			colors:  user.NewColorGenerator(),
		}
		h.meetings[c.MeetingID] = m
	}

	if h.maxRoomSize > 0 && len(m.clients) >= h.maxRoomSize {
		return "", ErrMeetingFull
	}

	m.clients[c] = true
	c.Color = m.colors.ColorFor(c.User.ID)

	log.Printf("[Meeting %s] user %s joined (total: %d)", c.MeetingID, c.User.ID, len(m.clients))
	return c.Color, nil
}

// Leave unregisters c and closes its send queue.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.meetings[c.MeetingID]
	if !ok || !m.clients[c] {
		return
	}
	h.drop(m, c)

	log.Printf("[Meeting %s] user %s left (remaining: %d)", c.MeetingID, c.User.ID, len(m.clients))
}

// CloseMeeting disconnects every participant of meetingID.
func (h *Hub) CloseMeeting(meetingID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.meetings[meetingID]
	if !ok {
		return
	}
	for c := range m.clients {
		close(c.send)
	}
	delete(h.meetings, meetingID)

	log.Printf("[Meeting %s] closed, %d connections released", meetingID, len(m.clients))
}

// Broadcast implements room.Broadcaster.
func (h *Hub) Broadcast(meetingID string, msg message.Outbound) {
	data, err := message.Encode(msg)
	if err != nil {
		log.Printf("[Meeting %s] failed to encode %s: %v", meetingID, msg.MessageType(), err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.meetings[meetingID]
	if !ok {
		return
	}
	for c := range m.clients {
		h.enqueue(m, c, data)
	}
}

// Direct implements room.Broadcaster. Every connection of userID in the
// meeting receives msg.
func (h *Hub) Direct(meetingID, userID string, msg message.Outbound) {
	data, err := message.Encode(msg)
	if err != nil {
		log.Printf("[Meeting %s] failed to encode %s: %v", meetingID, msg.MessageType(), err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.meetings[meetingID]
	if !ok {
		return
	}
	for c := range m.clients {
		if c.User.ID == userID {
			h.enqueue(m, c, data)
		}
	}
}

// Send queues msg for a single connection.
func (h *Hub) Send(c *Client, msg message.Outbound) {
	data, err := message.Encode(msg)
	if err != nil {
		log.Printf("[Meeting %s] failed to encode %s: %v", c.MeetingID, msg.MessageType(), err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.meetings[c.MeetingID]; ok && m.clients[c] {
		h.enqueue(m, c, data)
	}
}

// ClientCount returns the number of connections in meetingID.
func (h *Hub) ClientCount(meetingID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.meetings[meetingID]; ok {
		return len(m.clients)
	}
	return 0
}

// enqueue never blocks: a client whose queue is full is disconnected.
// Callers hold mu.
func (h *Hub) enqueue(m *meeting, c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("[Meeting %s] user %s too slow, disconnecting", c.MeetingID, c.User.ID)
		h.drop(m, c)
	}
}

// drop removes c and closes its queue. The meeting entry stays until
// CloseMeeting so returning participants keep their color. Callers hold mu.
func (h *Hub) drop(m *meeting, c *Client) {
	delete(m.clients, c)
	close(c.send)
}
