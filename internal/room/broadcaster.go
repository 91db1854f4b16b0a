package room

import "slideboard/internal/message"

// Broadcaster delivers outbound messages to the participants of a meeting.
//
// Rooms call both methods while holding their lock so that every participant
// sees mutations in commit order. Implementations must only enqueue: they
// may not block and may not call back into the room.
type Broadcaster interface {
	// Broadcast sends msg to everyone in the meeting, sender included.
	Broadcast(meetingID string, msg message.Outbound)
	// Direct sends msg to a single participant.
	Direct(meetingID, userID string, msg message.Outbound)
}
