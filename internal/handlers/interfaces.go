package handlers

import (
	"slideboard/internal/message"
	"slideboard/internal/room"
)

// RoomFinder resolves the room of a running meeting.
type RoomFinder interface {
	GetRoom(meetingID string) (*room.Room, error)
}

// RoomRegistry drives the room lifecycle from meeting start/stop.
type RoomRegistry interface {
	RoomFinder
	AddRoom(meetingID string) (*room.Room, bool)
	RemoveRoom(meetingID string)
	RoomCount() int
}

// Replier sends a message to a single participant.
type Replier interface {
	Direct(meetingID, userID string, msg message.Outbound)
}

// SessionCounter reports how many participant sessions are live.
type SessionCounter interface {
	Count() int
}

// MeetingCloser disconnects every participant of a meeting.
type MeetingCloser interface {
	CloseMeeting(meetingID string)
}

// ListenerFactory builds a room listener for a meeting, e.g. a recorder.
type ListenerFactory func(meetingID string) room.Listener
