package room

import (
	"time"

	"slideboard/internal/annotation"
)

// EventKind names a committed room mutation.
type EventKind string

const (
	EventPresentationChanged EventKind = "presentation_changed"
	EventWhiteboardToggled   EventKind = "whiteboard_toggled"
	EventAnnotationAdded     EventKind = "annotation_added"
	EventAnnotationModified  EventKind = "annotation_modified"
	EventPageChanged         EventKind = "page_changed"
	EventPageCleared         EventKind = "page_cleared"
	EventAnnotationUndone    EventKind = "annotation_undone"
)

// Event is published to room listeners after a mutation commits.
// Fields that do not apply to a kind are left zero.
type Event struct {
	Kind           EventKind              `json:"kind"`
	MeetingID      string                 `json:"meetingId"`
	PresentationID string                 `json:"presentationID,omitempty"`
	PageNumber     int                    `json:"pageNumber,omitempty"`
	PageCount      int                    `json:"pageCount,omitempty"`
	Enabled        *bool                  `json:"enabled,omitempty"`
	Annotation     *annotation.Annotation `json:"annotation,omitempty"`
	At             time.Time              `json:"at"`
}
