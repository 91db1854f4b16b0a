package message

import (
	"encoding/json"

	"slideboard/internal/annotation"
)

// Outbound message types.
const (
	TypePresentationChanged    = "presentationChanged"
	TypeWhiteboardEnabled      = "whiteboardEnabled"
	TypeWhiteboardEnabledReply = "whiteboardEnabledReply"
	TypeAnnotationHistory      = "annotationHistory"
	TypeNewAnnotation          = "newAnnotation"
	TypePageChanged            = "pageChanged"
	TypeAuthenticated          = "authenticated"
	TypeJoined                 = "joined"
	TypeUserID                 = "userId"
	TypeError                  = "error"
	// clear and undo notices reuse the request type names
)

// Error codes carried by ErrorReply.
const (
	CodeRoomNotFound         = "ROOM_NOT_FOUND"
	CodePresentationNotFound = "PRESENTATION_NOT_FOUND"
	CodePageNotFound         = "PAGE_NOT_FOUND"
	CodeValidation           = "VALIDATION_ERROR"
	CodeMeetingFull          = "MEETING_FULL"
	CodeInternal             = "INTERNAL"
)

// Outbound is a message sent to one or all participants of a meeting.
type Outbound interface {
	MessageType() string
}

type PresentationChanged struct {
	Header
	PresentationID string `json:"presentationID"`
	NumberOfPages  int    `json:"numberOfPages"`
}

func NewPresentationChanged(presentationID string, pages int) *PresentationChanged {
	return &PresentationChanged{
		Header:         Header{Type: TypePresentationChanged},
		PresentationID: presentationID,
		NumberOfPages:  pages,
	}
}

type WhiteboardEnabled struct {
	Header
	Enabled bool `json:"enabled"`
}

func NewWhiteboardEnabled(enabled bool) *WhiteboardEnabled {
	return &WhiteboardEnabled{Header: Header{Type: TypeWhiteboardEnabled}, Enabled: enabled}
}

func NewWhiteboardEnabledReply(enabled bool) *WhiteboardEnabled {
	return &WhiteboardEnabled{Header: Header{Type: TypeWhiteboardEnabledReply}, Enabled: enabled}
}

type AnnotationHistory struct {
	Header
	PresentationID string                  `json:"presentationID"`
	PageNumber     int                     `json:"pageNumber"`
	Count          int                     `json:"count"`
	Annotations    []annotation.Annotation `json:"annotations"`
}

func NewAnnotationHistory(presentationID string, page int, history []annotation.Annotation) *AnnotationHistory {
	if history == nil {
		history = []annotation.Annotation{}
	}
	return &AnnotationHistory{
		Header:         Header{Type: TypeAnnotationHistory},
		PresentationID: presentationID,
		PageNumber:     page,
		Count:          len(history),
		Annotations:    history,
	}
}

type NewAnnotation struct {
	Header
	Annotation annotation.Annotation `json:"annotation"`
}

func NewNewAnnotation(a annotation.Annotation) *NewAnnotation {
	return &NewAnnotation{Header: Header{Type: TypeNewAnnotation}, Annotation: a}
}

type PageChanged struct {
	Header
	PageNum        int `json:"pageNum"`
	NumAnnotations int `json:"numAnnotations"`
}

func NewPageChanged(page, numAnnotations int) *PageChanged {
	return &PageChanged{Header: Header{Type: TypePageChanged}, PageNum: page, NumAnnotations: numAnnotations}
}

// Notice is a field-less broadcast such as clear or undo.
type Notice struct {
	Header
}

func NewClear() *Notice { return &Notice{Header{Type: TypeClear}} }

func NewUndo() *Notice { return &Notice{Header{Type: TypeUndo}} }

type Authenticated struct {
	Header
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

func NewAuthenticated(userID, token string) *Authenticated {
	return &Authenticated{Header: Header{Type: TypeAuthenticated}, UserID: userID, Token: token}
}

type Joined struct {
	Header
	MeetingID string `json:"meetingId"`
	UserID    string `json:"userId"`
	Color     string `json:"color"`
}

func NewJoined(meetingID, userID, color string) *Joined {
	return &Joined{Header: Header{Type: TypeJoined}, MeetingID: meetingID, UserID: userID, Color: color}
}

type UserIDReply struct {
	Header
	UserID string `json:"userId"`
}

func NewUserIDReply(userID string) *UserIDReply {
	return &UserIDReply{Header: Header{Type: TypeUserID}, UserID: userID}
}

type ErrorReply struct {
	Header
	Code    string `json:"code"`
	Message string `json:"message"`
	Request string `json:"request,omitempty"`
}

func NewError(code, msg, request string) *ErrorReply {
	return &ErrorReply{Header: Header{Type: TypeError}, Code: code, Message: msg, Request: request}
}

// Encode serializes an outbound message for the wire.
func Encode(msg Outbound) ([]byte, error) {
	return json.Marshal(msg)
}
