package handlers

import (
	"fmt"

	"slideboard/internal/annotation"
	"slideboard/internal/message"
	"slideboard/internal/middleware"
	"slideboard/internal/user"
)

// MessageRouter routes incoming messages to appropriate handlers
type MessageRouter struct {
	parser  *message.Parser
	rooms   RoomFinder
	replier Replier

	annotationHandler   *AnnotationHandler
	presentationHandler *PresentationHandler
	whiteboardHandler   *WhiteboardHandler
	userHandler         *UserHandler
}

func NewMessageRouter(
	parser *message.Parser,
	sanitizer *annotation.Sanitizer,
	limits *middleware.Limits,
	rooms RoomFinder,
	replier Replier,
) *MessageRouter {
	return &MessageRouter{
		parser:              parser,
		rooms:               rooms,
		replier:             replier,
		annotationHandler:   NewAnnotationHandler(sanitizer, limits),
		presentationHandler: NewPresentationHandler(),
		whiteboardHandler:   NewWhiteboardHandler(),
		userHandler:         NewUserHandler(replier),
	}
}

// Route parses one client frame and applies it to the meeting's room. A
// rejected request is answered with an error message to the sender and
// the error is returned for logging.
func (mr *MessageRouter) Route(meetingID string, u *user.User, raw []byte) error {
	req, err := mr.parser.Parse(raw)
	if err != nil {
		mr.replier.Direct(meetingID, u.ID, errorReply(err, ""))
		return err
	}

	if err := mr.dispatch(meetingID, u, req); err != nil {
		mr.replier.Direct(meetingID, u.ID, errorReply(err, req.MessageType()))
		return fmt.Errorf("%s: %w", req.MessageType(), err)
	}
	return nil
}

func (mr *MessageRouter) dispatch(meetingID string, u *user.User, req message.Inbound) error {
	// requests that do not touch the room
	switch req.(type) {
	case *message.GetUserID:
		return mr.userHandler.HandleGetUserID(meetingID, u)
	case *message.ToggleGrid:
		return nil
	case *message.Authenticate:
		return message.Invalid("type", "connection is already authenticated")
	}

	rm, err := mr.rooms.GetRoom(meetingID)
	if err != nil {
		return err
	}

	switch req := req.(type) {
	case *message.SendAnnotation:
		return mr.annotationHandler.HandleSend(rm, u, req)
	case *message.UndoRequest:
		return mr.annotationHandler.HandleUndo(rm)
	case *message.ClearRequest:
		return mr.annotationHandler.HandleClear(rm)
	case *message.SetActivePresentation:
		return mr.presentationHandler.HandleSetActivePresentation(rm, req)
	case *message.SetActivePage:
		return mr.presentationHandler.HandleSetActivePage(rm, req)
	case *message.RequestAnnotationHistory:
		return mr.presentationHandler.HandleHistoryRequest(rm, u, req)
	case *message.EnableWhiteboard:
		return mr.whiteboardHandler.HandleEnable(rm, req)
	case *message.IsWhiteboardEnabled:
		return mr.whiteboardHandler.HandleIsEnabled(rm, u)
	default:
		return message.Invalid("type", fmt.Sprintf("unsupported message type %q", req.MessageType()))
	}
}
