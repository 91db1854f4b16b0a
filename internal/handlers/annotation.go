package handlers

import (
	"slideboard/internal/annotation"
	"slideboard/internal/message"
	"slideboard/internal/middleware"
	"slideboard/internal/room"
	"slideboard/internal/user"
)

// AnnotationHandler: drawing messages (sendAnnotation, undo, clear)
type AnnotationHandler struct {
	sanitizer *annotation.Sanitizer
	limits    *middleware.Limits
}

func NewAnnotationHandler(sanitizer *annotation.Sanitizer, limits *middleware.Limits) *AnnotationHandler {
	return &AnnotationHandler{
		sanitizer: sanitizer,
		limits:    limits,
	}
}

// HandleSend bounds and sanitizes the payload, stamps the sender as owner
// and hands the annotation to the room.
func (h *AnnotationHandler) HandleSend(rm *room.Room, u *user.User, req *message.SendAnnotation) error {
	if err := h.limits.ValidateDataComplexity(req.Annotation.Data); err != nil {
		return message.Invalid("annotation.data", err.Error())
	}

	a := h.sanitizer.Sanitize(req.Annotation)
	a.Owner = u.ID

	_, err := rm.AddAnnotation(a)
	return err
}

func (h *AnnotationHandler) HandleUndo(rm *room.Room) error {
	return rm.Undo()
}

func (h *AnnotationHandler) HandleClear(rm *room.Room) error {
	return rm.Clear()
}
