package handlers

import (
	"slideboard/internal/message"
	"slideboard/internal/room"
	"slideboard/internal/user"
)

// PresentationHandler: slide navigation and history replay
type PresentationHandler struct{}

func NewPresentationHandler() *PresentationHandler {
	return &PresentationHandler{}
}

func (h *PresentationHandler) HandleSetActivePresentation(rm *room.Room, req *message.SetActivePresentation) error {
	return rm.SetActivePresentation(req.PresentationID, req.NumberOfSlides)
}

func (h *PresentationHandler) HandleSetActivePage(rm *room.Room, req *message.SetActivePage) error {
	return rm.ChangeActivePage(*req.PageNum)
}

// HandleHistoryRequest replies to the requester only.
func (h *PresentationHandler) HandleHistoryRequest(rm *room.Room, u *user.User, req *message.RequestAnnotationHistory) error {
	return rm.SendAnnotationHistory(u.ID, req.PresentationID, *req.PageNumber)
}
