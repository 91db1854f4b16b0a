package handlers

import (
	"slideboard/internal/message"
	"slideboard/internal/room"
	"slideboard/internal/user"
)

type WhiteboardHandler struct{}

func NewWhiteboardHandler() *WhiteboardHandler {
	return &WhiteboardHandler{}
}

func (h *WhiteboardHandler) HandleEnable(rm *room.Room, req *message.EnableWhiteboard) error {
	return rm.SetWhiteboardEnabled(*req.Enabled)
}

func (h *WhiteboardHandler) HandleIsEnabled(rm *room.Room, u *user.User) error {
	_, err := rm.IsWhiteboardEnabled(u.ID)
	return err
}
