package handlers

import (
	"slideboard/internal/message"
	"slideboard/internal/user"
)

type UserHandler struct {
	replier Replier
}

func NewUserHandler(replier Replier) *UserHandler {
	return &UserHandler{replier: replier}
}

// HandleGetUserID: replies with the requester's user ID
func (h *UserHandler) HandleGetUserID(meetingID string, u *user.User) error {
	h.replier.Direct(meetingID, u.ID, message.NewUserIDReply(u.ID))
	return nil
}
