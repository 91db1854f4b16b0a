package handlers

import (
	"errors"

	"slideboard/internal/message"
	"slideboard/internal/room"
)

// ErrorCode maps a rejected request to the code sent to the client.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return message.CodeRoomNotFound
	case errors.Is(err, room.ErrPresentationNotFound):
		return message.CodePresentationNotFound
	case errors.Is(err, room.ErrPageNotFound):
		return message.CodePageNotFound
	case message.IsValidation(err):
		return message.CodeValidation
	default:
		return message.CodeInternal
	}
}

// errorReply builds the error message for err. Internal failures are not
// described to clients.
func errorReply(err error, request string) *message.ErrorReply {
	code := ErrorCode(err)
	text := err.Error()
	if code == message.CodeInternal {
		text = "internal error"
	}
	return message.NewError(code, text, request)
}
