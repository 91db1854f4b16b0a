package room

import "errors"

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrPresentationNotFound = errors.New("presentation not found")
	ErrPageNotFound         = errors.New("page not found")
)
