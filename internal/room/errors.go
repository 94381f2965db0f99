package room

import "errors"

var (
	ErrAuthFailed        = errors.New("authentication failed")
	ErrAuthTimeout       = errors.New("authentication timed out")
	ErrProtocolViolation = errors.New("protocol violation")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrPresenceNotFound  = errors.New("presence not found")
)
