package core

import "errors"

// Error codes for domain errors surfaced to clients.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotInRoom      = "not_in_room"
	ErrCodeAlreadyJoined  = "already_joined"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeRateLimited    = "rate_limited"
	ErrCodeUnauthorized   = "unauthorized"
)

var (
	// ErrUnknownConnection is returned when a connection id is not registered.
	ErrUnknownConnection = errors.New("unknown connection")
	// ErrUnknownRoom is returned by read-only queries against a room that does not exist.
	ErrUnknownRoom = errors.New("unknown room")
	// ErrStaleTarget is returned when a relay sender or target is no longer a room member.
	ErrStaleTarget = errors.New("stale target")
	// ErrDuplicateConnection is returned when a connection id is registered twice.
	ErrDuplicateConnection = errors.New("duplicate connection")
	// ErrAlreadyInRoom is returned when a connection in one room asks to join another.
	ErrAlreadyInRoom = errors.New("already in a room")
	// ErrNotInRoom is returned when a connection addresses a room it is not a member of.
	ErrNotInRoom = errors.New("not in room")
	// ErrCorrupted signals a broken registry invariant. It is never recovered from.
	ErrCorrupted = errors.New("registry invariant violated")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
