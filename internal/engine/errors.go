package engine

import (
	"errors"
	"fmt"
)

// SessionError reports a session command that named something the document
// does not have, or that the session cannot perform.
//
// The timing tree itself absorbs bad requests silently; the session checks
// ids and indexes first so CLI and harness callers get an answer.
type SessionError struct {
	// Code identifies the error category.
	Code SessionErrorCode

	// Message is a human-readable description.
	Message string

	// SessionID identifies the session that rejected the command.
	SessionID string

	// Details contains additional context.
	Details map[string]string
}

// SessionErrorCode categorizes session errors.
type SessionErrorCode string

const (
	// ErrCodeUnknownContainer indicates no container has the requested id.
	ErrCodeUnknownContainer SessionErrorCode = "UNKNOWN_CONTAINER"

	// ErrCodeUnknownElement indicates no element has the requested id.
	ErrCodeUnknownElement SessionErrorCode = "UNKNOWN_ELEMENT"

	// ErrCodeIndexOutOfRange indicates a child index outside the container.
	ErrCodeIndexOutOfRange SessionErrorCode = "INDEX_OUT_OF_RANGE"

	// ErrCodeNotVirtual indicates a virtual-time command on a real-time
	// session.
	ErrCodeNotVirtual SessionErrorCode = "NOT_VIRTUAL"
)

// Error implements the error interface.
func (e *SessionError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("%s: %s (session=%s)", e.Code, e.Message, e.SessionID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSessionError reports whether err is a SessionError with the given code.
func IsSessionError(err error, code SessionErrorCode) bool {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsUnknownTarget reports whether err names a container or element that does
// not exist.
func IsUnknownTarget(err error) bool {
	return IsSessionError(err, ErrCodeUnknownContainer) || IsSessionError(err, ErrCodeUnknownElement)
}

func unknownContainer(sessionID, id string) *SessionError {
	return &SessionError{
		Code:      ErrCodeUnknownContainer,
		Message:   fmt.Sprintf("no container with id %q", id),
		SessionID: sessionID,
		Details:   map[string]string{"id": id},
	}
}

func unknownElement(sessionID, id string) *SessionError {
	return &SessionError{
		Code:      ErrCodeUnknownElement,
		Message:   fmt.Sprintf("no element with id %q", id),
		SessionID: sessionID,
		Details:   map[string]string{"id": id},
	}
}

func indexOutOfRange(sessionID, id string, index, n int) *SessionError {
	return &SessionError{
		Code:      ErrCodeIndexOutOfRange,
		Message:   fmt.Sprintf("index %d outside container %q with %d children", index, id, n),
		SessionID: sessionID,
		Details: map[string]string{
			"id":       id,
			"index":    fmt.Sprintf("%d", index),
			"children": fmt.Sprintf("%d", n),
		},
	}
}
