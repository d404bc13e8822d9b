package timing

import (
	"errors"
	"fmt"
)

// BuildError describes a problem found while building the time tree.
//
// Only a missing document or ticker fails Build. Everything else is
// absorbed: the offending attribute is ignored, the problem is logged and it
// is kept in Registry.Issues for tooling to report.
type BuildError struct {
	// Code identifies the error category.
	Code BuildErrorCode

	// Message is a human-readable description.
	Message string

	// Element labels the element that declared the problem.
	Element string

	// Err is the underlying cause, if any.
	Err error
}

// BuildErrorCode categorizes build errors.
type BuildErrorCode string

const (
	// ErrCodeNoDocument indicates Build was called without a document.
	ErrCodeNoDocument BuildErrorCode = "NO_DOCUMENT"

	// ErrCodeNoTicker indicates no tick source was configured.
	ErrCodeNoTicker BuildErrorCode = "NO_TICKER"

	// ErrCodeUnknownKind indicates a timeContainer value other than par, seq
	// or excl.
	ErrCodeUnknownKind BuildErrorCode = "UNKNOWN_KIND"

	// ErrCodeBadSelector indicates a select or mediaSync selector that does
	// not compile.
	ErrCodeBadSelector BuildErrorCode = "BAD_SELECTOR"

	// ErrCodeBadAction indicates an onbegin/onend callback that does not
	// parse.
	ErrCodeBadAction BuildErrorCode = "BAD_ACTION"

	// ErrCodeUnknownReference indicates an event trigger naming an id that is
	// not in the document.
	ErrCodeUnknownReference BuildErrorCode = "UNKNOWN_REFERENCE"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Element != "" {
		msg += fmt.Sprintf(" (element=%s)", e.Element)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// IsBuildError reports whether err is a BuildError with the given code.
// Uses errors.As to handle wrapped errors.
func IsBuildError(err error, code BuildErrorCode) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
