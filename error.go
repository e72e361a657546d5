package scraper

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EINTERNAL = "internal"

	// Fetch and pipeline outcomes. Only ETRANSIENT is retried.
	ETRANSIENT = "transient_fetch"
	EPERMANENT = "permanent_fetch"
	EBLOCKED   = "blocked"
	EEMPTY     = "extraction_empty"
	EREJECTED  = "quality_rejected"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("scraper error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// PipelineError carries the context of a fatal error raised while
// processing one source: which source, which stage, and the cause.
type PipelineError struct {
	Source string
	Stage  string
	Err    error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("source %q: %s: %v", e.Source, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
