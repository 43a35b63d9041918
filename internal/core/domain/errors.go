package domain

import "fmt"

type ErrorCode string

const (
	CodeInvalidRange           ErrorCode = "INVALID_RANGE"
	CodeDuplicateID            ErrorCode = "DUPLICATE_ID"
	CodeNotAuthorized          ErrorCode = "NOT_AUTHORIZED"
	CodeInvalidDuration        ErrorCode = "INVALID_DURATION"
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeInvalidTransition      ErrorCode = "INVALID_TRANSITION"
	CodeInvalidRequest         ErrorCode = "INVALID_REQUEST"
	CodeHoldActive             ErrorCode = "HOLD_ACTIVE"
	CodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"
)

// Error is the typed error returned across the scheduler boundary.
// Two errors match under errors.Is when their codes are equal.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrInvalidRange           = &Error{Code: CodeInvalidRange, Message: "start must be before end"}
	ErrDuplicateID            = &Error{Code: CodeDuplicateID, Message: "window id already exists"}
	ErrNotAuthorized          = &Error{Code: CodeNotAuthorized, Message: "actor may not modify this window"}
	ErrInvalidDuration        = &Error{Code: CodeInvalidDuration, Message: "nights must be at least 1"}
	ErrNotFound               = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInvalidTransition      = &Error{Code: CodeInvalidTransition, Message: "status transition not allowed"}
	ErrInvalidRequest         = &Error{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrHoldActive             = &Error{Code: CodeHoldActive, Message: "hold has not expired yet"}
	ErrConcurrentModification = &Error{Code: CodeConcurrentModification, Message: "calendar was modified by another writer"}
)

func NotFoundError(kind string, id fmt.Stringer) error {
	return newError(CodeNotFound, "%s %s not found", kind, id)
}

func InvalidRequestError(format string, args ...any) error {
	return newError(CodeInvalidRequest, format, args...)
}
