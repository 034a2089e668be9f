package scheduling

import (
	"errors"
	"fmt"
)

// Error codes for the engine's failure taxonomy. Conflict is an expected
// outcome, not an internal error; callers surface it as "already booked".
const (
	CodeInvalidRule     = "invalid_rule"
	CodeInvalidSlot     = "invalid_slot"
	CodeBusyUnavailable = "busy_source_unavailable"
	CodeCalendarWrite   = "calendar_write_failed"
	CodeConflict        = "conflict"
	CodePartialCommit   = "partial_commit"
)

type SchedulingError struct {
	Code    string
	Message string
	Err     error
}

func (e *SchedulingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SchedulingError) Unwrap() error { return e.Err }

func newError(code, msg string, err error) *SchedulingError {
	return &SchedulingError{Code: code, Message: msg, Err: err}
}

// ErrorCode extracts the engine error code, or "" for foreign errors.
func ErrorCode(err error) string {
	var se *SchedulingError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsConflict reports whether err means the slot was taken between display
// and commit.
func IsConflict(err error) bool { return ErrorCode(err) == CodeConflict }

// IsBusyUnavailable reports whether err is a transient busy-source failure
// the requester may retry.
func IsBusyUnavailable(err error) bool { return ErrorCode(err) == CodeBusyUnavailable }
