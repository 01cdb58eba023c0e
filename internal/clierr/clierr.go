// Package clierr defines structured errors for caseboard commands.
package clierr

import "fmt"

// Error codes. Codes are stable strings surfaced in JSON output and API
// responses.
const (
	BoardNotFound   = "BOARD_NOT_FOUND"
	BoardExists     = "BOARD_ALREADY_EXISTS"
	CardNotFound    = "CARD_NOT_FOUND"
	StageNotFound   = "STAGE_NOT_FOUND"
	InvalidPriority = "INVALID_PRIORITY"
	InvalidDate     = "INVALID_DATE"
	InvalidTitle    = "INVALID_TITLE"
	InvalidOrder    = "INVALID_ORDER"
	InvalidInput    = "INVALID_INPUT"
	ConfirmRequired = "CONFIRMATION_REQUIRED"
	ConfigInvalid   = "CONFIG_INVALID"
	InternalError   = "INTERNAL_ERROR"
)

// Error is a coded, user-facing error.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// New creates an Error with the given code and message.
func New(code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

// WithDetails attaches structured details and returns the same error.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode maps the error code to a process exit code: 2 for internal
// failures, 1 for everything the user can fix.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// SilentError carries an exit code without any message. Commands return it
// after they have already reported their own output.
type SilentError struct {
	Code int
}

func (e *SilentError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}
