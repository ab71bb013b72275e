package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ErrInvalidInput marks configuration and argument faults.
var ErrInvalidInput = errors.New("invalid input")

// Stable error codes: callers branch on Code, not on the message.
const (
	CodeDirectoryNotFound = "DIRECTORY_NOT_FOUND"
	CodeNotADirectory     = "NOT_A_DIRECTORY"
	CodeDirectoryAccess   = "DIRECTORY_ACCESS_ERROR"
	CodeDateParse         = "DATE_PARSE_ERROR"
	CodeRuleFileInvalid   = "RULE_FILE_INVALID"
	CodeConfig            = "CONFIG_ERROR"
)

// NewAppError builds a coded application error.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode returns the AppError code of err, or "" if err carries none.
func ErrorCode(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
