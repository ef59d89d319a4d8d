package xpay

import (
	"errors"
	"fmt"
)

// Error represents a platform-specific error
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeInvalidConfig       = "invalid_config"
	ErrCodeRegistrationFailed  = "registration_failed"
	ErrCodeTeardownFailed      = "teardown_failed"
	ErrCodeMissingHeaders      = "missing_headers"
	ErrCodeBadSignature        = "bad_signature"
	ErrCodeStaleTimestamp      = "stale_timestamp"
	ErrCodeSubmissionRejected  = "submission_rejected"
	ErrCodePollTimeout         = "poll_timeout"
	ErrCodeRemoteError         = "remote_error"
	ErrCodeSessionStoreFailure = "session_store_failure"
)

// NewError creates a new platform error
func NewError(code, message string, details map[string]interface{}) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ErrorCode extracts the platform error code from err, or returns
// ErrCodeRemoteError when err carries no code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrCodeRemoteError
}
