// Package errors provides the error taxonomy shared by the intake services and the HTTP layer.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode is a machine-readable failure kind surfaced to callers.
type ErrorCode string

const (
	ErrCodeBadRequest           ErrorCode = "BAD_REQUEST"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrCodeStorageFailure       ErrorCode = "STORAGE_FAILURE"
	ErrCodeUpstreamMediaFailure ErrorCode = "UPSTREAM_MEDIA_FAILURE"
	ErrCodeSerializationFailure ErrorCode = "SERIALIZATION_FAILURE"
	ErrCodeRateLimited          ErrorCode = "RATE_LIMITED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	FieldErrors map[string]string      `json:"errors,omitempty"`
	Retryable   bool                   `json:"retryable"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// NewBadRequestError reports a payload that could not be read as a field mapping.
func NewBadRequestError(message string, err error) *StandardError {
	se := &StandardError{
		Code:      ErrCodeBadRequest,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		se.Details = err.Error()
	}
	return se
}

// NewValidationFailedError carries every field violation found in one pass.
func NewValidationFailedError(fieldErrors map[string]string) *StandardError {
	return &StandardError{
		Code:        ErrCodeValidationFailed,
		Message:     "Validation failed",
		Details:     fmt.Sprintf("%d field(s) invalid", len(fieldErrors)),
		FieldErrors: fieldErrors,
		Retryable:   false,
		Timestamp:   time.Now().UTC(),
	}
}

func NewUnauthorizedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Unauthorized: Invalid username or password.",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFailureError wraps an insert or query error. message is what the caller sees.
func NewStorageFailureError(message string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailure,
		Message:   message,
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewUpstreamMediaFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamMediaFailure,
		Message:   "Profile picture upload failed",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewSerializationFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSerializationFailure,
		Message:   "Error generating export file.",
		Details:   errDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewRateLimitedError(retryAfter time.Duration) *StandardError {
	return (&StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many submissions, please try again later.",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}).WithMetadata("retryAfterSeconds", int(retryAfter.Seconds()))
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Normalize returns err as a *StandardError, wrapping unknown errors as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var se *StandardError
	if stderrors.As(err, &se) {
		return se
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// CodeOf returns the code of the first StandardError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeUpstreamMediaFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsExpected reports whether the code is a caller mistake rather than a server fault.
// Expected errors are not logged at error level.
func IsExpected(code ErrorCode) bool {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidationFailed, ErrCodeUnauthorized, ErrCodeRateLimited:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "UNAUTHORIZED"):
		return "AUTH"
	case strings.Contains(codeStr, "STORAGE"):
		return "DATABASE"
	case strings.Contains(codeStr, "MEDIA"):
		return "MEDIA"
	case strings.Contains(codeStr, "SERIALIZATION"):
		return "EXPORT"
	case strings.Contains(codeStr, "REQUEST") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "RATE"):
		return "THROTTLING"
	default:
		return "OTHER"
	}
}
