package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	level  string
	msg    string
	fields map[string]interface{}
}

func (r *recordingLogger) Info(msg string, fields map[string]interface{}) {
	r.level, r.msg, r.fields = "info", msg, fields
}

func (r *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	r.level, r.msg, r.fields = "warn", msg, fields
}

func (r *recordingLogger) Error(msg string, fields map[string]interface{}) {
	r.level, r.msg, r.fields = "error", msg, fields
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeStorageFailure, http.StatusInternalServerError},
		{ErrCodeSerializationFailure, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestNormalize(t *testing.T) {
	se := NewStorageFailureError("Error saving form data to database.", fmt.Errorf("pq: connection refused"))
	wrapped := fmt.Errorf("insert: %w", se)

	got := Normalize(wrapped)
	assert.Same(t, se, got)

	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)

	assert.Nil(t, Normalize(nil))
}

func TestStandardError_Unwrap(t *testing.T) {
	cause := stderrors.New("timeout")
	se := NewSerializationFailureError(cause)
	assert.True(t, stderrors.Is(se, cause))
	assert.Equal(t, ErrCodeSerializationFailure, CodeOf(fmt.Errorf("export: %w", se)))
	assert.Equal(t, ErrorCode(""), CodeOf(cause))
}

func TestErrorHandler_ValidationFailed(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	status, body := h.Handle("submit-application", NewValidationFailedError(map[string]string{
		"mobileNo": "Valid Mobile Number (10-15 digits) is required.",
	}))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Equal(t, map[string]string{"mobileNo": "Valid Mobile Number (10-15 digits) is required."}, body["errors"])
	assert.Equal(t, "info", log.level)
}

func TestErrorHandler_StorageFailureHidesDetails(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	status, body := h.Handle("export-applications",
		NewStorageFailureError("Error retrieving data from database.", stderrors.New("pq: relation \"applications\" does not exist")))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, map[string]interface{}{
		"message": "Error retrieving data from database.",
		"code":    "STORAGE_FAILURE",
	}, body)
	require.Equal(t, "error", log.level)
	assert.Contains(t, log.fields["details"], "does not exist")
	assert.Equal(t, "DATABASE", log.fields["errorCategory"])
}

func TestErrorHandler_UnknownError(t *testing.T) {
	log := &recordingLogger{}
	status, body := NewErrorHandler(log).Handle("list-applicants", stderrors.New("nil map"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["message"])
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
}

func TestErrorHandler_RateLimited(t *testing.T) {
	log := &recordingLogger{}
	status, body := NewErrorHandler(log).Handle("submit-application", NewRateLimitedError(30*time.Second))

	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, 30, body["retryAfterSeconds"])
	assert.Equal(t, "info", log.level)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeUnauthorized))
	assert.Equal(t, "MEDIA", GetErrorCategory(ErrCodeUpstreamMediaFailure))
	assert.Equal(t, "EXPORT", GetErrorCategory(ErrCodeSerializationFailure))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeBadRequest))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
