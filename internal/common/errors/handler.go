// internal/common/errors/handler.go
package errors

// ErrorHandler turns service errors into response status and body, logging each
// at the level its code calls for.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err and returns the HTTP status and JSON body to send.
// Storage and serialization details are logged but never placed in the body.
func (h *ErrorHandler) Handle(operation string, err error) (int, map[string]interface{}) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(operation, stdErr, status)

	body := map[string]interface{}{
		"message": stdErr.Message,
		"code":    string(stdErr.Code),
	}
	if stdErr.Code == ErrCodeInternal {
		body["message"] = "Internal server error"
	}
	if len(stdErr.FieldErrors) > 0 {
		body["errors"] = stdErr.FieldErrors
	}
	if stdErr.Code == ErrCodeRateLimited {
		if v, ok := stdErr.Metadata["retryAfterSeconds"]; ok {
			body["retryAfterSeconds"] = v
		}
	}
	return status, body
}

func (h *ErrorHandler) logError(operation string, stdErr *StandardError, status int) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"status":        status,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}

	switch {
	case IsExpected(stdErr.Code):
		if len(stdErr.FieldErrors) > 0 {
			fields["fieldErrors"] = stdErr.FieldErrors
		}
		h.logger.Info("Request rejected", fields)
	case stdErr.Code == ErrCodeUpstreamMediaFailure:
		fields["details"] = stdErr.Details
		h.logger.Warn("Upstream media failure", fields)
	default:
		fields["details"] = stdErr.Details
		h.logger.Error("Request failed", fields)
	}
}
