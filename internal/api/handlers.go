// internal/api/handlers.go
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/common/metrics"
	adminauth "hr-intake/internal/services/application/admin-auth"
	exportapplications "hr-intake/internal/services/application/export-applications"
	listapplicants "hr-intake/internal/services/application/list-applicants"
	submitapplication "hr-intake/internal/services/application/submit-application"

	"github.com/gin-gonic/gin"
)

// Submit handles POST /applications.
func (h *Handlers) Submit(c *gin.Context) {
	body, err := h.readBody(c)
	if err != nil {
		h.fail(c, submitapplication.Operation, err)
		return
	}

	out, err := h.submit.Execute(c.Request.Context(), &submitapplication.Input{Body: body})
	if err != nil {
		h.fail(c, submitapplication.Operation, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Export handles POST /applications/export.
func (h *Handlers) Export(c *gin.Context) {
	var creds adminauth.Credentials
	if err := h.bindCredentials(c, &creds); err != nil {
		h.fail(c, exportapplications.Operation, err)
		return
	}

	out, err := h.export.Execute(c.Request.Context(), &exportapplications.Input{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		h.fail(c, exportapplications.Operation, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", out.FileName))
	c.Header("Content-Length", strconv.Itoa(len(out.Data)))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// List handles POST /applications/list. The body is a bare JSON array.
func (h *Handlers) List(c *gin.Context) {
	var creds adminauth.Credentials
	if err := h.bindCredentials(c, &creds); err != nil {
		h.fail(c, listapplicants.Operation, err)
		return
	}

	out, err := h.list.Execute(c.Request.Context(), &listapplicants.Input{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		h.fail(c, listapplicants.Operation, err)
		return
	}
	c.JSON(http.StatusOK, out.Applicants)
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the store answers a ping.
func (h *Handlers) Ready(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Warn("readiness check failed", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handlers) readBody(c *gin.Context) ([]byte, error) {
	if h.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.NewBadRequestError("Request body too large.", err)
		}
		return nil, apperrors.NewBadRequestError("Invalid JSON", err)
	}
	return body, nil
}

func (h *Handlers) bindCredentials(c *gin.Context, creds *adminauth.Credentials) error {
	if h.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	}
	if err := c.ShouldBindJSON(creds); err != nil {
		return apperrors.NewBadRequestError("Invalid JSON", err)
	}
	return nil
}

func (h *Handlers) fail(c *gin.Context, operation string, err error) {
	status, body := apperrors.NewErrorHandler(logger.FromContext(c.Request.Context(), h.logger)).Handle(operation, err)
	metrics.RequestsFailed.WithLabelValues(operation, fmt.Sprint(body["code"])).Inc()
	c.JSON(status, body)
}
