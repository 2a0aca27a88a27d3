// internal/api/middleware.go
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hr-intake/internal/common/config"
	"hr-intake/internal/common/database"
	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/common/metrics"
	submitapplication "hr-intake/internal/services/application/submit-application"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const HeaderRequestID = "X-Request-ID"

const rateLimitKeyPrefix = "ratelimit:submit:"

// RequestID tags each request with an ID, echoing a caller-supplied one, and
// stores a logger carrying it on the request context.
func RequestID(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(HeaderRequestID, id)

		reqLog := log.WithFields(map[string]interface{}{"requestId": id})
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))
		c.Next()
	}
}

func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logger.FromContext(c.Request.Context(), nil)
		if log == nil {
			return
		}
		log.Info("request completed", map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  c.ClientIP(),
			"bytes":     c.Writer.Size(),
		})
	}
}

func PrometheusMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		active := metrics.HTTPRequestsActive.WithLabelValues(route)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Recovery answers a panic with the generic internal error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if log := logger.FromContext(c.Request.Context(), nil); log != nil {
			log.Error("panic recovered", map[string]interface{}{
				"panic": fmt.Sprint(recovered),
				"path":  c.Request.URL.Path,
			})
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": "Internal server error",
			"code":    string(apperrors.ErrCodeInternal),
		})
	})
}

// RateLimit allows cfg.Requests hits per client IP per fixed window. A Redis
// error lets the request through.
func RateLimit(rdb redis.Cmdable, cfg config.RateLimitConfig, errs *apperrors.ErrorHandler) gin.HandlerFunc {
	window := time.Duration(cfg.Window) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	return func(c *gin.Context) {
		if cfg.Requests <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		count, ttl, err := database.IncrWindow(ctx, rdb, rateLimitKeyPrefix+c.ClientIP(), window)
		if err != nil {
			if log := logger.FromContext(ctx, nil); log != nil {
				log.Warn("rate limiter unavailable", map[string]interface{}{"error": err.Error()})
			}
			c.Next()
			return
		}

		if count > int64(cfg.Requests) {
			if ttl <= 0 {
				ttl = window
			}
			metrics.RateLimitRejections.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", strconv.Itoa(int((ttl+time.Second-1)/time.Second)))
			status, body := errs.Handle(submitapplication.Operation, apperrors.NewRateLimitedError(ttl))
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Next()
	}
}
