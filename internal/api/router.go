// internal/api/router.go
package api

import (
	"context"
	"net/http"
	"time"

	"hr-intake/internal/common/config"
	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"
	exportapplications "hr-intake/internal/services/application/export-applications"
	listapplicants "hr-intake/internal/services/application/list-applicants"
	submitapplication "hr-intake/internal/services/application/submit-application"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	PathApplications = "/applications"
	PathExport       = "/applications/export"
	PathList         = "/applications/list"
)

type Submitter interface {
	Execute(ctx context.Context, input *submitapplication.Input) (*submitapplication.Output, error)
}

type Exporter interface {
	Execute(ctx context.Context, input *exportapplications.Input) (*exportapplications.Output, error)
}

type Lister interface {
	Execute(ctx context.Context, input *listapplicants.Input) (*listapplicants.Output, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies wires the router. Redis and Metrics are optional.
type Dependencies struct {
	Server    config.ServerConfig
	RateLimit config.RateLimitConfig

	Submit Submitter
	Export Exporter
	List   Lister

	DB      Pinger
	Redis   redis.Cmdable
	Metrics http.Handler
	Logger  logger.Logger
}

type Handlers struct {
	submit  Submitter
	export  Exporter
	list    Lister
	db      Pinger
	maxBody int64
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

// NewRouter builds the gin engine with CORS, request tracing, metrics and the
// application routes.
func NewRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	h := &Handlers{
		submit:  deps.Submit,
		export:  deps.Export,
		list:    deps.List,
		db:      deps.DB,
		maxBody: deps.Server.MaxBodyBytes,
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
	}

	r := gin.New()
	if err := r.SetTrustedProxies(deps.Server.TrustedProxies); err != nil {
		log.Error("invalid trusted proxies, trusting none", map[string]interface{}{"error": err.Error()})
		_ = r.SetTrustedProxies(nil)
	}
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	r.Use(
		RequestID(log),
		AccessLog(),
		PrometheusMetrics(),
		Recovery(),
		cors.New(corsConfig()),
	)

	submitChain := []gin.HandlerFunc{}
	if deps.RateLimit.Enabled && deps.Redis != nil {
		submitChain = append(submitChain, RateLimit(deps.Redis, deps.RateLimit, h.errors))
	}
	submitChain = append(submitChain, h.Submit)

	r.POST(PathApplications, submitChain...)
	r.POST(PathExport, h.Export)
	r.POST(PathList, h.List)

	for _, p := range []string{PathApplications, PathExport, PathList} {
		r.OPTIONS(p, preflight)
	}

	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	return r
}

func corsConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Content-Type", "Authorization"},
		ExposeHeaders:             []string{"Content-Disposition", "Content-Length", HeaderRequestID},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}
}

func preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}
