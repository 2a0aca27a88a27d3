// cmd/intake-server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hr-intake/internal/api"
	"hr-intake/internal/common/aws"
	"hr-intake/internal/common/config"
	"hr-intake/internal/common/database"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/common/observability"

	adminauth "hr-intake/internal/services/application/admin-auth"
	car "hr-intake/internal/services/application/create-application-record"
	ea "hr-intake/internal/services/application/export-applications"
	la "hr-intake/internal/services/application/list-applicants"
	qa "hr-intake/internal/services/application/query-applications"
	rpp "hr-intake/internal/services/application/resolve-profile-picture"
	sn "hr-intake/internal/services/application/send-notification"
	sa "hr-intake/internal/services/application/submit-application"
	vad "hr-intake/internal/services/application/validate-application-data"
)

const serviceName = "hr-intake"

// retryWithBackoff attempts to execute a function with exponential backoff
// connectPostgres opens the pool once and retries only the ping. The pool is
// closed when every attempt fails.
func connectPostgres(ctx context.Context, open func() (*database.PostgresClient, error), attempts int, delay time.Duration, log *zap.Logger) (*database.PostgresClient, error) {
	pg, err := open()
	if err != nil {
		return nil, err
	}
	if err := retryWithBackoff(func() error {
		return pg.Ping(ctx)
	}, attempts, delay, log, "PostgreSQL connection"); err != nil {
		_ = pg.Close()
		return nil, err
	}
	return pg, nil
}

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: configs/config.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service":     serviceName,
		"environment": cfg.App.Environment,
	})

	zapLog.Info("Starting intake server...", zap.String("version", cfg.App.Version))

	ctx := context.Background()

	obs, err := observability.New(serviceName)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	// --- PostgreSQL with retry ---
	pg, err := connectPostgres(ctx, func() (*database.PostgresClient, error) {
		return database.NewPostgres(cfg.Database.Postgres)
	}, 10, 2*time.Second, zapLog)
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		if err := pg.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("schema migration failed", zap.Error(err))
		}
		zapLog.Info("Schema ensured")
	}

	// --- Redis (optional, rate limiting) ---
	var rdb redis.Cmdable
	if cfg.Database.Redis.Enabled() && cfg.RateLimit.Enabled {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err == nil {
			err = rc.Ping(ctx)
		}
		if err != nil {
			zapLog.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			defer rc.Close()
			rdb = rc.Client
			zapLog.Info("Redis connected successfully")
		}
	} else {
		zapLog.Warn("rate limiting disabled: no redis address configured")
	}

	// --- Cloudinary (optional) ---
	var uploader rpp.Uploader
	if cfg.Media.Enabled() {
		uploader, err = rpp.NewCloudinaryUploader(cfg.Media)
		if err != nil {
			zapLog.Warn("cloudinary init failed, profile pictures disabled", zap.Error(err))
		}
	} else {
		zapLog.Warn("cloudinary not configured, profile pictures disabled")
	}

	// --- Notification channels (optional) ---
	notifyCfg := sn.LoadConfig(cfg.Notifications)
	var notifyDeps sn.Dependencies
	if cfg.Notifications.SMTP.Enabled() {
		notifyDeps.Mailer = sn.NewSMTPMailer(notifyCfg.SMTP)
	}
	if cfg.Notifications.AWS.SES.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("ses client init failed", zap.Error(err))
		} else {
			notifyDeps.SES = sesClient
		}
	}
	if cfg.Notifications.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("sns client init failed", zap.Error(err))
		} else {
			notifyDeps.SNS = snsClient
		}
	}
	notifier := sn.NewHandler(notifyCfg, notifyDeps, log)
	if !notifier.Enabled() {
		zapLog.Warn("no notification channel configured, submission alerts disabled")
	}

	// --- Services ---
	dbTimeout := cfg.Database.Postgres.Timeout()
	store := qa.NewHandler(&qa.Config{Timeout: dbTimeout}, pg.DB, log)
	auth := adminauth.NewAuthenticator(adminauth.LoadConfig(cfg.Admin), log)

	submit := sa.NewHandler(sa.LoadConfig(), sa.Dependencies{
		Validator: vad.NewHandler(vad.LoadConfig(), log),
		Resolver:  rpp.NewHandler(rpp.LoadConfig(cfg.Media), uploader, log),
		Recorder:  car.NewHandler(&car.Config{Timeout: dbTimeout}, pg.DB, log),
		Notifier:  notifier,
	}, obs, log)
	export := ea.NewHandler(ea.LoadConfig(), auth, store, obs, log)
	list := la.NewHandler(la.LoadConfig(), auth, store, obs, log)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Dependencies{
		Server:    cfg.Server,
		RateLimit: cfg.RateLimit,
		Submit:    submit,
		Export:    export,
		List:      list,
		DB:        pg,
		Redis:     rdb,
		Metrics:   promhttp.Handler(),
		Logger:    log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	notifier.Wait()
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("observability shutdown failed", zap.Error(err))
	}

	zapLog.Info("Intake server stopped")
}
