// internal/services/application/submit-application/handler.go
package submitapplication

import (
	"context"
	"time"

	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/common/observability"
	"hr-intake/internal/common/validation"
	"hr-intake/internal/models"
	createapplicationrecord "hr-intake/internal/services/application/create-application-record"
	resolveprofilepicture "hr-intake/internal/services/application/resolve-profile-picture"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	Operation = "submit-application"
)

type Handler struct {
	config    *Config
	validator Validator
	resolver  ImageResolver
	recorder  Recorder
	notifier  Notifier
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, deps Dependencies, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config:    config,
		validator: deps.Validator,
		resolver:  deps.Resolver,
		recorder:  deps.Recorder,
		notifier:  deps.Notifier,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Execute runs received → validated → image-resolved → persisted → acknowledged.
// Nothing is written unless validation passes. An image failure leaves the
// reference null and the submission continues.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, Operation)
	defer span.End()
	start := time.Now()

	out, err := h.execute(ctx, input)

	status := "success"
	if err != nil {
		status = string(apperrors.CodeOf(err))
		span.SetStatus(codes.Error, status)
	} else {
		span.SetAttributes(
			attribute.Int64("application.id", out.ID),
			attribute.Bool("application.has_image", out.ImageURL != nil),
		)
	}
	h.obs.RecordSubmission(ctx, status)
	h.obs.RecordOperationDuration(ctx, Operation, time.Since(start), status)
	return out, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// received
	raw, err := validation.ParseFormPayload(input.Body)
	if err != nil {
		return nil, err
	}

	// validated
	app, fieldErrors := h.validator.Validate(raw)
	if len(fieldErrors) > 0 {
		h.logger.Info("submission rejected", map[string]interface{}{
			"errorCount": len(fieldErrors),
		})
		return nil, apperrors.NewValidationFailedError(fieldErrors)
	}

	// image-resolved
	var imageURL *string
	if payload, ok := raw[resolveprofilepicture.PayloadKey].(string); ok && payload != "" && h.resolver != nil {
		imageURL = h.resolver.Resolve(ctx, payload, app.String("full_name"))
	}
	if imageURL != nil {
		app.Set(models.ColumnProfilePictureURL, *imageURL)
	} else {
		app.Set(models.ColumnProfilePictureURL, nil)
	}

	// persisted
	rec, err := h.recorder.Execute(ctx, &createapplicationrecord.Input{Application: app})
	if err != nil {
		return nil, err
	}
	app.ID = rec.ApplicationID
	app.SubmissionTimestamp = rec.SubmissionTimestamp

	h.logger.Info("application submitted", map[string]interface{}{
		"applicationId": rec.ApplicationID,
		"hasImage":      imageURL != nil,
	})

	if h.notifier != nil {
		h.notifier.Notify(app)
	}

	// acknowledged
	return &Output{
		ID:       rec.ApplicationID,
		ImageURL: imageURL,
		Message:  h.config.SuccessMessage,
	}, nil
}
