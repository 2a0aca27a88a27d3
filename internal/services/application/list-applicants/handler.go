// internal/services/application/list-applicants/handler.go
package listapplicants

import (
	"context"
	"time"

	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/common/observability"
	"hr-intake/internal/models"
)

const (
	Operation = "list-applicants"
)

type Handler struct {
	auth   Authenticator
	store  Store
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(_ *Config, auth Authenticator, store Store, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		auth:   auth,
		store:  store,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Execute returns every applicant newest first. The slice is never nil so it
// encodes as [] when the table is empty.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, Operation)
	defer span.End()
	start := time.Now()

	out, err := h.execute(ctx, input)

	status, rows := "success", 0
	if err != nil {
		status = string(apperrors.CodeOf(err))
	} else {
		rows = len(out.Applicants)
	}
	h.obs.RecordExport(ctx, "listing", status, rows)
	h.obs.RecordOperationDuration(ctx, Operation, time.Since(start), status)
	return out, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.auth.Check(input.Username, input.Password); err != nil {
		return nil, err
	}

	apps, err := h.store.Listing(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ApplicantSummary, 0, len(apps))
	for _, app := range apps {
		summaries = append(summaries, app.Summary())
	}

	h.logger.Debug("applicants listed", map[string]interface{}{"count": len(summaries)})
	return &Output{Applicants: summaries}, nil
}
