// internal/services/application/export-applications/handler.go
package exportapplications

import (
	"context"
	"time"

	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/common/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	Operation = "export-applications"
)

type Handler struct {
	config *Config
	auth   Authenticator
	store  Store
	obs    *observability.Observability
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, auth Authenticator, store Store, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		auth:   auth,
		store:  store,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
		now:    time.Now,
	}
}

// WithClock replaces the clock used for file names.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Execute authenticates, reads every record newest first and returns the
// workbook zipped. Authentication failure never touches the store.
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
		span.SetAttributes(attribute.Int("export.rows", out.RowCount))
	}
	rows := 0
	if out != nil {
		rows = out.RowCount
	}
	h.obs.RecordExport(ctx, "export", status, rows)
	h.obs.RecordOperationDuration(ctx, Operation, time.Since(start), status)
	return out, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.auth.Check(input.Username, input.Password); err != nil {
		return nil, err
	}

	records, err := h.store.All(ctx)
	if err != nil {
		return nil, err
	}

	now := h.now()
	workbook, err := BuildWorkbook(h.config.SheetName, records)
	if err != nil {
		h.logger.Error("workbook build failed", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.NewSerializationFailureError(err)
	}

	archive, err := BuildArchive(WorkbookName(now), workbook, now)
	if err != nil {
		h.logger.Error("archive build failed", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.NewSerializationFailureError(err)
	}

	h.logger.Info("export generated", map[string]interface{}{
		"rowCount":     len(records),
		"workbookSize": len(workbook),
		"archiveSize":  len(archive),
	})

	return &Output{
		FileName:    ArchiveName(now),
		ContentType: ContentType,
		Data:        archive,
		RowCount:    len(records),
	}, nil
}
