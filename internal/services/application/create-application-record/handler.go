// internal/services/application/create-application-record/handler.go
package createapplicationrecord

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/models"
)

const (
	Operation = "create-application-record"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrInvalidInput         = errors.New("INVALID_INPUT")
)

// insertQuery is built once from the column table.
var insertQuery = buildInsertQuery()

func buildInsertQuery() string {
	cols := models.InsertColumns()
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO applications (%s) VALUES (%s) RETURNING id, submission_timestamp",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
}

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Execute inserts one validated application. The database assigns id and
// submission_timestamp; both are written back onto the input application.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Application == nil {
		return nil, fmt.Errorf("%w: application is required", ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	app := input.Application
	cols := models.InsertColumns()
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		args[i] = app.Value(c)
	}

	var out Output
	err := h.db.QueryRowContext(ctx, insertQuery, args...).Scan(&out.ApplicationID, &out.SubmissionTimestamp)
	if err != nil {
		h.logger.Error("insert failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, apperrors.NewStorageFailureError(
			"Error saving form data to database.",
			fmt.Errorf("%w: %v", ErrDatabaseInsertFailed, err),
		)
	}

	app.ID = out.ApplicationID
	app.SubmissionTimestamp = out.SubmissionTimestamp

	h.logger.Info("application record created", map[string]interface{}{
		"applicationId": out.ApplicationID,
	})
	return &out, nil
}
