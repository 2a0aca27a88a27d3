// internal/services/application/query-applications/handler.go
package queryapplications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/models"
)

const (
	Operation = "query-applications"
)

var (
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
	ErrInvalidQueryType     = errors.New("INVALID_QUERY_TYPE")
)

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

// BuildQuery returns the select for a query type, newest submission first.
// The legacy profile_picture_name column is always read last.
func BuildQuery(qt models.QueryType) (string, error) {
	switch qt {
	case models.QueryTypeAll, models.QueryTypeListing:
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidQueryType, qt)
	}
	cols := append(append([]string{}, qt.Columns()...), models.ColumnProfilePictureName)
	return fmt.Sprintf(
		"SELECT %s FROM applications ORDER BY %s DESC, %s DESC",
		strings.Join(cols, ", "), models.ColumnSubmissionTimestamp, models.ColumnID,
	), nil
}

// All returns every record with every column, for export.
func (h *Handler) All(ctx context.Context) ([]*models.Application, error) {
	out, err := h.Execute(ctx, &Input{QueryType: models.QueryTypeAll})
	if err != nil {
		return nil, err
	}
	return out.Applications, nil
}

// Listing returns every record restricted to the listing columns.
func (h *Handler) Listing(ctx context.Context) ([]*models.Application, error) {
	out, err := h.Execute(ctx, &Input{QueryType: models.QueryTypeListing})
	if err != nil {
		return nil, err
	}
	return out.Applications, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	query, err := BuildQuery(input.QueryType)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	start := time.Now()
	apps, err := h.query(ctx, input.QueryType, query)
	if err != nil {
		h.logger.Error("query failed", map[string]interface{}{
			"queryType": string(input.QueryType),
			"error":     err.Error(),
		})
		return nil, apperrors.NewStorageFailureError(
			"Error retrieving data from database.",
			fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err),
		)
	}

	h.logger.Info("query completed", map[string]interface{}{
		"queryType":  string(input.QueryType),
		"rowCount":   len(apps),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return &Output{Applications: apps, RowCount: len(apps)}, nil
}

func (h *Handler) query(ctx context.Context, qt models.QueryType, query string) ([]*models.Application, error) {
	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := qt.Columns()
	apps := make([]*models.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows, columns)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

func scanApplication(rows *sql.Rows, columns []string) (*models.Application, error) {
	app := models.NewApplication()
	dest := make([]interface{}, 0, len(columns)+1)

	var (
		id        int64
		submitted time.Time
		legacy    sql.NullString
	)
	texts := make(map[string]*sql.NullString)
	ints := make(map[string]*sql.NullInt64)

	for _, c := range columns {
		switch c {
		case models.ColumnID:
			dest = append(dest, &id)
			continue
		case models.ColumnSubmissionTimestamp:
			dest = append(dest, &submitted)
			continue
		}
		f, _ := models.FieldByColumn(c)
		if f.Kind == models.KindInteger {
			v := &sql.NullInt64{}
			ints[c] = v
			dest = append(dest, v)
		} else {
			v := &sql.NullString{}
			texts[c] = v
			dest = append(dest, v)
		}
	}
	dest = append(dest, &legacy)

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan application: %w", err)
	}

	app.ID = id
	app.SubmissionTimestamp = submitted
	for c, v := range texts {
		if v.Valid {
			app.Set(c, v.String)
		} else {
			app.Set(c, nil)
		}
	}
	for c, v := range ints {
		if v.Valid {
			app.Set(c, v.Int64)
		} else {
			app.Set(c, nil)
		}
	}
	if legacy.Valid && legacy.String != "" {
		s := legacy.String
		app.ProfilePictureName = &s
	}
	return app, nil
}
