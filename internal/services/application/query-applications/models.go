// internal/services/application/query-applications/models.go
package queryapplications

import "hr-intake/internal/models"

type Input struct {
	QueryType models.QueryType `json:"queryType"`
}

type Output struct {
	Applications []*models.Application `json:"-"`
	RowCount     int                   `json:"rowCount"`
}
