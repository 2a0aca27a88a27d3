// internal/services/application/list-applicants/models.go
package listapplicants

import (
	"context"

	"hr-intake/internal/models"
)

type Input struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Output struct {
	Applicants []models.ApplicantSummary `json:"applicants"`
}

type Authenticator interface {
	Check(username, password string) error
}

type Store interface {
	Listing(ctx context.Context) ([]*models.Application, error)
}
