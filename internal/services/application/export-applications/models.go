// internal/services/application/export-applications/models.go
package exportapplications

import (
	"context"

	"hr-intake/internal/models"
)

type Input struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Output is the downloadable artifact.
type Output struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
	RowCount    int    `json:"rowCount"`
}

type Authenticator interface {
	Check(username, password string) error
}

type Store interface {
	All(ctx context.Context) ([]*models.Application, error)
}
