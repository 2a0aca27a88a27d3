// internal/services/application/submit-application/models.go
package submitapplication

import (
	"context"

	"hr-intake/internal/models"
	createapplicationrecord "hr-intake/internal/services/application/create-application-record"
	validateapplicationdata "hr-intake/internal/services/application/validate-application-data"
)

// Input is the raw request body.
type Input struct {
	Body []byte
}

type Output struct {
	ID       int64   `json:"id"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Message  string  `json:"message"`
}

type Validator interface {
	Validate(raw map[string]interface{}) (*models.Application, validateapplicationdata.FieldErrors)
}

// ImageResolver returns nil for any failure.
type ImageResolver interface {
	Resolve(ctx context.Context, payload, fullName string) *string
}

type Recorder interface {
	Execute(ctx context.Context, input *createapplicationrecord.Input) (*createapplicationrecord.Output, error)
}

type Notifier interface {
	Notify(app *models.Application)
}

type Dependencies struct {
	Validator Validator
	Resolver  ImageResolver
	Recorder  Recorder
	Notifier  Notifier
}
