// internal/services/application/create-application-record/models.go
package createapplicationrecord

import (
	"time"

	"hr-intake/internal/models"
)

type Input struct {
	Application *models.Application
}

type Output struct {
	ApplicationID       int64     `json:"applicationId"`
	SubmissionTimestamp time.Time `json:"submissionTimestamp"`
}
