// internal/services/application/send-notification/models.go
package sendnotification

import (
	"context"
	"time"

	"hr-intake/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type Input struct {
	ApplicationID     int64     `json:"applicationId"`
	FullName          string    `json:"fullName"`
	EmailAdd          string    `json:"emailAdd"`
	MobileNo          string    `json:"mobileNo"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	SubmittedAt       time.Time `json:"submittedAt"`
}

// InputFromApplication copies the fields the alert mentions.
func InputFromApplication(app *models.Application) *Input {
	in := &Input{
		ApplicationID: app.ID,
		FullName:      app.String("full_name"),
		EmailAdd:      app.String("email_add"),
		MobileNo:      app.String("mobile_no"),
		SubmittedAt:   app.SubmissionTimestamp,
	}
	if url := app.ProfilePictureURL(); url != nil {
		in.ProfilePictureURL = *url
	}
	return in
}

type Output struct {
	Notifications []models.Notification `json:"notifications"`
}

// Channels
const (
	ChannelSMTP = "smtp"
	ChannelSES  = "ses"
	ChannelSNS  = "sns"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Mailer delivers a fully formed RFC 5322 message.
type Mailer interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// Dependencies are the optional delivery clients. A nil client disables its channel.
type Dependencies struct {
	Mailer Mailer
	SES    SESService
	SNS    SNSService
}
