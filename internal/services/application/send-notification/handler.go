// internal/services/application/send-notification/handler.go
package sendnotification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hr-intake/internal/common/logger"
	"hr-intake/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const (
	Operation = "send-notification"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

const (
	subjectTemplate = "New job application: {{fullName}}"
	bodyTemplate    = "A new application was submitted.\n\n" +
		"Application ID: {{applicationId}}\n" +
		"Name: {{fullName}}\n" +
		"Email: {{emailAdd}}\n" +
		"Mobile: {{mobileNo}}\n" +
		"Submitted: {{submittedAt}}\n" +
		"Photo: {{profilePictureUrl}}\n"
)

type Handler struct {
	config *Config
	mailer Mailer
	ses    SESService
	sns    SNSService
	logger logger.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	if config == nil {
		config = &Config{}
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &Handler{
		config: config,
		mailer: deps.Mailer,
		ses:    deps.SES,
		sns:    deps.SNS,
		logger: log.WithFields(map[string]interface{}{"operation": Operation}),
		now:    time.Now,
	}
}

// Enabled reports whether at least one channel can deliver.
func (h *Handler) Enabled() bool {
	return h.smtpEnabled() || h.sesEnabled() || h.snsEnabled()
}

func (h *Handler) smtpEnabled() bool {
	return h.mailer != nil && h.config.Recipient != "" && h.config.SMTP.From != ""
}

func (h *Handler) sesEnabled() bool {
	return h.ses != nil && h.config.SESEnabled && h.config.Recipient != "" && h.config.SESFrom != ""
}

func (h *Handler) snsEnabled() bool {
	return h.sns != nil && h.config.SNSEnabled && h.config.SNSTopicARN != ""
}

// Notify dispatches the alert for app in the background. The caller's request
// is never delayed or failed by it.
func (h *Handler) Notify(app *models.Application) {
	if app == nil || !h.Enabled() {
		return
	}
	input := InputFromApplication(app)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
		defer cancel()

		if _, err := h.Execute(ctx, input); err != nil {
			h.logger.Warn("notification skipped", map[string]interface{}{
				"applicationId": input.ApplicationID,
				"error":         err.Error(),
			})
		}
	}()
}

// Wait blocks until every dispatched notification has finished.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// Execute sends on every enabled channel and reports one record per channel.
// Delivery failures are recorded, not returned.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.ApplicationID <= 0 {
		return nil, fmt.Errorf("%w: application id is required", ErrInvalidInput)
	}

	data := map[string]interface{}{
		"applicationId":     input.ApplicationID,
		"fullName":          input.FullName,
		"emailAdd":          input.EmailAdd,
		"mobileNo":          input.MobileNo,
		"profilePictureUrl": input.ProfilePictureURL,
	}
	if !input.SubmittedAt.IsZero() {
		data["submittedAt"] = input.SubmittedAt.UTC().Format(time.RFC3339)
	}
	subject := renderTemplate(subjectTemplate, data)
	body := renderTemplate(bodyTemplate, data)

	out := &Output{}
	if h.smtpEnabled() {
		out.Notifications = append(out.Notifications, h.sendSMTP(ctx, input, subject, body))
	}
	if h.sesEnabled() {
		out.Notifications = append(out.Notifications, h.sendSES(ctx, input, subject, body))
	}
	if h.snsEnabled() {
		out.Notifications = append(out.Notifications, h.publishSNS(ctx, input, subject, body))
	}
	if len(out.Notifications) == 0 {
		out.Notifications = append(out.Notifications, models.Notification{
			ApplicationID: input.ApplicationID,
			Status:        StatusDisabled,
			SentAt:        h.now().UTC(),
		})
	}

	for _, n := range out.Notifications {
		fields := map[string]interface{}{
			"applicationId": n.ApplicationID,
			"channel":       n.Channel,
			"status":        n.Status,
		}
		if n.Status == StatusFailed {
			fields["error"] = n.Error
			h.logger.Warn("notification failed", fields)
			continue
		}
		h.logger.Info("notification processed", fields)
	}
	return out, nil
}

func (h *Handler) sendSMTP(ctx context.Context, input *Input, subject, body string) models.Notification {
	now := h.now()
	n := h.record(input, ChannelSMTP, h.config.Recipient, now)
	n.MessageID = generateMessageID(now, input.ApplicationID, h.config.SMTP.Host)

	msg := buildMessage(h.config.SMTP.From, h.config.Recipient, subject, body, n.MessageID)
	if err := h.mailer.Send(ctx, h.config.SMTP.From, []string{h.config.Recipient}, msg); err != nil {
		return failed(n, err)
	}
	return n
}

func (h *Handler) sendSES(ctx context.Context, input *Input, subject, body string) models.Notification {
	n := h.record(input, ChannelSES, h.config.Recipient, h.now())

	resp, err := h.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{h.config.Recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.SESFrom),
	})
	if err != nil {
		return failed(n, err)
	}
	if resp != nil {
		n.MessageID = aws.ToString(resp.MessageId)
	}
	return n
}

func (h *Handler) publishSNS(ctx context.Context, input *Input, subject, body string) models.Notification {
	n := h.record(input, ChannelSNS, h.config.SNSTopicARN, h.now())

	resp, err := h.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.SNSTopicARN),
		Subject:  aws.String(truncate(subject, 100)),
		Message:  aws.String(body),
	})
	if err != nil {
		return failed(n, err)
	}
	if resp != nil {
		n.MessageID = aws.ToString(resp.MessageId)
	}
	return n
}

func (h *Handler) record(input *Input, channel, recipient string, now time.Time) models.Notification {
	return models.Notification{
		ApplicationID: input.ApplicationID,
		Channel:       channel,
		Recipient:     recipient,
		Status:        StatusSent,
		SentAt:        now.UTC(),
	}
}

func failed(n models.Notification, err error) models.Notification {
	n.Status = StatusFailed
	n.Error = err.Error()
	n.MessageID = ""
	return n
}

// SNS subjects are limited to 100 characters.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// renderTemplate substitutes {{key}} placeholders and drops any left unresolved.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}
