// internal/services/application/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"hr-intake/internal/common/config"
	"hr-intake/internal/common/logger"
	"hr-intake/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

type recordingMailer struct {
	mu   sync.Mutex
	from string
	to   []string
	msgs []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, from string, to []string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.from, m.to = from, to
	m.msgs = append(m.msgs, string(msg))
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}

func createTestConfig() *Config {
	return &Config{
		Recipient: "hr@example.com",
		Timeout:   time.Second,
		SMTP: SMTPConfig{
			Host: "smtp.example.com",
			Port: 587,
			From: "noreply@example.com",
		},
		SESEnabled:  true,
		SESFrom:     "noreply@example.com",
		SNSEnabled:  true,
		SNSTopicARN: "arn:aws:sns:ap-southeast-1:123456789012:hr-applications",
	}
}

func createTestInput() *Input {
	return &Input{
		ApplicationID: 42,
		FullName:      "Jane Doe",
		EmailAdd:      "jane@example.com",
		MobileNo:      "09171234567",
		SubmittedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestExecute_AllChannelsSent(t *testing.T) {
	mailer := &recordingMailer{}
	var sesInput *ses.SendEmailInput
	var snsInput *sns.PublishInput

	h := NewHandler(createTestConfig(), Dependencies{
		Mailer: mailer,
		SES: &MockSESService{SendEmailFunc: func(_ context.Context, p *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			sesInput = p
			return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
		}},
		SNS: &MockSNSService{PublishFunc: func(_ context.Context, p *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			snsInput = p
			return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
		}},
	}, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	require.Len(t, out.Notifications, 3)

	for _, n := range out.Notifications {
		assert.Equal(t, StatusSent, n.Status, n.Channel)
		assert.Equal(t, int64(42), n.ApplicationID)
	}
	assert.Equal(t, ChannelSMTP, out.Notifications[0].Channel)
	assert.Equal(t, "ses-1", out.Notifications[1].MessageID)
	assert.Equal(t, "sns-1", out.Notifications[2].MessageID)

	require.Len(t, mailer.msgs, 1)
	assert.Equal(t, "noreply@example.com", mailer.from)
	assert.Equal(t, []string{"hr@example.com"}, mailer.to)
	assert.Contains(t, mailer.msgs[0], "Subject: New job application: Jane Doe\r\n")
	assert.Contains(t, mailer.msgs[0], "Application ID: 42")
	assert.Contains(t, mailer.msgs[0], "Submitted: 2024-03-01T09:00:00Z")

	assert.Equal(t, []string{"hr@example.com"}, sesInput.Destination.ToAddresses)
	assert.Equal(t, "noreply@example.com", aws.ToString(sesInput.Source))
	assert.Equal(t, "New job application: Jane Doe", aws.ToString(sesInput.Message.Subject.Data))

	assert.Equal(t, createTestConfig().SNSTopicARN, aws.ToString(snsInput.TopicArn))
	assert.Contains(t, aws.ToString(snsInput.Message), "jane@example.com")
}

func TestExecute_FailureIsRecordedNotReturned(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("connection refused")}
	cfg := createTestConfig()
	cfg.SNSEnabled = false

	h := NewHandler(cfg, Dependencies{
		Mailer: mailer,
		SES: &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("MessageRejected")
		}},
	}, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	require.Len(t, out.Notifications, 2)
	assert.Equal(t, StatusFailed, out.Notifications[0].Status)
	assert.Equal(t, "connection refused", out.Notifications[0].Error)
	assert.Empty(t, out.Notifications[0].MessageID)
	assert.Equal(t, StatusFailed, out.Notifications[1].Status)
}

func TestExecute_NoChannels(t *testing.T) {
	h := NewHandler(&Config{}, Dependencies{}, logger.NewTestLogger(t))
	assert.False(t, h.Enabled())

	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, StatusDisabled, out.Notifications[0].Status)
}

func TestExecute_InvalidInput(t *testing.T) {
	h := NewHandler(createTestConfig(), Dependencies{}, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestNotify_RunsInBackground(t *testing.T) {
	mailer := &recordingMailer{}
	cfg := createTestConfig()
	cfg.SESEnabled, cfg.SNSEnabled = false, false
	h := NewHandler(cfg, Dependencies{Mailer: mailer}, logger.NewTestLogger(t))

	app := models.NewApplication()
	app.ID = 7
	app.Set("full_name", "Jane Doe")
	app.Set(models.ColumnProfilePictureURL, "https://img/7.jpg")

	h.Notify(app)
	h.Notify(nil)
	h.Wait()

	require.Equal(t, 1, mailer.count())
	assert.Contains(t, mailer.msgs[0], "Photo: https://img/7.jpg")
}

func TestNotify_DisabledIsNoop(t *testing.T) {
	mailer := &recordingMailer{}
	cfg := createTestConfig()
	cfg.Recipient = ""
	cfg.SNSEnabled = false
	h := NewHandler(cfg, Dependencies{Mailer: mailer}, logger.NewNoOpLogger())

	app := models.NewApplication()
	app.ID = 1
	h.Notify(app)
	h.Wait()
	assert.Equal(t, 0, mailer.count())
}

func TestLoadConfig(t *testing.T) {
	var nc config.NotificationConfig
	nc.Recipient = "hr@example.com"
	nc.SMTP.Host = "smtp.example.com"
	nc.SMTP.Port = 465
	nc.SMTP.DefaultFrom = "bot@example.com"
	nc.AWS.SNS.Enabled = true
	nc.AWS.SNS.TopicARN = "arn:topic"

	cfg := LoadConfig(nc)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "bot@example.com", cfg.SMTP.From)
	assert.True(t, cfg.SNSEnabled)
	assert.Equal(t, "arn:topic", cfg.SNSTopicARN)
}

func TestRenderTemplate(t *testing.T) {
	got := renderTemplate("Hi {{name}}, id {{id}}{{missing}}.", map[string]interface{}{
		"name": "Jane",
		"id":   int64(3),
	})
	assert.Equal(t, "Hi Jane, id 3.", got)
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("a@x.com", "b@x.com", "Hello", "line1\nline2", "<1@x>"))
	assert.True(t, strings.HasPrefix(msg, "From: a@x.com\r\nTo: b@x.com\r\nSubject: Hello\r\n"))
	assert.Contains(t, msg, "Message-ID: <1@x>\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nline1\r\nline2"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 100))
	assert.Equal(t, "ab", truncate("abc", 2))
}
