// internal/services/application/send-notification/config.go
package sendnotification

import (
	"time"

	"hr-intake/internal/common/config"
)

type Config struct {
	Recipient string
	Timeout   time.Duration

	SMTP SMTPConfig

	SESEnabled bool
	SESFrom    string

	SNSEnabled  bool
	SNSTopicARN string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
	From     string
}

func LoadConfig(cfg config.NotificationConfig) *Config {
	c := &Config{
		Recipient: cfg.Recipient,
		Timeout:   config.GetDuration(cfg.Timeout),
		SMTP: SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			UseTLS:   cfg.SMTP.UseTLS,
			From:     cfg.SMTP.DefaultFrom,
		},
		SESEnabled:  cfg.AWS.SES.Enabled,
		SESFrom:     cfg.AWS.SES.FromEmail,
		SNSEnabled:  cfg.AWS.SNS.Enabled,
		SNSTopicARN: cfg.AWS.SNS.TopicARN,
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	return c
}
