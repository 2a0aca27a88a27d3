// internal/models/notification.go
package models

import "time"

// Notification is one delivery attempt of a submission alert.
type Notification struct {
	ApplicationID int64     `json:"applicationId"`
	Channel       string    `json:"channel"` // "smtp", "ses", "sns"
	Recipient     string    `json:"recipient,omitempty"`
	Status        string    `json:"status"` // "sent", "failed", "disabled"
	MessageID     string    `json:"messageId,omitempty"`
	Error         string    `json:"error,omitempty"`
	SentAt        time.Time `json:"sentAt"`
}
