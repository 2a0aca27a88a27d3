// internal/services/application/admin-auth/handler.go
package adminauth

import (
	"crypto/subtle"
	"strings"

	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"
)

const (
	Operation = "admin-auth"
)

// Authenticator checks the single shared admin credential pair.
type Authenticator struct {
	username []byte
	password []byte
	logger   logger.Logger
}

func NewAuthenticator(config *Config, log logger.Logger) *Authenticator {
	return &Authenticator{
		username: []byte(config.Username),
		password: []byte(config.Password),
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Check trims both inputs and compares them case-sensitively against the
// configured pair. Any mismatch, or an unconfigured pair, is UNAUTHORIZED.
func (a *Authenticator) Check(username, password string) error {
	if len(a.username) == 0 || len(a.password) == 0 {
		a.logger.Warn("admin credentials not configured", nil)
		return apperrors.NewUnauthorizedError()
	}

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), a.username) == 1
	passOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(password)), a.password) == 1
	if !userOK || !passOK {
		a.logger.Info("admin authentication failed", nil)
		return apperrors.NewUnauthorizedError()
	}
	return nil
}
