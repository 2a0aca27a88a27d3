// internal/services/application/admin-auth/config.go
package adminauth

import "hr-intake/internal/common/config"

type Config struct {
	Username string
	Password string
}

func LoadConfig(cfg config.AdminConfig) *Config {
	return &Config{
		Username: cfg.Username,
		Password: cfg.Password,
	}
}
