// internal/services/application/resolve-profile-picture/config.go
package resolveprofilepicture

import (
	"time"

	"hr-intake/internal/common/config"
)

type Config struct {
	Folder         string
	Transformation string
	Timeout        time.Duration
}

func LoadConfig(cfg config.MediaConfig) *Config {
	return &Config{
		Folder:         cfg.Cloudinary.Folder,
		Transformation: cfg.Cloudinary.Transformation,
		Timeout:        config.GetDuration(cfg.UploadTimeout),
	}
}
