// internal/services/application/list-applicants/config.go
package listapplicants

// Config is empty; listing has no pagination or filtering.
type Config struct{}

func LoadConfig() *Config {
	return &Config{}
}
