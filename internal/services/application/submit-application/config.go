// internal/services/application/submit-application/config.go
package submitapplication

type Config struct {
	SuccessMessage string
}

func LoadConfig() *Config {
	return &Config{
		SuccessMessage: "Form submitted successfully!",
	}
}
