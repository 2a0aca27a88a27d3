// internal/services/application/validate-application-data/config.go
package validateapplicationdata

type Config struct {
	MinAge int
	MaxAge int
}

func LoadConfig() *Config {
	return &Config{
		MinAge: 18,
		MaxAge: 100,
	}
}
