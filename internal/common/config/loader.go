// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml
// on top, then lets the process environment fill what is still empty.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile reads a single YAML file, used by tests and the -config flag.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig maps the deployment's flat environment names onto the
// config tree. Values already set by file or AutomaticEnv are left alone.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Admin.Username, "ADMIN_USER")
	setIfEmpty(&cfg.Admin.Password, "ADMIN_PASS")

	setIfEmpty(&cfg.Database.Postgres.URL, "DATABASE_URL")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	if val := os.Getenv("DATABASE_SSL_VERIFY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Database.Postgres.SSLVerify = b
		}
	}
	setIfEmpty(&cfg.Database.Redis.Address, "REDIS_ADDRESS")

	setIfEmpty(&cfg.Media.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setIfEmpty(&cfg.Media.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setIfEmpty(&cfg.Media.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")

	setIfEmpty(&cfg.Notifications.Recipient, "NOTIFICATION_RECIPIENT")
	setIfEmpty(&cfg.Notifications.SMTP.Host, "SMTP_HOST")
	setIfEmpty(&cfg.Notifications.SMTP.Username, "SMTP_USER")
	setIfEmpty(&cfg.Notifications.SMTP.Password, "SMTP_PASSWORD")
	if cfg.Notifications.SMTP.Port == 0 {
		if val := os.Getenv("SMTP_PORT"); val != "" {
			if port, err := strconv.Atoi(val); err == nil {
				cfg.Notifications.SMTP.Port = port
			}
		}
	}
	setIfEmpty(&cfg.Notifications.AWS.Region, "AWS_REGION")
}

func setIfEmpty(dst *string, envKey string) {
	if *dst != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*dst = val
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "hr-intake"
	}

	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 10 << 20 // inline profile pictures
	}

	// Database defaults
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.StatementTimeout == 0 {
		cfg.Database.Postgres.StatementTimeout = 10000
	}

	// Media defaults
	if cfg.Media.Cloudinary.Folder == "" {
		cfg.Media.Cloudinary.Folder = "hr-applications"
	}
	if cfg.Media.Cloudinary.Transformation == "" {
		cfg.Media.Cloudinary.Transformation = "c_fill,h_400,w_400/q_auto"
	}
	if cfg.Media.UploadTimeout == 0 {
		cfg.Media.UploadTimeout = 20000
	}

	// Notification defaults
	if cfg.Notifications.Timeout == 0 {
		cfg.Notifications.Timeout = 15000
	}
	if cfg.Notifications.SMTP.Port == 0 {
		cfg.Notifications.SMTP.Port = 587
	}
	if cfg.Notifications.SMTP.DefaultFrom == "" {
		cfg.Notifications.SMTP.DefaultFrom = cfg.Notifications.SMTP.Username
	}

	// Rate limit defaults
	if cfg.RateLimit.Requests == 0 {
		cfg.RateLimit.Requests = 10
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = 60
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}

	pg := cfg.Database.Postgres
	if pg.URL == "" && pg.Host == "" {
		return fmt.Errorf("database.postgres.url (DATABASE_URL) or database.postgres.host is required")
	}
	if pg.URL == "" && pg.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}

	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
