// internal/common/config/config.go
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Admin         AdminConfig        `mapstructure:"admin"`
	Media         MediaConfig        `mapstructure:"media"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	RateLimit     RateLimitConfig    `mapstructure:"rate_limit"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int   `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     int   `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int   `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int   `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes    int64 `mapstructure:"max_body_bytes" validate:"gt=0"`
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For is honored.
	// Empty means the socket peer is always the client.
	TrustedProxies []string `mapstructure:"trusted_proxies" validate:"dive,cidr|ip"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL              string `mapstructure:"url"`
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	Database         string `mapstructure:"database"`
	User             string `mapstructure:"user"`
	Password         string `mapstructure:"password"`
	SSLMode          string `mapstructure:"sslmode"`
	SSLVerify        bool   `mapstructure:"ssl_verify"`
	MaxConnections   int    `mapstructure:"max_connections" validate:"gte=1"`
	MaxIdle          int    `mapstructure:"max_idle" validate:"gte=0"`
	StatementTimeout int    `mapstructure:"statement_timeout"` // milliseconds
	AutoMigrate      bool   `mapstructure:"auto_migrate"`
}

// GetDSN prefers the connection URL. When the URL carries no sslmode the
// TLS-verification toggle decides it: verify-full when set, require otherwise.
func (p PostgresConfig) GetDSN() string {
	if p.URL != "" {
		u, err := url.Parse(p.URL)
		if err != nil {
			return p.URL
		}
		q := u.Query()
		if q.Get("sslmode") == "" {
			q.Set("sslmode", p.sslMode())
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.sslMode(),
	)
}

func (p PostgresConfig) sslMode() string {
	if p.SSLMode != "" {
		return p.SSLMode
	}
	if p.SSLVerify {
		return "verify-full"
	}
	return "require"
}

func (p PostgresConfig) Timeout() time.Duration {
	return time.Duration(p.StatementTimeout) * time.Millisecond
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// AdminConfig holds the single shared credential pair for export and listing.
type AdminConfig struct {
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
}

type MediaConfig struct {
	Cloudinary struct {
		CloudName      string `mapstructure:"cloud_name"`
		APIKey         string `mapstructure:"api_key"`
		APISecret      string `mapstructure:"api_secret"`
		Folder         string `mapstructure:"folder"`
		Transformation string `mapstructure:"transformation"`
	} `mapstructure:"cloudinary"`
	UploadTimeout int `mapstructure:"upload_timeout"` // milliseconds
}

func (m MediaConfig) Enabled() bool {
	c := m.Cloudinary
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type NotificationConfig struct {
	Recipient string `mapstructure:"recipient" validate:"omitempty,email"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds

	SMTP SMTPConfig `mapstructure:"smtp"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

type SMTPConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	UseTLS      bool   `mapstructure:"use_tls"`
	DefaultFrom string `mapstructure:"default_from"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

type RateLimitConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Requests int  `mapstructure:"requests" validate:"gte=0"`
	Window   int  `mapstructure:"window"` // seconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
