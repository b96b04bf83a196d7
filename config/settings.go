package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/akeren/waitlist-api/pkg/constants"
)

type AppConfig struct {
	Port                string        `env:"APP_PORT" envDefault:"8080"`
	GinMode             string        `env:"GIN_MODE"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	CORSAllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	TrustedProxies      []string      `env:"TRUSTED_PROXIES" envSeparator:","`
	MaxRequestBodyBytes int64         `env:"MAX_REQUEST_BODY_BYTES" envDefault:"1048576"`
	MetricsEnabled      bool          `env:"METRICS_ENABLED" envDefault:"true"`
	StatsCacheTTL       time.Duration `env:"STATS_CACHE_TTL" envDefault:"1m"`

	// HSTSEnabled defaults to IsProduction() when HSTS_ENABLED is unset.
	HSTSEnabled           *bool `env:"HSTS_ENABLED"`
	HSTSMaxAge            int64 `env:"HSTS_MAX_AGE" envDefault:"31536000"`
	HSTSIncludeSubdomains bool  `env:"HSTS_INCLUDE_SUBDOMAINS" envDefault:"true"`
}

// AdminConfig is the single admin identity. An empty password leaves admin
// routes answering with a configuration error.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
	Password string `env:"ADMIN_PASSWORD"`
}

type EmailConfig struct {
	Provider      string        `env:"EMAIL_PROVIDER" envDefault:"resend"`
	ResendAPIKey  string        `env:"RESEND_API_KEY"`
	ResendBaseURL string        `env:"RESEND_BASE_URL"`
	SenderEmail   string        `env:"SENDER_EMAIL"`
	SenderName    string        `env:"SENDER_NAME" envDefault:"Luminary Labs"`
	SendTimeout   time.Duration `env:"EMAIL_SEND_TIMEOUT" envDefault:"5s"`

	AWSRegion          string `env:"AWS_REGION"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	BreakerThreshold int           `env:"EMAIL_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown  time.Duration `env:"EMAIL_BREAKER_COOLDOWN" envDefault:"60s"`
}

type DBConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"POSTGRES_HOST"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_DB_NAME"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"require"`

	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1m"`
	ConnectAttempts int           `env:"DB_CONNECT_ATTEMPTS" envDefault:"5"`

	// MigrationsDir overrides the per-dialect directory used by `cli migrate`.
	MigrationsDir string `env:"MIGRATIONS_DIR"`
}

type Settings struct {
	App      AppConfig
	Admin    AdminConfig
	Email    EmailConfig
	Database DBConfig
	Cache    CacheConfig
}

// LoadSettings parses every config struct from the environment and fills
// zero values left by empty variables.
func LoadSettings() (*Settings, error) {
	s := &Settings{}
	for _, target := range []any{&s.App, &s.Admin, &s.Email, &s.Database, &s.Cache} {
		if err := ParseEnv(target); err != nil {
			return nil, err
		}
	}
	s.applyDefaults()

	if err := s.Email.validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.App.RequestTimeout <= 0 {
		s.App.RequestTimeout = constants.DefaultRequestTimeout
	}
	s.App.CORSAllowedOrigins = compact(s.App.CORSAllowedOrigins)
	if len(s.App.CORSAllowedOrigins) == 0 {
		s.App.CORSAllowedOrigins = constants.DefaultCORSAllowedOrigins
	}
	if s.App.StatsCacheTTL <= 0 {
		s.App.StatsCacheTTL = constants.DefaultStatsCacheTTL
	}
	s.App.Port = strings.TrimSpace(s.App.Port)
	if s.App.Port == "" {
		s.App.Port = "8080"
	}
	s.App.GinMode = strings.TrimSpace(s.App.GinMode)
	s.App.TrustedProxies = compact(s.App.TrustedProxies)
	if s.App.MaxRequestBodyBytes <= 0 {
		s.App.MaxRequestBodyBytes = constants.DefaultMaxRequestBodyBytes
	}
	if s.App.HSTSEnabled == nil {
		production := IsProduction()
		s.App.HSTSEnabled = &production
	}
	if s.App.HSTSMaxAge <= 0 {
		s.App.HSTSMaxAge = constants.DefaultHSTSMaxAge
	}

	s.Admin.Username = strings.TrimSpace(s.Admin.Username)
	if s.Admin.Username == "" {
		s.Admin.Username = "admin"
	}

	s.Email.Provider = strings.ToLower(strings.TrimSpace(s.Email.Provider))
	if s.Email.Provider == "" {
		s.Email.Provider = EmailProviderResend
	}
	if s.Email.SenderName == "" {
		s.Email.SenderName = "Luminary Labs"
	}
	if s.Email.SendTimeout <= 0 {
		s.Email.SendTimeout = constants.DefaultEmailSendTimeout
	}
	if s.Email.BreakerThreshold < 1 {
		s.Email.BreakerThreshold = 5
	}
	if s.Email.BreakerCooldown <= 0 {
		s.Email.BreakerCooldown = time.Minute
	}

	s.Database.URL = sanitizeEnv(s.Database.URL)
	if s.Database.Port == "" {
		s.Database.Port = "5432"
	}
	if s.Database.SSLMode == "" {
		s.Database.SSLMode = "require"
	}
	if s.Database.ConnectAttempts < 1 {
		s.Database.ConnectAttempts = 1
	}

	if s.Cache.Port == "" {
		s.Cache.Port = "6379"
	}
}

const (
	EmailProviderResend = "resend"
	EmailProviderSES    = "ses"
	EmailProviderNone   = "none"
)

func (e *EmailConfig) validate() error {
	switch e.Provider {
	case EmailProviderResend, EmailProviderSES, EmailProviderNone:
		return nil
	default:
		return fmt.Errorf("invalid EMAIL_PROVIDER %q (allowed: resend, ses, none)", e.Provider)
	}
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
