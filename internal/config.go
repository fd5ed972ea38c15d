package internal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/dukerupert/postmark-transport/internal/domain"
)

type Config struct {
	// Env and LogLevel fall back to prod and info when unrecognized.
	Env              string `env:"ENV"`
	LogLevel         string `env:"LOG_LEVEL"`
	Port             uint16 `env:"PORT" validate:"required"`
	MetricsNamespace string `env:"METRICS_NAMESPACE"`
	Server           ServerConfig
	Postmark         PostmarkConfig
	RateLimit        RateLimitConfig
	Storage          StorageConfig
	Sentry           SentryConfig
}

// ServerConfig guards the HTTP send endpoints. serve refuses to start
// without an AuthToken.
type ServerConfig struct {
	AuthToken string `env:"SEND_AUTH_TOKEN" validate:"omitempty,min=16"`

	// TrustProxyHeaders keys rate limiting on X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS"`
}

type PostmarkConfig struct {
	APIToken       string `env:"POSTMARK_API_TOKEN" validate:"required"`
	BaseURL        string `env:"POSTMARK_BASE_URL" validate:"required,url"`
	TimeoutSeconds int    `env:"POSTMARK_TIMEOUT_SECONDS" validate:"gte=1"`
}

// Timeout returns the Postmark request timeout.
func (c PostmarkConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RateLimitConfig throttles the send endpoints per client. A zero rate
// disables throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS" validate:"gte=0"`
	Burst             int     `env:"RATE_LIMIT_BURST" validate:"gte=1"`
}

// StorageConfig selects where storage:// attachment keys are read from.
// Provider "none" leaves storage keys unresolvable.
type StorageConfig struct {
	Provider      string `env:"STORAGE_PROVIDER" validate:"oneof=none local r2"`
	LocalPath     string `env:"LOCAL_STORAGE_PATH" validate:"required_if=Provider local"`
	R2AccountID   string `env:"R2_ACCOUNT_ID" validate:"required_if=Provider r2"`
	R2AccessKeyID string `env:"R2_ACCESS_KEY_ID" validate:"required_if=Provider r2"`
	R2SecretKey   string `env:"R2_SECRET_ACCESS_KEY" validate:"required_if=Provider r2"`
	R2BucketName  string `env:"R2_BUCKET_NAME" validate:"required_if=Provider r2"`
}

// Enabled reports whether a storage backend is configured.
func (c StorageConfig) Enabled() bool {
	return c.Provider != "none"
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string  `env:"SENTRY_DSN" validate:"required_if=Enabled true"`
	Enabled          bool    `env:"SENTRY_ENABLED"`
	Environment      string  `env:"SENTRY_ENVIRONMENT"`
	Release          string  `env:"SENTRY_RELEASE"`
	SampleRate       float64 `env:"SENTRY_SAMPLE_RATE"`
	TracesSampleRate float64 `env:"SENTRY_TRACES_SAMPLE_RATE"`
	Debug            bool    `env:"SENTRY_DEBUG"`
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			log.Debug().Msg(".env file not found, using environment variables and defaults")
		}
	}

	return loadConfig(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 3000)
	v.SetDefault("METRICS_NAMESPACE", "postmark_transport")
	v.SetDefault("POSTMARK_BASE_URL", "https://api.postmarkapp.com")
	v.SetDefault("POSTMARK_TIMEOUT_SECONDS", 30)
	v.SetDefault("TRUST_PROXY_HEADERS", false)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("STORAGE_PROVIDER", "none")
	v.SetDefault("LOCAL_STORAGE_PATH", "./attachments")
	v.SetDefault("SENTRY_ENABLED", false) // Disabled by default for development
	v.SetDefault("SENTRY_ENVIRONMENT", "development")
	v.SetDefault("SENTRY_SAMPLE_RATE", 1.0)
	v.SetDefault("SENTRY_TRACES_SAMPLE_RATE", 0.0)
	return v
}

func loadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:              v.GetString("ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		Port:             v.GetUint16("PORT"),
		MetricsNamespace: v.GetString("METRICS_NAMESPACE"),
		Server: ServerConfig{
			AuthToken:         v.GetString("SEND_AUTH_TOKEN"),
			TrustProxyHeaders: v.GetBool("TRUST_PROXY_HEADERS"),
		},
		Postmark: PostmarkConfig{
			APIToken:       v.GetString("POSTMARK_API_TOKEN"),
			BaseURL:        v.GetString("POSTMARK_BASE_URL"),
			TimeoutSeconds: v.GetInt("POSTMARK_TIMEOUT_SECONDS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Storage: StorageConfig{
			Provider:      v.GetString("STORAGE_PROVIDER"),
			LocalPath:     v.GetString("LOCAL_STORAGE_PATH"),
			R2AccountID:   v.GetString("R2_ACCOUNT_ID"),
			R2AccessKeyID: v.GetString("R2_ACCESS_KEY_ID"),
			R2SecretKey:   v.GetString("R2_SECRET_ACCESS_KEY"),
			R2BucketName:  v.GetString("R2_BUCKET_NAME"),
		},
		Sentry: SentryConfig{
			DSN:              v.GetString("SENTRY_DSN"),
			Enabled:          v.GetBool("SENTRY_ENABLED"),
			Environment:      v.GetString("SENTRY_ENVIRONMENT"),
			Release:          v.GetString("SENTRY_RELEASE"),
			SampleRate:       v.GetFloat64("SENTRY_SAMPLE_RATE"),
			TracesSampleRate: v.GetFloat64("SENTRY_TRACES_SAMPLE_RATE"),
			Debug:            v.GetBool("SENTRY_DEBUG"),
		},
	}

	// Validate env
	if cfg.Env != "dev" && cfg.Env != "prod" {
		log.Warn().Str("env", cfg.Env).Msg("Invalid environment. Using default: prod")
		cfg.Env = "prod"
	}

	// Validate log level
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		log.Warn().Str("value", cfg.LogLevel).Msg("Invalid log level. Using default: info")
		cfg.LogLevel = "info"
	}

	if err := domain.ValidateStruct("config.load", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
