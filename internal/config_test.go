package internal

import (
	"testing"
	"time"

	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("POSTMARK_API_TOKEN", "server-token")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(3000), cfg.Port)
	assert.Equal(t, "server-token", cfg.Postmark.APIToken)
	assert.Equal(t, "https://api.postmarkapp.com", cfg.Postmark.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Postmark.Timeout())
	assert.Equal(t, "none", cfg.Storage.Provider)
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.Server.AuthToken)
	assert.False(t, cfg.Server.TrustProxyHeaders)
	assert.False(t, cfg.Sentry.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("POSTMARK_API_TOKEN", "tok")
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "8081")
	t.Setenv("POSTMARK_TIMEOUT_SECONDS", "5")
	t.Setenv("STORAGE_PROVIDER", "r2")
	t.Setenv("R2_ACCOUNT_ID", "acct")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "mail")
	t.Setenv("SEND_AUTH_TOKEN", "0123456789abcdef")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint16(8081), cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Postmark.Timeout())
	assert.Equal(t, "mail", cfg.Storage.R2BucketName)
	assert.Equal(t, "0123456789abcdef", cfg.Server.AuthToken)
	assert.True(t, cfg.Server.TrustProxyHeaders)
}

func TestLoadConfig_InvalidEnvAndLevelFallBack(t *testing.T) {
	t.Setenv("POSTMARK_API_TOKEN", "tok")
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "verbose")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantField string
	}{
		{
			name:      "missing token",
			env:       map[string]string{},
			wantField: "POSTMARK_API_TOKEN",
		},
		{
			name:      "r2 without bucket",
			env:       map[string]string{"POSTMARK_API_TOKEN": "tok", "STORAGE_PROVIDER": "r2", "R2_ACCOUNT_ID": "a", "R2_ACCESS_KEY_ID": "k", "R2_SECRET_ACCESS_KEY": "s"},
			wantField: "R2_BUCKET_NAME",
		},
		{
			name:      "unknown storage provider",
			env:       map[string]string{"POSTMARK_API_TOKEN": "tok", "STORAGE_PROVIDER": "ftp"},
			wantField: "STORAGE_PROVIDER",
		},
		{
			name:      "sentry enabled without dsn",
			env:       map[string]string{"POSTMARK_API_TOKEN": "tok", "SENTRY_ENABLED": "true"},
			wantField: "SENTRY_DSN",
		},
		{
			name:      "short send token",
			env:       map[string]string{"POSTMARK_API_TOKEN": "tok", "SEND_AUTH_TOKEN": "short"},
			wantField: "SEND_AUTH_TOKEN",
		},
		{
			name:      "bad base url",
			env:       map[string]string{"POSTMARK_API_TOKEN": "tok", "POSTMARK_BASE_URL": "not a url"},
			wantField: "POSTMARK_BASE_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("POSTMARK_API_TOKEN", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := loadConfig(newViper())
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			assert.Contains(t, domain.GetValidationFields(err), tt.wantField)
		})
	}
}
