package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ledgerly")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 24*time.Hour, cfg.JWT.SessionTTL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 20, cfg.RateLimit.PerMinute)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, "ledgerly.events", cfg.AMQP.Exchange)
	assert.Equal(t, "@hourly", cfg.Rates.RefreshCron)
	assert.Equal(t, time.Hour, cfg.Rates.TTL)
	assert.Equal(t, "0 6 * * 1", cfg.WeeklyReportCron)
	assert.False(t, cfg.S3.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ledgerly")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("AUTH_RATE_LIMIT_PER_MINUTE", "60")
	t.Setenv("PUBLIC_URL", "https://api.ledgerly.app/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.ledgerly.app", cfg.PublicURL)

	assert.Equal(t, 2*time.Hour, cfg.JWT.SessionTTL)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 60, cfg.RateLimit.PerMinute)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing database url",
			env:     map[string]string{"JWT_SECRET": testSecret},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing secret",
			env:     map[string]string{"DATABASE_URL": "postgres://x"},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "short secret",
			env:     map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "short"},
			wantErr: "at least 32 bytes",
		},
		{
			name:    "bad duration",
			env:     map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": testSecret, "SESSION_TTL": "tomorrow"},
			wantErr: "SESSION_TTL",
		},
		{
			name:    "bad burst",
			env:     map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": testSecret, "AUTH_RATE_LIMIT_BURST": "0"},
			wantErr: "rate limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "SESSION_TTL", "AUTH_RATE_LIMIT_BURST"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "got %v", err)
		})
	}
}
