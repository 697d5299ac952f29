package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinJWTSecretLength is the minimum HS256 key size in bytes
const MinJWTSecretLength = 32

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string
	AutoMigrate bool

	// Session tokens
	JWT JWTConfig

	// Server
	Port        string
	PublicURL   string
	CORSOrigins []string
	Env         string

	// Auth endpoint rate limiting
	RateLimit RateLimitConfig

	// S3 Storage
	S3 S3Config

	// AMQP event sink
	AMQP AMQPConfig

	// Exchange rates
	Rates RatesConfig

	// Scheduled jobs
	WeeklyReportCron string
}

// JWTConfig holds session token settings
type JWTConfig struct {
	Secret     string
	Issuer     string
	Audience   string
	SessionTTL time.Duration
}

// RateLimitConfig holds per-IP limits for signup and signin
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Enabled         bool
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// AMQPConfig holds the optional RabbitMQ connection
type AMQPConfig struct {
	URL      string
	Exchange string
}

// RatesConfig holds the exchange rate source settings
type RatesConfig struct {
	APIURL      string
	TTL         time.Duration
	RefreshCron string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	sessionTTL, err := getDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	ratesTTL, err := getDuration("EXCHANGE_RATE_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	perMinute, err := getInt("AUTH_RATE_LIMIT_PER_MINUTE", 20)
	if err != nil {
		return nil, err
	}
	burst, err := getInt("AUTH_RATE_LIMIT_BURST", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		AutoMigrate: getBool("AUTO_MIGRATE", true),
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Issuer:     getEnv("JWT_ISSUER", "ledgerly"),
			Audience:   getEnv("JWT_AUDIENCE", "ledgerly-app"),
			SessionTTL: sessionTTL,
		},
		Port:        getEnv("PORT", "8080"),
		PublicURL:   strings.TrimRight(getEnv("PUBLIC_URL", ""), "/"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:         getEnv("ENV", "development"),
		RateLimit: RateLimitConfig{
			PerMinute: perMinute,
			Burst:     burst,
		},
		S3: S3Config{
			Enabled:         getBool("S3_ENABLED", false),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "ledgerly-files"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "ledgerly.events"),
		},
		Rates: RatesConfig{
			APIURL:      getEnv("EXCHANGE_RATE_API_URL", "https://open.er-api.com/v6/latest/USD"),
			TTL:         ratesTTL,
			RefreshCron: getEnv("RATES_REFRESH_CRON", "@hourly"),
		},
		WeeklyReportCron: getEnv("WEEKLY_REPORT_CRON", "0 6 * * 1"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
	}
	if c.JWT.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("auth rate limit and burst must be positive")
	}
	if c.S3.Enabled && c.S3.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when S3_ENABLED is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return value, nil
}
