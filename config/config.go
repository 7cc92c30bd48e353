package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort string
	APIHost string
	// EnvironmentName is stamped on every invoice (ENVIRONMENT_NAME metadata).
	EnvironmentName string

	// Stripe
	StripeSecretKey    string
	StripeAPIVersion   string
	StripeProductID    string
	StripeVATTaxRateID string
	StripeBaseURL      string
	StripeMaxRetries   int

	// Registration flows
	PriceCacheTTL     time.Duration
	DetachConcurrency int

	// Database (billing event audit trail; disabled when empty)
	DatabaseURL       string
	DBSSLMode         string
	DBSSLCertPath     string
	DBSSLKeyPath      string
	DBSSLRootCertPath string

	// Redis (price catalog cache; disabled when empty)
	RedisURL string

	// Email
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string
	FrontendURL    string

	// Notifications
	SlackWebhookURL string

	// Error tracking
	SentryDSN         string
	SentryEnvironment string

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int
	RegisterRateLimitPerMinute int
	RegisterRateLimitBurst     int

	// Support tooling
	AdminToken string

	// Jobs
	JobsEnabled bool

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// API
		APIPort:         getEnv("API_PORT", "8080"),
		APIHost:         getEnv("API_HOST", "0.0.0.0"),
		EnvironmentName: getEnv("ENVIRONMENT_NAME", "development"),

		// Stripe
		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
		StripeAPIVersion:   getEnv("STRIPE_API_VERSION", ""),
		StripeProductID:    getEnv("STRIPE_PRODUCT_ID", ""),
		StripeVATTaxRateID: getEnv("STRIPE_VAT_TAX_RATE_ID", ""),
		StripeBaseURL:      getEnv("STRIPE_BASE_URL", ""),
		StripeMaxRetries:   getEnvAsInt("STRIPE_MAX_RETRIES", 2),

		// Registration flows
		PriceCacheTTL:     getEnvAsDuration("PRICE_CACHE_TTL", time.Hour),
		DetachConcurrency: getEnvAsInt("DETACH_CONCURRENCY", 4),

		// Database
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBSSLMode:         getEnv("DB_SSL_MODE", ""),
		DBSSLCertPath:     getEnv("DB_SSL_CERT_PATH", ""),
		DBSSLKeyPath:      getEnv("DB_SSL_KEY_PATH", ""),
		DBSSLRootCertPath: getEnv("DB_SSL_ROOT_CERT_PATH", ""),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Email
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "registrations@example.com"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Registrations"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Notifications
		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", getEnv("ENVIRONMENT_NAME", "development")),

		// CORS
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		RegisterRateLimitPerMinute: getEnvAsInt("REGISTER_RATE_LIMIT_PER_MINUTE", 10),
		RegisterRateLimitBurst:     getEnvAsInt("REGISTER_RATE_LIMIT_BURST", 3),

		// Support tooling
		AdminToken: getEnv("ADMIN_TOKEN", ""),

		// Jobs
		JobsEnabled: getEnvAsBool("JOBS_ENABLED", true),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsSlice splits a comma-separated variable, dropping empty items.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
