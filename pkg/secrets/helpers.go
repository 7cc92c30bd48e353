package secrets

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadString loads a secret as a string with optional fallback
func LoadString(ctx context.Context, m Manager, key, fallback string) string {
	value, err := m.GetSecret(ctx, key)
	if err != nil || value == "" {
		return fallback
	}
	return value
}

// LoadStringRequired loads a required secret (fails if not found)
func LoadStringRequired(ctx context.Context, m Manager, key string) (string, error) {
	value, err := m.GetSecret(ctx, key)
	if err != nil {
		return "", fmt.Errorf("required secret %s not found: %w", key, err)
	}
	if value == "" {
		return "", fmt.Errorf("required secret %s is empty", key)
	}
	return value, nil
}

// BillingSecrets holds the credentials the billing service needs
type BillingSecrets struct {
	StripeSecretKey string
	DatabaseURL     string
	RedisURL        string
	SendGridAPIKey  string
	SlackWebhookURL string
	SentryDSN       string
}

// LoadBillingSecrets loads all billing secrets from the manager. Only the
// Stripe key is required; the rest fall back to the values in defaults.
func LoadBillingSecrets(ctx context.Context, m Manager, defaults BillingSecrets) (*BillingSecrets, error) {
	stripeKey, err := LoadStringRequired(ctx, m, "STRIPE_SECRET_KEY")
	if err != nil {
		if defaults.StripeSecretKey == "" {
			return nil, err
		}
		stripeKey = defaults.StripeSecretKey
	}
	if !strings.HasPrefix(stripeKey, "sk_") && !strings.HasPrefix(stripeKey, "rk_") {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is not a Stripe secret or restricted key")
	}

	return &BillingSecrets{
		StripeSecretKey: stripeKey,
		DatabaseURL:     LoadString(ctx, m, "DATABASE_URL", defaults.DatabaseURL),
		RedisURL:        LoadString(ctx, m, "REDIS_URL", defaults.RedisURL),
		SendGridAPIKey:  LoadString(ctx, m, "SENDGRID_API_KEY", defaults.SendGridAPIKey),
		SlackWebhookURL: LoadString(ctx, m, "SLACK_WEBHOOK_URL", defaults.SlackWebhookURL),
		SentryDSN:       LoadString(ctx, m, "SENTRY_DSN", defaults.SentryDSN),
	}, nil
}

// AutoDetectBackend determines the secrets backend from environment
func AutoDetectBackend() string {
	if getEnvBool("AWS_SECRETS_MANAGER_ENABLED") {
		return "aws-secrets-manager"
	}

	// Running inside AWS (ECS, Lambda) with a region set
	if getEnv("AWS_REGION") != "" && getEnv("AWS_EXECUTION_ENV") != "" {
		return "aws-secrets-manager"
	}

	return "env"
}

// AutoDetectConfig creates a config with auto-detected backend
func AutoDetectConfig() Config {
	cfg := DefaultConfig()
	cfg.Backend = AutoDetectBackend()
	cfg.Prefix = getEnv("AWS_SECRETS_PREFIX")

	if region := getEnv("AWS_REGION"); region != "" {
		cfg.AWSRegion = region
	}
	if raw := getEnv("SECRETS_CACHE_DURATION"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.CacheDuration = d
		}
	}

	return cfg
}

func getEnv(key string) string {
	return os.Getenv(key)
}

func getEnvBool(key string) bool {
	parsed, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && parsed
}
