package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"API_PORT", "ENVIRONMENT_NAME", "PRICE_CACHE_TTL", "DETACH_CONCURRENCY", "CORS_ALLOWED_ORIGINS", "JOBS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "development", cfg.EnvironmentName)
	assert.Equal(t, time.Hour, cfg.PriceCacheTTL)
	assert.Equal(t, 4, cfg.DetachConcurrency)
	assert.Nil(t, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.JobsEnabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT_NAME", "production")
	t.Setenv("STRIPE_PRODUCT_ID", "prod_reg")
	t.Setenv("STRIPE_VAT_TAX_RATE_ID", "txr_vat20")
	t.Setenv("PRICE_CACHE_TTL", "15m")
	t.Setenv("DETACH_CONCURRENCY", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://register.example.com, ,https://admin.example.com")
	t.Setenv("JOBS_ENABLED", "false")
	t.Setenv("SENTRY_ENVIRONMENT", "")

	cfg := Load()
	assert.Equal(t, "production", cfg.EnvironmentName)
	assert.Equal(t, "prod_reg", cfg.StripeProductID)
	assert.Equal(t, "txr_vat20", cfg.StripeVATTaxRateID)
	assert.Equal(t, 15*time.Minute, cfg.PriceCacheTTL)
	assert.Equal(t, 8, cfg.DetachConcurrency)
	assert.Equal(t, []string{"https://register.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.JobsEnabled)
	assert.Equal(t, "production", cfg.SentryEnvironment)
}

func TestEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name string
		set  string
		got  func() interface{}
		want interface{}
	}{
		{name: "int", set: "many", got: func() interface{} { return getEnvAsInt("CFG_TEST", 3) }, want: 3},
		{name: "bool", set: "maybe", got: func() interface{} { return getEnvAsBool("CFG_TEST", true) }, want: true},
		{name: "duration", set: "soon", got: func() interface{} { return getEnvAsDuration("CFG_TEST", time.Second) }, want: time.Second},
		{name: "slice", set: " , ", got: func() interface{} { return getEnvAsSlice("CFG_TEST", []string{"a"}) }, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CFG_TEST", tt.set)
			assert.Equal(t, tt.want, tt.got())
		})
	}
}
