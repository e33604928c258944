package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnvs sets multiple env vars for the duration of the test.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8010, cfg.HTTPPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StoreRedis, cfg.OnboardingStore)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, 2500*time.Millisecond, cfg.SplashDuration)
	assert.Equal(t, 4*time.Second, cfg.CarouselInterval)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.OTelEnabled)
	assert.InDelta(t, 20.0, cfg.RateLimitRPS, 1e-9)
	assert.Equal(t, 40, cfg.RateLimitBurst)
}

func TestLoad_FromEnv(t *testing.T) {
	setEnvs(t, map[string]string{
		"STOREFRONT_HTTP_PORT": "9010",
		"ONBOARDING_STORE":     "memory",
		"KAFKA_BROKERS":        "k1:9092,k2:9092",
		"EVENTS_ENABLED":       "false",
		"SPLASH_DURATION":      "1s",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"OTEL_SAMPLE_RATE":     "0.25",
		"RATE_LIMIT_RPS":       "0",
		"RATE_LIMIT_BURST":     "0",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9010, cfg.HTTPPort)
	assert.Equal(t, StoreMemory, cfg.OnboardingStore)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.EventsEnabled)
	assert.Equal(t, time.Second, cfg.SplashDuration)
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
	assert.InDelta(t, 0.25, cfg.OTelSampleRate, 1e-9)
	assert.Zero(t, cfg.RateLimitRPS, "zero disables limiting, so burst is not checked")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr string
	}{
		{"port out of range", map[string]string{"STOREFRONT_HTTP_PORT": "70000"}, "invalid HTTP port"},
		{"unknown store", map[string]string{"ONBOARDING_STORE": "postgres"}, "ONBOARDING_STORE"},
		{"zero splash", map[string]string{"SPLASH_DURATION": "0s"}, "SPLASH_DURATION"},
		{"negative carousel", map[string]string{"CAROUSEL_INTERVAL": "-1s"}, "CAROUSEL_INTERVAL"},
		{"zero idle ttl", map[string]string{"SESSION_IDLE_TTL": "0s"}, "SESSION_IDLE_TTL"},
		{"sample rate", map[string]string{"OTEL_SAMPLE_RATE": "1.5"}, "OTEL_SAMPLE_RATE"},
		{"negative rate", map[string]string{"RATE_LIMIT_RPS": "-1"}, "RATE_LIMIT_RPS"},
		{"zero burst", map[string]string{"RATE_LIMIT_BURST": "0"}, "RATE_LIMIT_BURST"},
		{"bad duration", map[string]string{"SPLASH_DURATION": "soon"}, "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnvs(t, tt.envs)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
