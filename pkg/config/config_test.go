package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	Host     string        `env:"TEST_CFG_HOST" envDefault:"localhost"`
	Debug    bool          `env:"TEST_CFG_DEBUG" envDefault:"false"`
	Interval time.Duration `env:"TEST_CFG_INTERVAL" envDefault:"4s"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 4*time.Second, cfg.Interval)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_DEBUG", "true")
	t.Setenv("TEST_CFG_INTERVAL", "2500ms")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 2500*time.Millisecond, cfg.Interval)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_ReportsEveryBadVariable(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "eighty")
	t.Setenv("TEST_CFG_INTERVAL", "often")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Port"`)
	assert.Contains(t, err.Error(), `"Interval"`)
}

func TestLoad_RequiresPointer(t *testing.T) {
	assert.Error(t, Load(testConfig{}))
}
