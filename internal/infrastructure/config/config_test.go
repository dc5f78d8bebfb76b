package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:token")
	t.Setenv("AEROAPI_KEY", "aero-key")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "123:token", cfg.TelegramToken)
	assert.Equal(t, "aero-key", cfg.AeroAPIKey)
	assert.Equal(t, "https://aeroapi.flightaware.com/aeroapi", cfg.AeroAPIBaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 25*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 15*time.Minute, cfg.WatchdogInterval)
	assert.False(t, cfg.Debug)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOOKUP_TIMEOUT", "10")
	t.Setenv("WATCHDOG_INTERVAL_MINUTES", "5")
	t.Setenv("DEBUG", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 5*time.Minute, cfg.WatchdogInterval)
	assert.True(t, cfg.Debug)
}

func TestLoadConfig_MissingCredentialsFatal(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("AEROAPI_KEY", "aero-key")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")

	t.Setenv("TELEGRAM_BOT_TOKEN", "123:token")
	t.Setenv("AEROAPI_KEY", "")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "AEROAPI_KEY")
}
