package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "data-latest", cfg.Assets.ReleaseTag)
	assert.Equal(t, "sites_config.json", cfg.Assets.SiteRegistry)
	assert.Equal(t, 7, cfg.Forecast.HorizonDays)
	assert.Equal(t, 10*time.Minute, cfg.Forecast.SampleInterval)
	assert.Equal(t, "@every 6h", cfg.Forecast.RefreshCronSpec)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FIBER_PORT", "9999")
	t.Setenv("RELEASE_TAG", "data-2026-03")
	t.Setenv("FORECAST_HORIZON_DAYS", "3")
	t.Setenv("FETCH_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "data-2026-03", cfg.Assets.ReleaseTag)
	assert.Equal(t, 3, cfg.Forecast.HorizonDays)
	assert.Equal(t, 5*time.Second, cfg.Assets.FetchTimeout)
}

func TestParseHelpers_MalformedValues(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseDuration("nope"))
	assert.Equal(t, 0, parseInt("nope"))
	assert.Equal(t, 0.0, parseFloat("nope"))
}
