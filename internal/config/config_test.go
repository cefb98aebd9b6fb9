package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRACKER_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.PriceCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.RateCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.QuoteTimeout)
	assert.Equal(t, 5*time.Second, cfg.RateTimeout)
	assert.Equal(t, 4, cfg.FetchConcurrency)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.YahooBaseURL)
	assert.Equal(t, "https://api.nbp.pl", cfg.NBPBaseURL)
	assert.Equal(t, filepath.Join(dir, "ledger.db"), cfg.LedgerPath())
	assert.Equal(t, filepath.Join(dir, "cache.db"), cfg.CachePath())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TRACKER_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("PRICE_CACHE_TTL", "5m")
	t.Setenv("FETCH_CONCURRENCY", "8")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("PRICE_REFRESH_SCHEDULE", "0 0 * * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.PriceCacheTTL)
	assert.Equal(t, 8, cfg.FetchConcurrency)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "0 0 * * * *", cfg.PriceRefreshSchedule)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("TRACKER_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "not-a-number")
	t.Setenv("QUOTE_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.QuoteTimeout)
}

func TestLoad_RejectsZeroConcurrency(t *testing.T) {
	t.Setenv("TRACKER_DATA_DIR", t.TempDir())
	t.Setenv("FETCH_CONCURRENCY", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:             8080,
			PriceCacheTTL:    15 * time.Minute,
			RateCacheTTL:     24 * time.Hour,
			QuoteTimeout:     10 * time.Second,
			RateTimeout:      5 * time.Second,
			FetchConcurrency: 4,
			RateRetention:    48 * time.Hour,
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.PriceCacheTTL = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.RateRetention = time.Hour
	assert.Error(t, cfg.Validate())
}
