// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir   string // Base directory for ledger.db and cache.db (always absolute)
	Port      int
	LogLevel  string
	LogPretty bool
	DevMode   bool

	YahooBaseURL string
	NBPBaseURL   string

	PriceCacheTTL    time.Duration
	RateCacheTTL     time.Duration
	QuoteTimeout     time.Duration
	RateTimeout      time.Duration
	FetchConcurrency int

	PriceRefreshSchedule string // cron spec with seconds field, empty disables the job
	CacheCleanupSchedule string
	RateRetention        time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("TRACKER_DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:   absDataDir,
		Port:      getEnvAsInt("PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
		DevMode:   getEnvAsBool("DEV_MODE", false),

		YahooBaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		NBPBaseURL:   getEnv("NBP_BASE_URL", "https://api.nbp.pl"),

		PriceCacheTTL:    getEnvAsDuration("PRICE_CACHE_TTL", 15*time.Minute),
		RateCacheTTL:     getEnvAsDuration("RATE_CACHE_TTL", 24*time.Hour),
		QuoteTimeout:     getEnvAsDuration("QUOTE_TIMEOUT", 10*time.Second),
		RateTimeout:      getEnvAsDuration("RATE_TIMEOUT", 5*time.Second),
		FetchConcurrency: getEnvAsInt("FETCH_CONCURRENCY", 4),

		PriceRefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", "0 */15 * * * *"),
		CacheCleanupSchedule: getEnv("CACHE_CLEANUP_SCHEDULE", "0 30 3 * * *"),
		RateRetention:        getEnvAsDuration("RATE_RETENTION", 30*24*time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the loaded values are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.PriceCacheTTL <= 0 {
		return fmt.Errorf("PRICE_CACHE_TTL must be positive, got %s", c.PriceCacheTTL)
	}
	if c.RateCacheTTL <= 0 {
		return fmt.Errorf("RATE_CACHE_TTL must be positive, got %s", c.RateCacheTTL)
	}
	if c.QuoteTimeout <= 0 || c.RateTimeout <= 0 {
		return fmt.Errorf("fetch timeouts must be positive")
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive, got %d", c.FetchConcurrency)
	}
	if c.RateRetention < c.RateCacheTTL {
		return fmt.Errorf("RATE_RETENTION (%s) must not be shorter than RATE_CACHE_TTL (%s)", c.RateRetention, c.RateCacheTTL)
	}
	return nil
}

// LedgerPath returns the path of the ledger database
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, "ledger.db")
}

// CachePath returns the path of the price/rate cache database
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
