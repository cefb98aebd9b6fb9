package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// StaleRateDeleter removes old exchange rate rows
type StaleRateDeleter interface {
	DeleteStaleRates(ctx context.Context, olderThan time.Time) (int64, error)
}

// StalePriceDeleter removes old quote rows
type StalePriceDeleter interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CacheCleanupJob trims cache.db: rate history and quotes older than the
// retention window. Both tables can be refilled from the upstream APIs.
type CacheCleanupJob struct {
	log       zerolog.Logger
	rates     StaleRateDeleter
	prices    StalePriceDeleter
	retention time.Duration
	now       func() time.Time
}

// NewCacheCleanupJob creates a new CacheCleanupJob
func NewCacheCleanupJob(rates StaleRateDeleter, prices StalePriceDeleter, retention time.Duration) *CacheCleanupJob {
	return &CacheCleanupJob{
		log:       zerolog.Nop(),
		rates:     rates,
		prices:    prices,
		retention: retention,
		now:       time.Now,
	}
}

// SetLogger sets the logger for the job
func (j *CacheCleanupJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Run executes the cache cleanup job
func (j *CacheCleanupJob) Run() error {
	if j.retention <= 0 {
		j.log.Debug().Msg("Retention disabled, skipping cleanup")
		return nil
	}

	ctx := context.Background()
	cutoff := j.now().Add(-j.retention)

	var ratesDeleted, pricesDeleted int64
	if j.rates != nil {
		n, err := j.rates.DeleteStaleRates(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to delete stale rates: %w", err)
		}
		ratesDeleted = n
	}

	if j.prices != nil {
		n, err := j.prices.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to delete stale prices: %w", err)
		}
		pricesDeleted = n
	}

	j.log.Info().
		Int64("rates_deleted", ratesDeleted).
		Int64("prices_deleted", pricesDeleted).
		Dur("retention", j.retention).
		Msg("Cache cleanup completed")

	return nil
}
