// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/config"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/scheduler"
	"github.com/rs/zerolog"
)

// checkDatabasesSchedule runs the integrity check once a day at 04:00
const checkDatabasesSchedule = "0 0 4 * * *"

// RegisterJobs creates the background jobs and registers them with the scheduler.
// An empty schedule leaves the job out of cron; it can still be triggered via API.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if container.ValuationService == nil {
		return nil, fmt.Errorf("services must be initialized before jobs")
	}

	container.Scheduler = scheduler.New(log)
	instances := &JobInstances{}

	// Keep quotes fresh for cache-mode page renders
	refreshPrices := scheduler.NewRefreshPricesJob(container.ValuationService, 0)
	refreshPrices.SetLogger(log)
	instances.RefreshPrices = refreshPrices

	// Trim rate history and abandoned quotes
	cacheCleanup := scheduler.NewCacheCleanupJob(container.RateRepo, container.PriceCacheRepo, cfg.RateRetention)
	cacheCleanup.SetLogger(log)
	instances.CacheCleanup = cacheCleanup

	checkDatabases := scheduler.NewCheckDatabasesJob(container.LedgerDB, container.CacheDB)
	checkDatabases.SetLogger(log)
	instances.CheckDatabases = checkDatabases

	schedules := []struct {
		spec string
		job  scheduler.Job
	}{
		{cfg.PriceRefreshSchedule, refreshPrices},
		{cfg.CacheCleanupSchedule, cacheCleanup},
		{checkDatabasesSchedule, checkDatabases},
	}
	for _, s := range schedules {
		if s.spec == "" {
			log.Info().Str("job", s.job.Name()).Msg("Job has no schedule, manual trigger only")
		}
		if err := container.Scheduler.Register(s.job, s.spec); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", s.job.Name(), err)
		}
	}

	return instances, nil
}
