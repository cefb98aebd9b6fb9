// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/config"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens ledger.db and cache.db and applies their schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// 1. ledger.db - portfolios and the transaction journal
	ledgerDB, err := database.New(database.Config{
		Path:    cfg.LedgerPath(),
		Profile: database.ProfileLedger, // Maximum safety for the journal
		Name:    database.NameLedger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger database: %w", err)
	}
	container.LedgerDB = ledgerDB

	// 2. cache.db - quotes and exchange rates
	cacheDB, err := database.New(database.Config{
		Path:    cfg.CachePath(),
		Profile: database.ProfileCache, // Maximum speed, everything is refetchable
		Name:    database.NameCache,
	})
	if err != nil {
		ledgerDB.Close()
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}
	container.CacheDB = cacheDB

	for _, db := range []*database.DB{ledgerDB, cacheDB} {
		if err := db.Migrate(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to apply schema to %s: %w", db.Name(), err)
		}
	}

	log.Info().
		Str("ledger", ledgerDB.Path()).
		Str("cache", cacheDB.Path()).
		Msg("Databases initialized and schemas applied")

	return container, nil
}
