// Package di provides dependency injection for repositories.
package di

import (
	"fmt"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/config"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/currency"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/ledger"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/prices"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates all repositories and stores them in the container
func InitializeRepositories(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}
	if container.LedgerDB == nil || container.CacheDB == nil {
		return fmt.Errorf("databases must be initialized before repositories")
	}

	// ledger.db
	container.PortfolioRepo = ledger.NewPortfolioRepository(container.LedgerDB.Conn(), log)
	container.AssetRepo = ledger.NewAssetRepository(container.LedgerDB.Conn(), log)
	container.TransactionRepo = ledger.NewTransactionRepository(container.LedgerDB.Conn(), log)
	container.HoldingsRepo = ledger.NewHoldingsRepository(container.LedgerDB.Conn(), log)

	// cache.db
	container.PriceCacheRepo = prices.NewCacheRepository(container.CacheDB.Conn(), cfg.PriceCacheTTL, log)
	container.RateRepo = currency.NewRateRepository(container.CacheDB.Conn(), log)

	log.Info().Msg("Repositories initialized")
	return nil
}
