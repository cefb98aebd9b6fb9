/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the server for access to services.
 */
package di

import (
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/clients/exchangerate"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/clients/yahoo"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/database"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/bonds"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/currency"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/ledger"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/prices"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/valuation"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/scheduler"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Databases: ledger.db (journal, durable) and cache.db (quotes and rates, refetchable)
 * - Clients: Yahoo chart API and NBP exchange rate API
 * - Repositories: data access for both databases
 * - Services: rate provider, bond calculator, valuation
 */
type Container struct {
	// Databases
	LedgerDB *database.DB // Portfolios, assets, bond terms, transactions
	CacheDB  *database.DB // price_cache and currency_cache

	// Clients - External API integrations
	YahooClient        *yahoo.Client        // Market quotes
	ExchangeRateClient *exchangerate.Client // NBP table A mid rates

	// Repositories - Data access layer
	PortfolioRepo   *ledger.PortfolioRepository
	AssetRepo       *ledger.AssetRepository
	TransactionRepo *ledger.TransactionRepository
	HoldingsRepo    *ledger.HoldingsRepository
	PriceCacheRepo  *prices.CacheRepository
	RateRepo        *currency.RateRepository

	// Services - Business logic layer
	RateProvider     *currency.Provider
	BondCalculator   *bonds.Calculator
	QuoteLoader      *valuation.QuoteLoader
	ValuationEngine  *valuation.Engine
	ValuationService *valuation.Service

	// Scheduler runs the background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds the jobs registered with the scheduler
type JobInstances struct {
	RefreshPrices  *scheduler.RefreshPricesJob
	CacheCleanup   *scheduler.CacheCleanupJob
	CheckDatabases *scheduler.CheckDatabasesJob
}

// Close releases both databases. Safe to call on a partially built container.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.LedgerDB != nil {
		_ = c.LedgerDB.Close()
	}
	if c.CacheDB != nil {
		_ = c.CacheDB.Close()
	}
}
