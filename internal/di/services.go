// Package di provides dependency injection for clients and services.
package di

import (
	"fmt"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/clients/exchangerate"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/clients/yahoo"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/config"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/bonds"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/currency"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/valuation"
	"github.com/rs/zerolog"
)

// InitializeServices creates clients and services. Repositories must exist.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}
	if container.HoldingsRepo == nil || container.PriceCacheRepo == nil || container.RateRepo == nil {
		return fmt.Errorf("repositories must be initialized before services")
	}

	// Clients
	container.YahooClient = yahoo.NewClient(cfg.YahooBaseURL, cfg.QuoteTimeout, log)
	container.ExchangeRateClient = exchangerate.NewClient(cfg.NBPBaseURL, cfg.RateTimeout, log)

	// Rates: cache.db -> NBP -> static table
	container.RateProvider = currency.NewProvider(
		container.RateRepo,
		container.ExchangeRateClient,
		cfg.RateCacheTTL,
		log,
	)

	container.BondCalculator = bonds.NewCalculator()

	container.QuoteLoader = valuation.NewQuoteLoader(
		container.PriceCacheRepo,
		container.YahooClient,
		cfg.FetchConcurrency,
		cfg.QuoteTimeout,
		log,
	)

	container.ValuationEngine = valuation.NewEngine(
		container.BondCalculator,
		container.PriceCacheRepo,
		container.RateProvider,
		log,
	)

	container.ValuationService = valuation.NewService(
		container.HoldingsRepo,
		container.PortfolioRepo,
		container.QuoteLoader,
		container.ValuationEngine,
		container.RateProvider,
		container.PriceCacheRepo,
		log,
	)

	log.Info().Msg("Services initialized")
	return nil
}
