package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HoldingsRepository is the ledger side the service reads from
type HoldingsRepository interface {
	domain.HoldingsSource
	QuoteSymbols(ctx context.Context) ([]string, error)
}

// PortfolioLister lists a user's portfolios
type PortfolioLister interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Portfolio, error)
}

// CacheClearer empties the price cache
type CacheClearer interface {
	Clear(ctx context.Context) (int64, error)
}

// Run is one valuation with its id and quote mode
type Run struct {
	Result
	RunID string `json:"run_id"`
	Mode  Mode   `json:"mode"`
}

// Dashboard holds per-portfolio summaries and their combined total
type Dashboard struct {
	Portfolios map[int64]domain.PortfolioSummary `json:"portfolios"`
	Total      domain.PortfolioSummary           `json:"total"`
	UpdatedAt  time.Time                         `json:"updated_at"`
	RunID      string                            `json:"run_id"`
}

const slowValuation = 5 * time.Second

// Service ties the ledger, the quote loader and the engine together
type Service struct {
	holdings   HoldingsRepository
	portfolios PortfolioLister
	loader     *QuoteLoader
	engine     *Engine
	rates      RateSource
	cache      CacheClearer
	now        func() time.Time
	log        zerolog.Logger
}

// NewService creates a valuation service
func NewService(
	holdings HoldingsRepository,
	portfolios PortfolioLister,
	loader *QuoteLoader,
	engine *Engine,
	rates RateSource,
	cache CacheClearer,
	log zerolog.Logger,
) *Service {
	return &Service{
		holdings:   holdings,
		portfolios: portfolios,
		loader:     loader,
		engine:     engine,
		rates:      rates,
		cache:      cache,
		now:        time.Now,
		log:        log.With().Str("service", "valuation").Logger(),
	}
}

// ValuePortfolio values one portfolio
func (s *Service) ValuePortfolio(ctx context.Context, portfolioID int64, mode Mode) (*Run, error) {
	holdings, err := s.holdings.SummaryByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	return s.run(ctx, holdings, mode, "portfolio", portfolioID), nil
}

// ValueUser values all of a user's holdings as one portfolio
func (s *Service) ValueUser(ctx context.Context, userID int64, mode Mode) (*Run, error) {
	holdings, err := s.holdings.SummaryByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	return s.run(ctx, holdings, mode, "user", userID), nil
}

func (s *Service) run(ctx context.Context, holdings []domain.Holding, mode Mode, scope string, id int64) *Run {
	runID := uuid.New().String()
	log := s.log.With().Str("run_id", runID).Str("scope", scope).Int64("id", id).Logger()
	defer utils.OperationTimer("valuation", log, slowValuation)()

	quotes := s.loader.Load(ctx, HoldingSymbols(holdings), mode)
	result := s.engineFor(mode).Value(ctx, holdings, quotes)

	log.Info().
		Str("mode", string(mode)).
		Int("holdings", result.Summary.HoldingsCount).
		Int("quotes", len(quotes)).
		Float64("total_value", result.Summary.TotalValue).
		Msg("Portfolio valued")

	return &Run{Result: result, RunID: runID, Mode: mode}
}

// engineFor returns an engine whose rates follow the quote mode: cache
// mode never goes to the network. Rates are shared by everything valued
// with the returned engine.
func (s *Service) engineFor(mode Mode) *Engine {
	if s.rates == nil {
		return s.engine
	}
	var rates domain.RateProvider = s.rates
	if mode != ModeLive {
		rates = rateFunc(s.rates.CachedRate)
	}
	return s.engine.WithRates(newRateMemo(rates))
}

// Dashboard values every portfolio of a user. Quotes are loaded once for
// the union of symbols so live mode fetches each symbol at most once.
// The total is valued from the user-wide aggregate, so a symbol traded
// across portfolios is counted the same way ValueUser counts it.
func (s *Service) Dashboard(ctx context.Context, userID int64, mode Mode) (*Dashboard, error) {
	runID := uuid.New().String()
	log := s.log.With().Str("run_id", runID).Int64("user_id", userID).Logger()
	defer utils.OperationTimer("dashboard", log, slowValuation)()

	portfolios, err := s.portfolios.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	userHoldings, err := s.holdings.SummaryByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}

	byPortfolio := make(map[int64][]domain.Holding, len(portfolios))
	symbols := HoldingSymbols(userHoldings)
	for _, p := range portfolios {
		holdings, err := s.holdings.SummaryByPortfolio(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load holdings of portfolio %d: %w", p.ID, err)
		}
		byPortfolio[p.ID] = holdings
		symbols = append(symbols, HoldingSymbols(holdings)...)
	}

	quotes := s.loader.Load(ctx, symbols, mode)
	engine := s.engineFor(mode)

	dashboard := &Dashboard{
		Portfolios: make(map[int64]domain.PortfolioSummary, len(portfolios)),
		Total:      engine.Value(ctx, userHoldings, quotes).Summary,
		UpdatedAt:  s.now(),
		RunID:      runID,
	}
	for _, p := range portfolios {
		dashboard.Portfolios[p.ID] = engine.Value(ctx, byPortfolio[p.ID], quotes).Summary
	}

	log.Info().
		Str("mode", string(mode)).
		Int("portfolios", len(portfolios)).
		Float64("total_value", dashboard.Total.TotalValue).
		Msg("Dashboard valued")

	return dashboard, nil
}

// RefreshPrices drops every cached quote so the next live run refetches
func (s *Service) RefreshPrices(ctx context.Context) (int64, error) {
	if s.cache == nil {
		return 0, nil
	}
	n, err := s.cache.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear price cache: %w", err)
	}
	s.log.Info().Int64("removed", n).Msg("Price cache cleared")
	return n, nil
}

// WarmQuotes live-loads quotes for every open position
func (s *Service) WarmQuotes(ctx context.Context) (int, error) {
	symbols, err := s.holdings.QuoteSymbols(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list quote symbols: %w", err)
	}

	quotes := s.loader.Load(ctx, symbols, ModeLive)
	s.log.Info().
		Int("symbols", len(symbols)).
		Int("resolved", len(quotes)).
		Msg("Quotes warmed")

	return len(quotes), nil
}
