// Package valuation prices holdings and rolls them up into PLN summaries.
package valuation

import (
	"context"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/bonds"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/currency"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/utils"
	"github.com/rs/zerolog"
)

// Result is a valued portfolio
type Result struct {
	Holdings []domain.ValuedHolding `json:"holdings"`
	Summary  domain.PortfolioSummary `json:"summary"`
}

// Engine values holdings against a quote snapshot.
//
// It never fails: every holding gets a price from the strategy chain and
// every currency gets a rate, falling back to static values when the rate
// provider errors.
type Engine struct {
	rates      domain.RateProvider
	strategies []PriceStrategy
	log        zerolog.Logger
}

// NewEngine creates an engine with the default price strategies
func NewEngine(calc *bonds.Calculator, cache domain.PriceCache, rates domain.RateProvider, log zerolog.Logger) *Engine {
	e := NewEngineWithStrategies(nil, rates, log)
	e.strategies = DefaultStrategies(calc, cache, e.log)
	return e
}

// NewEngineWithStrategies creates an engine with a custom strategy chain
func NewEngineWithStrategies(strategies []PriceStrategy, rates domain.RateProvider, log zerolog.Logger) *Engine {
	return &Engine{
		rates:      rates,
		strategies: strategies,
		log:        log.With().Str("service", "valuation_engine").Logger(),
	}
}

// WithRates returns a copy of the engine that resolves rates from rates
func (e *Engine) WithRates(rates domain.RateProvider) *Engine {
	c := *e
	c.rates = rates
	return &c
}

type totals struct {
	value       float64
	invested    float64
	cost        float64
	revenue     float64
	dailyChange float64
}

// Value prices each open holding and accumulates PLN totals.
// quotes is keyed by quote symbol; missing entries fall through to the
// cache and purchase price strategies. Each currency's rate is looked up
// once per call.
func (e *Engine) Value(ctx context.Context, holdings []domain.Holding, quotes map[string]*domain.PriceQuote) Result {
	valued := make([]domain.ValuedHolding, 0, len(holdings))
	var t totals

	var rates domain.RateProvider
	if e.rates != nil {
		rates = newRateMemo(e.rates)
	}

	for _, h := range holdings {
		net := h.NetQuantity()
		if net <= 0 {
			continue
		}

		vh := e.valueHolding(ctx, h, net, quotes, rates)
		valued = append(valued, roundHolding(vh))

		rate := vh.ExchangeRate
		t.value += vh.CurrentValuePLN
		t.invested += vh.InvestedValue * rate
		t.cost += h.TotalCost * rate
		t.revenue += h.TotalRevenue * rate
		t.dailyChange += vh.DailyChangePLN
	}

	return Result{
		Holdings: valued,
		Summary:  summarize(t, len(valued)),
	}
}

func (e *Engine) valueHolding(ctx context.Context, h domain.Holding, net float64, quotes map[string]*domain.PriceQuote, rates domain.RateProvider) domain.ValuedHolding {
	avgBuy := 0.0
	if h.TotalBought > 0 {
		avgBuy = h.TotalCost / h.TotalBought
	}

	point, strategy, ok := firstPrice(ctx, e.strategies, PriceInput{
		Holding:     h,
		Quotes:      quotes,
		AvgBuyPrice: avgBuy,
	})
	if !ok {
		point = PricePoint{Source: domain.PriceSourcePurchasePrice, Price: avgBuy}
		strategy = "purchase_price"
	}

	e.log.Debug().
		Str("symbol", h.Symbol).
		Str("strategy", strategy).
		Float64("price", point.Price).
		Msg("Price resolved")

	vh := domain.ValuedHolding{
		Holding:       h,
		PriceSource:   point.Source,
		Quantity:      net,
		AvgBuyPrice:   avgBuy,
		InvestedValue: net * avgBuy,
		CurrentPrice:  point.Price,
		DailyChange:   point.Change * net,
	}
	vh.CurrentValue = net * point.Price
	vh.CurrentProfit = vh.CurrentValue - vh.InvestedValue
	vh.TotalProfit = vh.CurrentValue + h.TotalRevenue - h.TotalCost
	vh.ProfitPercent = utils.Percent(vh.TotalProfit, h.TotalCost)

	rate := e.rate(ctx, rates, h.Currency)
	vh.ExchangeRate = rate
	vh.CurrentValuePLN = vh.CurrentValue * rate
	vh.CurrentProfitPLN = vh.CurrentProfit * rate
	vh.TotalProfitPLN = vh.TotalProfit * rate
	vh.DailyChangePLN = vh.DailyChange * rate

	return vh
}

func (e *Engine) rate(ctx context.Context, rates domain.RateProvider, cur string) float64 {
	code := utils.NormalizeCurrency(cur)
	if code == "" || code == domain.BaseCurrency {
		return 1.0
	}
	if rates != nil {
		rate, err := rates.Rate(ctx, code)
		if err == nil && rate > 0 {
			return rate
		}
		e.log.Warn().Err(err).Str("currency", code).Msg("Rate unavailable, using placeholder")
	}
	return currency.DefaultFallbackRate
}

// roundHolding rounds money and percent fields to 2 decimals.
// Prices and the rate are left as resolved.
func roundHolding(vh domain.ValuedHolding) domain.ValuedHolding {
	vh.InvestedValue = utils.Round2(vh.InvestedValue)
	vh.CurrentValue = utils.Round2(vh.CurrentValue)
	vh.CurrentProfit = utils.Round2(vh.CurrentProfit)
	vh.TotalProfit = utils.Round2(vh.TotalProfit)
	vh.ProfitPercent = utils.Round2(vh.ProfitPercent)
	vh.DailyChange = utils.Round2(vh.DailyChange)
	vh.CurrentValuePLN = utils.Round2(vh.CurrentValuePLN)
	vh.CurrentProfitPLN = utils.Round2(vh.CurrentProfitPLN)
	vh.TotalProfitPLN = utils.Round2(vh.TotalProfitPLN)
	vh.DailyChangePLN = utils.Round2(vh.DailyChangePLN)
	return vh
}

func summarize(t totals, count int) domain.PortfolioSummary {
	s := domain.PortfolioSummary{
		TotalValue:    t.value,
		TotalCost:     t.cost,
		TotalRevenue:  t.revenue,
		InvestedValue: t.invested,
		CurrentProfit: t.value - t.invested,
		TotalProfit:   t.value + t.revenue - t.cost,
		DailyChange:   t.dailyChange,
		HoldingsCount: count,
	}
	s.TotalProfitPercent = utils.Percent(s.TotalProfit, t.cost)
	s.DailyChangePercent = utils.Percent(t.dailyChange, t.value-t.dailyChange)

	return roundSummary(s)
}

func roundSummary(s domain.PortfolioSummary) domain.PortfolioSummary {
	s.TotalValue = utils.Round2(s.TotalValue)
	s.TotalCost = utils.Round2(s.TotalCost)
	s.TotalRevenue = utils.Round2(s.TotalRevenue)
	s.InvestedValue = utils.Round2(s.InvestedValue)
	s.CurrentProfit = utils.Round2(s.CurrentProfit)
	s.TotalProfit = utils.Round2(s.TotalProfit)
	s.TotalProfitPercent = utils.Round2(s.TotalProfitPercent)
	s.DailyChange = utils.Round2(s.DailyChange)
	s.DailyChangePercent = utils.Round2(s.DailyChangePercent)
	return s
}
