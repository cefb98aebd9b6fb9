package valuation

import (
	"context"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/bonds"
	"github.com/rs/zerolog"
)

// PriceInput is what a strategy sees for one holding
type PriceInput struct {
	Holding     domain.Holding
	Quotes      map[string]*domain.PriceQuote
	AvgBuyPrice float64
}

// PricePoint is a resolved per-unit price. Change is per unit.
type PricePoint struct {
	Source domain.PriceSource
	Price  float64
	Change float64
}

// PriceStrategy resolves a price or reports that it does not apply
type PriceStrategy struct {
	Name    string
	Resolve func(ctx context.Context, in PriceInput) (PricePoint, bool)
}

// firstPrice runs strategies in order; the first one that applies wins.
// The list always ends with purchasePrice, so ok is false only for an
// empty list.
func firstPrice(ctx context.Context, strategies []PriceStrategy, in PriceInput) (PricePoint, string, bool) {
	for _, s := range strategies {
		if p, ok := s.Resolve(ctx, in); ok {
			return p, s.Name, true
		}
	}
	return PricePoint{}, "", false
}

// DefaultStrategies returns the valuation fallback chain:
// bond accrual, quote, any-age cache row, purchase price.
func DefaultStrategies(calc *bonds.Calculator, cache domain.PriceCache, log zerolog.Logger) []PriceStrategy {
	return []PriceStrategy{
		bondAccrual(calc),
		quote(),
		oldCache(cache, log),
		purchasePrice(),
	}
}

func bondAccrual(calc *bonds.Calculator) PriceStrategy {
	return PriceStrategy{
		Name: "bond_accrual",
		Resolve: func(_ context.Context, in PriceInput) (PricePoint, bool) {
			if !in.Holding.AssetType.IsBond() {
				return PricePoint{}, false
			}
			return PricePoint{
				Source: domain.PriceSourceBondAccrued,
				Price:  calc.FairValue(in.Holding),
			}, true
		},
	}
}

func quote() PriceStrategy {
	return PriceStrategy{
		Name: "quote",
		Resolve: func(_ context.Context, in PriceInput) (PricePoint, bool) {
			if in.Holding.QuoteSymbol == "" {
				return PricePoint{}, false
			}
			q := in.Quotes[in.Holding.QuoteSymbol]
			if q == nil || q.Price <= 0 {
				return PricePoint{}, false
			}

			source := domain.PriceSourceAPI
			if q.FromCache {
				source = domain.PriceSourceCache
			}
			return PricePoint{Source: source, Price: q.Price, Change: q.Change}, true
		},
	}
}

func oldCache(cache domain.PriceCache, log zerolog.Logger) PriceStrategy {
	return PriceStrategy{
		Name: "old_cache",
		Resolve: func(ctx context.Context, in PriceInput) (PricePoint, bool) {
			if cache == nil || in.Holding.QuoteSymbol == "" {
				return PricePoint{}, false
			}

			q, err := cache.Read(ctx, in.Holding.QuoteSymbol, false)
			if err != nil {
				log.Warn().Err(err).Str("symbol", in.Holding.QuoteSymbol).Msg("Price cache read failed")
				return PricePoint{}, false
			}
			if q == nil || q.Price <= 0 {
				return PricePoint{}, false
			}
			return PricePoint{Source: domain.PriceSourceOldCache, Price: q.Price}, true
		},
	}
}

func purchasePrice() PriceStrategy {
	return PriceStrategy{
		Name: "purchase_price",
		Resolve: func(_ context.Context, in PriceInput) (PricePoint, bool) {
			return PricePoint{Source: domain.PriceSourcePurchasePrice, Price: in.AvgBuyPrice}, true
		},
	}
}
