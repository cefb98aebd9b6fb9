package domain

import "context"

// PriceCache stores the latest quote per symbol
type PriceCache interface {
	// Read returns nil, nil on a miss. With freshOnly set, rows older than
	// the cache TTL count as a miss.
	Read(ctx context.Context, symbol string, freshOnly bool) (*PriceQuote, error)

	// Write replaces any existing row for the quote's symbol
	Write(ctx context.Context, quote *PriceQuote) error
}

// QuoteFetcher fetches a live quote. Any error means "no price available".
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*PriceQuote, error)
}

// RateProvider returns PLN per unit of a currency
type RateProvider interface {
	Rate(ctx context.Context, currency string) (float64, error)
}

// HoldingsSource aggregates transaction journals into open holdings
type HoldingsSource interface {
	SummaryByPortfolio(ctx context.Context, portfolioID int64) ([]Holding, error)
	SummaryByUser(ctx context.Context, userID int64) ([]Holding, error)
}
