package currency

import (
	"context"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/utils"
	"github.com/rs/zerolog"
)

// DefaultRateTTL is how long a cached rate counts as fresh
const DefaultRateTTL = 24 * time.Hour

// RateStore is the persistent rate cache
type RateStore interface {
	LatestWithin(ctx context.Context, currency string, maxAge time.Duration) (*domain.ExchangeRate, error)
	Latest(ctx context.Context, currency string) (*domain.ExchangeRate, error)
	Insert(ctx context.Context, currency string, rate float64) error
}

// RateFetcher fetches a live PLN mid rate
type RateFetcher interface {
	GetMidRate(ctx context.Context, code string) (float64, error)
}

// Provider resolves PLN rates: cache, then NBP, then a static table.
type Provider struct {
	store   RateStore
	fetcher RateFetcher
	ttl     time.Duration
	log     zerolog.Logger
}

// NewProvider creates a rate provider. A non-positive ttl selects DefaultRateTTL.
func NewProvider(store RateStore, fetcher RateFetcher, ttl time.Duration, log zerolog.Logger) *Provider {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	return &Provider{
		store:   store,
		fetcher: fetcher,
		ttl:     ttl,
		log:     log.With().Str("service", "exchange_rate").Logger(),
	}
}

// Rate returns PLN per one unit of currency. It never fails: every error
// along the way is logged and the next tier is tried.
func (p *Provider) Rate(ctx context.Context, currency string) (float64, error) {
	code := utils.NormalizeCurrency(currency)
	if code == "" || code == domain.BaseCurrency {
		return 1.0, nil
	}

	if p.store != nil {
		cached, err := p.store.LatestWithin(ctx, code, p.ttl)
		if err != nil {
			p.log.Warn().Err(err).Str("currency", code).Msg("Rate cache lookup failed")
		} else if cached != nil {
			p.log.Debug().
				Str("currency", code).
				Float64("rate", cached.Rate).
				Str("source", "cache").
				Msg("Using cached rate")
			return cached.Rate, nil
		}
	}

	if p.fetcher != nil {
		rate, err := p.fetcher.GetMidRate(ctx, code)
		if err == nil {
			if p.store != nil {
				if err := p.store.Insert(ctx, code, rate); err != nil {
					p.log.Warn().Err(err).Str("currency", code).Msg("Failed to cache fetched rate")
				}
			}
			return rate, nil
		}
		p.log.Warn().Err(err).Str("currency", code).Msg("NBP rate fetch failed")
	}

	rate := FallbackRate(code)
	p.log.Warn().
		Str("currency", code).
		Float64("rate", rate).
		Str("source", "hardcoded").
		Msg("Using fallback exchange rate")
	return rate, nil
}

// Rates resolves several currencies at once, keyed by normalised code
func (p *Provider) Rates(ctx context.Context, currencies []string) map[string]float64 {
	rates := make(map[string]float64, len(currencies))
	for _, c := range currencies {
		code := utils.NormalizeCurrency(c)
		if _, done := rates[code]; done || code == "" {
			continue
		}
		rate, _ := p.Rate(ctx, code)
		rates[code] = rate
	}
	return rates
}

// CachedRate returns PLN per one unit of currency without network I/O:
// the newest stored rate of any age, else the static table.
func (p *Provider) CachedRate(ctx context.Context, currency string) (float64, error) {
	code := utils.NormalizeCurrency(currency)
	if code == "" || code == domain.BaseCurrency {
		return 1.0, nil
	}

	if p.store != nil {
		cached, err := p.store.Latest(ctx, code)
		if err != nil {
			p.log.Warn().Err(err).Str("currency", code).Msg("Rate cache lookup failed")
		} else if cached != nil {
			p.log.Debug().
				Str("currency", code).
				Float64("rate", cached.Rate).
				Time("fetched_at", cached.FetchedAt).
				Str("source", "cache").
				Msg("Using cached rate")
			return cached.Rate, nil
		}
	}

	rate := FallbackRate(code)
	p.log.Debug().
		Str("currency", code).
		Float64("rate", rate).
		Str("source", "hardcoded").
		Msg("No cached rate, using fallback")
	return rate, nil
}
