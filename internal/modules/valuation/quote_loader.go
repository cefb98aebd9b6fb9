package valuation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Mode selects how quotes are gathered before valuation
type Mode string

const (
	// ModeCacheOnly reads cached quotes of any age and never touches the network
	ModeCacheOnly Mode = "cache"
	// ModeLive serves fresh cache rows and fetches the rest
	ModeLive Mode = "live"
)

// ParseMode maps "cache" or "live" to a Mode. Empty input returns def.
func ParseMode(s string, def Mode) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case string(ModeCacheOnly):
		return ModeCacheOnly, nil
	case string(ModeLive):
		return ModeLive, nil
	}
	return "", fmt.Errorf("unknown valuation mode %q", s)
}

const (
	defaultFetchConcurrency = 4
	defaultFetchTimeout     = 10 * time.Second
)

// QuoteLoader builds the quote snapshot passed to Engine.Value
type QuoteLoader struct {
	cache       domain.PriceCache
	fetcher     domain.QuoteFetcher
	concurrency int
	timeout     time.Duration
	log         zerolog.Logger
}

// NewQuoteLoader creates a loader. Non-positive concurrency or timeout
// select the defaults (4 workers, 10s per fetch).
func NewQuoteLoader(cache domain.PriceCache, fetcher domain.QuoteFetcher, concurrency int, timeout time.Duration, log zerolog.Logger) *QuoteLoader {
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &QuoteLoader{
		cache:       cache,
		fetcher:     fetcher,
		concurrency: concurrency,
		timeout:     timeout,
		log:         log.With().Str("service", "quote_loader").Logger(),
	}
}

// Load returns quotes keyed by symbol. Symbols without a price are absent.
func (l *QuoteLoader) Load(ctx context.Context, symbols []string, mode Mode) map[string]*domain.PriceQuote {
	symbols = uniqueSymbols(symbols)
	quotes := make(map[string]*domain.PriceQuote, len(symbols))
	if len(symbols) == 0 {
		return quotes
	}

	if mode != ModeLive {
		for _, symbol := range symbols {
			if q := l.readCache(ctx, symbol, false); q != nil {
				quotes[symbol] = q
			}
		}
		return quotes
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			q := l.loadLive(gctx, symbol)
			if q == nil {
				return nil
			}
			mu.Lock()
			quotes[symbol] = q
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; a failed symbol is just absent
	_ = g.Wait()

	l.log.Debug().
		Int("requested", len(symbols)).
		Int("resolved", len(quotes)).
		Msg("Live quotes loaded")

	return quotes
}

// HoldingSymbols lists quote symbols of the holdings that use quotes
func HoldingSymbols(holdings []domain.Holding) []string {
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if h.AssetType.IsBond() || h.QuoteSymbol == "" || h.NetQuantity() <= 0 {
			continue
		}
		symbols = append(symbols, h.QuoteSymbol)
	}
	return uniqueSymbols(symbols)
}

func (l *QuoteLoader) loadLive(ctx context.Context, symbol string) *domain.PriceQuote {
	if q := l.readCache(ctx, symbol, true); q != nil {
		return q
	}
	if l.fetcher == nil {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	q, err := l.fetcher.FetchQuote(fetchCtx, symbol)
	if err != nil || q == nil {
		l.log.Warn().Err(err).Str("symbol", symbol).Msg("Live quote unavailable")
		return nil
	}

	q.Symbol = symbol
	q.FromCache = false
	if l.cache != nil {
		// Cache writes must outlive a cancelled request
		if err := l.cache.Write(context.WithoutCancel(ctx), q); err != nil {
			l.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache quote")
		}
	}
	return q
}

func (l *QuoteLoader) readCache(ctx context.Context, symbol string, freshOnly bool) *domain.PriceQuote {
	if l.cache == nil {
		return nil
	}
	q, err := l.cache.Read(ctx, symbol, freshOnly)
	if err != nil {
		l.log.Warn().Err(err).Str("symbol", symbol).Msg("Price cache read failed")
		return nil
	}
	return q
}

func uniqueSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
