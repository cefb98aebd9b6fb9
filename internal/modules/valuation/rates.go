package valuation

import (
	"context"
	"sync"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
)

// RateSource resolves exchange rates for both quote modes.
// CachedRate must not perform network I/O.
type RateSource interface {
	domain.RateProvider
	CachedRate(ctx context.Context, currency string) (float64, error)
}

// rateFunc adapts a lookup function to domain.RateProvider
type rateFunc func(ctx context.Context, currency string) (float64, error)

func (f rateFunc) Rate(ctx context.Context, currency string) (float64, error) {
	return f(ctx, currency)
}

type rateResult struct {
	rate float64
	err  error
}

// rateMemo asks the wrapped provider at most once per currency.
// Failures are remembered too.
type rateMemo struct {
	next domain.RateProvider

	mu    sync.Mutex
	rates map[string]rateResult
}

func newRateMemo(next domain.RateProvider) *rateMemo {
	if m, ok := next.(*rateMemo); ok {
		return m
	}
	return &rateMemo{next: next, rates: make(map[string]rateResult)}
}

func (m *rateMemo) Rate(ctx context.Context, currency string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.rates[currency]; ok {
		return r.rate, r.err
	}
	rate, err := m.next.Rate(ctx, currency)
	m.rates[currency] = rateResult{rate: rate, err: err}
	return rate, err
}
