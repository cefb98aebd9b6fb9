package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
)

type MockRateStore struct {
	mock.Mock
}

func (m *MockRateStore) LatestWithin(ctx context.Context, currency string, maxAge time.Duration) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, currency, maxAge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateStore) Latest(ctx context.Context, currency string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateStore) Insert(ctx context.Context, currency string, rate float64) error {
	args := m.Called(ctx, currency, rate)
	return args.Error(0)
}

type MockRateFetcher struct {
	mock.Mock
}

func (m *MockRateFetcher) GetMidRate(ctx context.Context, code string) (float64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(float64), args.Error(1)
}

func TestRate_PLNIsAlwaysOne(t *testing.T) {
	store := new(MockRateStore)
	fetcher := new(MockRateFetcher)
	p := NewProvider(store, fetcher, 0, zerolog.Nop())

	for _, code := range []string{"PLN", "pln", " PLN "} {
		rate, err := p.Rate(context.Background(), code)
		require.NoError(t, err)
		assert.Equal(t, 1.0, rate)
	}

	store.AssertNotCalled(t, "LatestWithin", mock.Anything, mock.Anything, mock.Anything)
	fetcher.AssertNotCalled(t, "GetMidRate", mock.Anything, mock.Anything)
}

func TestRate_CacheHit(t *testing.T) {
	store := new(MockRateStore)
	fetcher := new(MockRateFetcher)
	store.On("LatestWithin", mock.Anything, "USD", 24*time.Hour).
		Return(&domain.ExchangeRate{Currency: "USD", Rate: 3.97}, nil)

	p := NewProvider(store, fetcher, 0, zerolog.Nop())
	rate, err := p.Rate(context.Background(), "usd")
	require.NoError(t, err)

	assert.Equal(t, 3.97, rate)
	fetcher.AssertNotCalled(t, "GetMidRate", mock.Anything, mock.Anything)
}

func TestRate_CacheMissFetchesAndStores(t *testing.T) {
	store := new(MockRateStore)
	fetcher := new(MockRateFetcher)
	store.On("LatestWithin", mock.Anything, "EUR", 24*time.Hour).Return(nil, nil)
	fetcher.On("GetMidRate", mock.Anything, "EUR").Return(4.28, nil)
	store.On("Insert", mock.Anything, "EUR", 4.28).Return(nil)

	p := NewProvider(store, fetcher, 0, zerolog.Nop())
	rate, err := p.Rate(context.Background(), "EUR")
	require.NoError(t, err)

	assert.Equal(t, 4.28, rate)
	store.AssertExpectations(t)
	fetcher.AssertExpectations(t)
}

func TestRate_StoreWriteFailureStillReturnsRate(t *testing.T) {
	store := new(MockRateStore)
	fetcher := new(MockRateFetcher)
	store.On("LatestWithin", mock.Anything, "CHF", mock.Anything).Return(nil, nil)
	fetcher.On("GetMidRate", mock.Anything, "CHF").Return(4.55, nil)
	store.On("Insert", mock.Anything, "CHF", 4.55).Return(errors.New("disk full"))

	p := NewProvider(store, fetcher, 0, zerolog.Nop())
	rate, err := p.Rate(context.Background(), "CHF")
	require.NoError(t, err)
	assert.Equal(t, 4.55, rate)
}

func TestRate_FallbackTable(t *testing.T) {
	tests := []struct {
		currency string
		expected float64
	}{
		{"USD", 4.0},
		{"EUR", 4.3},
		{"GBP", 5.0},
		{"CHF", 4.6},
		{"CZK", 0.17},
		{"SEK", 0.38},
		{"NOK", 0.37},
		{"DKK", 0.58},
		{"JPY", 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			store := new(MockRateStore)
			fetcher := new(MockRateFetcher)
			store.On("LatestWithin", mock.Anything, tt.currency, mock.Anything).
				Return(nil, errors.New("database is locked"))
			fetcher.On("GetMidRate", mock.Anything, tt.currency).
				Return(0.0, errors.New("connection refused"))

			p := NewProvider(store, fetcher, 0, zerolog.Nop())
			rate, err := p.Rate(context.Background(), tt.currency)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, rate)
			store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRate_NilCollaboratorsUseFallback(t *testing.T) {
	p := NewProvider(nil, nil, time.Hour, zerolog.Nop())

	rate, err := p.Rate(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, 4.3, rate)
}

func TestRates_Batch(t *testing.T) {
	store := new(MockRateStore)
	store.On("LatestWithin", mock.Anything, "USD", mock.Anything).
		Return(&domain.ExchangeRate{Currency: "USD", Rate: 3.9}, nil).Once()
	store.On("LatestWithin", mock.Anything, "EUR", mock.Anything).
		Return(&domain.ExchangeRate{Currency: "EUR", Rate: 4.2}, nil).Once()

	p := NewProvider(store, nil, 0, zerolog.Nop())
	rates := p.Rates(context.Background(), []string{"usd", "EUR", "USD", "PLN", ""})

	assert.Equal(t, map[string]float64{"USD": 3.9, "EUR": 4.2, "PLN": 1.0}, rates)
	store.AssertExpectations(t)
}

func TestCachedRate_UsesStoredRateOfAnyAge(t *testing.T) {
	store := new(MockRateStore)
	fetcher := new(MockRateFetcher)
	store.On("Latest", mock.Anything, "USD").
		Return(&domain.ExchangeRate{Currency: "USD", Rate: 3.7, FetchedAt: time.Now().Add(-72 * time.Hour)}, nil).Once()

	p := NewProvider(store, fetcher, 0, zerolog.Nop())
	rate, err := p.CachedRate(context.Background(), "usd")

	require.NoError(t, err)
	assert.Equal(t, 3.7, rate)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "LatestWithin", mock.Anything, mock.Anything, mock.Anything)
	fetcher.AssertNotCalled(t, "GetMidRate", mock.Anything, mock.Anything)
}

func TestCachedRate_MissFallsBackWithoutFetching(t *testing.T) {
	store := new(MockRateStore)
	fetcher := new(MockRateFetcher)
	store.On("Latest", mock.Anything, "EUR").Return(nil, nil).Once()
	store.On("Latest", mock.Anything, "GBP").Return(nil, errors.New("db locked")).Once()

	p := NewProvider(store, fetcher, 0, zerolog.Nop())

	eur, err := p.CachedRate(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, FallbackRate("EUR"), eur)

	gbp, err := p.CachedRate(context.Background(), "GBP")
	require.NoError(t, err)
	assert.Equal(t, FallbackRate("GBP"), gbp)

	pln, err := p.CachedRate(context.Background(), "PLN")
	require.NoError(t, err)
	assert.Equal(t, 1.0, pln)

	store.AssertExpectations(t)
	fetcher.AssertNotCalled(t, "GetMidRate", mock.Anything, mock.Anything)
}
