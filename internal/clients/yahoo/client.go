// Package yahoo fetches daily quotes from the Yahoo Finance v8 chart endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public chart API host
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// The chart endpoint rejects requests without a browser-like agent
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// ErrNoPrice is returned when the response carries no usable market price
var ErrNoPrice = errors.New("no market price in chart response")

// Client is a Yahoo Finance chart API client
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
	now     func() time.Time
}

// NewClient creates a new Yahoo Finance client. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("client", "yahoo").Logger(),
		now:     time.Now,
	}
}

// FetchQuote fetches the current daily quote for a Yahoo symbol.
// Any failure returns a nil quote and an error; callers treat both as a miss.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is empty")
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request for %s returned status %d", symbol, resp.StatusCode)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to parse chart response for %s: %w", symbol, err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNoPrice, chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: empty result for %s", ErrNoPrice, symbol)
	}

	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice == nil {
		return nil, fmt.Errorf("%w: regularMarketPrice missing for %s", ErrNoPrice, symbol)
	}

	quote := buildQuote(symbol, meta, c.now())

	c.log.Debug().
		Str("symbol", symbol).
		Float64("price", quote.Price).
		Float64("change_percent", quote.ChangePercent).
		Str("currency", quote.Currency).
		Msg("Fetched quote")

	return quote, nil
}

func buildQuote(symbol string, meta chartMeta, fetchedAt time.Time) *domain.PriceQuote {
	price := *meta.RegularMarketPrice
	prev := meta.previousClose()

	var change, changePct float64
	if prev > 0 {
		change = price - prev
		changePct = change / prev * 100
	}

	currency := meta.Currency
	if currency == "" {
		currency = "USD"
	}

	return &domain.PriceQuote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: prev,
		Change:        change,
		ChangePercent: changePct,
		Currency:      currency,
		FetchedAt:     fetchedAt,
	}
}
