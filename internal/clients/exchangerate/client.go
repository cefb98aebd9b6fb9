// Package exchangerate fetches PLN mid rates from the NBP public API (table A).
package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the NBP API host
const DefaultBaseURL = "https://api.nbp.pl"

// ErrNoRate is returned when the API answers without a usable mid rate
var ErrNoRate = errors.New("no rate in NBP response")

// Client for api.nbp.pl
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new NBP client. An empty baseURL selects the public API.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("client", "nbp").Logger(),
	}
}

type ratesResponse struct {
	Table    string `json:"table"`
	Currency string `json:"currency"`
	Code     string `json:"code"`
	Rates    []struct {
		No            string  `json:"no"`
		EffectiveDate string  `json:"effectiveDate"`
		Mid           float64 `json:"mid"`
	} `json:"rates"`
}

// GetMidRate returns the latest table A mid rate (PLN per unit) for code.
func (c *Client) GetMidRate(ctx context.Context, code string) (float64, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return 0, fmt.Errorf("currency code is empty")
	}

	url := fmt.Sprintf("%s/api/exchangerates/rates/a/%s/?format=json", c.baseURL, code)
	c.log.Debug().Str("url", url).Msg("Fetching rate")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("NBP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("NBP returned status %d for %s", resp.StatusCode, strings.ToUpper(code))
	}

	var result ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to parse NBP response: %w", err)
	}

	if len(result.Rates) == 0 || result.Rates[0].Mid <= 0 {
		return 0, fmt.Errorf("%w for %s", ErrNoRate, strings.ToUpper(code))
	}

	rate := result.Rates[0].Mid
	c.log.Info().
		Str("currency", strings.ToUpper(code)).
		Str("effective_date", result.Rates[0].EffectiveDate).
		Float64("rate", rate).
		Msg("Fetched rate")

	return rate, nil
}
