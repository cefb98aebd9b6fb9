package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// QuoteWarmer live-loads quotes for all open positions
type QuoteWarmer interface {
	WarmQuotes(ctx context.Context) (int, error)
}

// RefreshPricesJob keeps the price cache warm so cache-mode pages stay current
type RefreshPricesJob struct {
	log     zerolog.Logger
	warmer  QuoteWarmer
	timeout time.Duration
}

// NewRefreshPricesJob creates a new RefreshPricesJob
func NewRefreshPricesJob(warmer QuoteWarmer, timeout time.Duration) *RefreshPricesJob {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &RefreshPricesJob{
		log:     zerolog.Nop(),
		warmer:  warmer,
		timeout: timeout,
	}
}

// SetLogger sets the logger for the job
func (j *RefreshPricesJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *RefreshPricesJob) Name() string {
	return "refresh_prices"
}

// Run executes the refresh prices job
func (j *RefreshPricesJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.warmer.WarmQuotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm quotes: %w", err)
	}

	j.log.Info().Int("quotes", n).Msg("Price cache refreshed")
	return nil
}
