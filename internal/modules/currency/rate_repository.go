// Package currency converts instrument currencies into PLN.
package currency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/rs/zerolog"
)

// RateRepository persists fetched rates in currency_cache (append-only)
type RateRepository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewRateRepository creates a rate repository backed by cache.db
func NewRateRepository(db *sql.DB, log zerolog.Logger) *RateRepository {
	return &RateRepository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repo", "currency_cache").Logger(),
	}
}

// LatestWithin returns the most recent rate for currency fetched within
// maxAge, or nil, nil when there is none.
func (r *RateRepository) LatestWithin(ctx context.Context, currency string, maxAge time.Duration) (*domain.ExchangeRate, error) {
	return r.latestSince(ctx, currency, r.now().Add(-maxAge).Unix())
}

// Latest returns the most recent rate for currency regardless of age,
// or nil, nil when none was ever stored.
func (r *RateRepository) Latest(ctx context.Context, currency string) (*domain.ExchangeRate, error) {
	return r.latestSince(ctx, currency, 0)
}

func (r *RateRepository) latestSince(ctx context.Context, currency string, cutoff int64) (*domain.ExchangeRate, error) {
	var (
		er        domain.ExchangeRate
		fetchedAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT currency, rate, fetched_at
		FROM currency_cache
		WHERE currency = ? AND fetched_at >= ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, currency, cutoff).Scan(&er.Currency, &er.Rate, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached rate for %s: %w", currency, err)
	}

	er.FetchedAt = time.Unix(fetchedAt, 0)
	return &er, nil
}

// Insert appends a freshly fetched rate
func (r *RateRepository) Insert(ctx context.Context, currency string, rate float64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO currency_cache (currency, rate, fetched_at) VALUES (?, ?, ?)",
		currency, rate, r.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache rate for %s: %w", currency, err)
	}

	r.log.Debug().Str("currency", currency).Float64("rate", rate).Msg("Cached exchange rate")
	return nil
}

// DeleteStaleRates removes rates fetched before olderThan
func (r *RateRepository) DeleteStaleRates(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM currency_cache WHERE fetched_at < ?", olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale rates: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		r.log.Info().
			Int64("rows_deleted", rowsAffected).
			Time("older_than", olderThan).
			Msg("Deleted stale exchange rates")
	}

	return rowsAffected, nil
}
