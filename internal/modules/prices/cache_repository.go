// Package prices provides the persistent quote cache (one row per symbol).
package prices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/database"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/rs/zerolog"
)

// CacheRepository reads and writes price_cache in cache.db
type CacheRepository struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger
}

// NewCacheRepository creates a price cache. A non-positive ttl selects DefaultTTL.
func NewCacheRepository(db *sql.DB, ttl time.Duration, log zerolog.Logger) *CacheRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CacheRepository{
		db:  db,
		ttl: ttl,
		now: time.Now,
		log: log.With().Str("repo", "price_cache").Logger(),
	}
}

// TTL returns the freshness window
func (r *CacheRepository) TTL() time.Duration {
	return r.ttl
}

// Read returns the cached quote for symbol, or nil, nil on a miss.
// With freshOnly set, a row older than the TTL is a miss.
func (r *CacheRepository) Read(ctx context.Context, symbol string, freshOnly bool) (*domain.PriceQuote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, nil
	}

	var (
		q         domain.PriceQuote
		fetchedAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT symbol, price, currency, change_amount, change_percent, previous_close, fetched_at
		FROM price_cache
		WHERE symbol = ?
	`, symbol).Scan(&q.Symbol, &q.Price, &q.Currency, &q.Change, &q.ChangePercent, &q.PreviousClose, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached price for %s: %w", symbol, err)
	}

	q.FetchedAt = time.Unix(fetchedAt, 0)
	q.FromCache = true

	if freshOnly && r.now().Sub(q.FetchedAt) > r.ttl {
		return nil, nil
	}

	return &q, nil
}

// Write stores quote as the only row for its symbol
func (r *CacheRepository) Write(ctx context.Context, quote *domain.PriceQuote) error {
	if quote == nil || strings.TrimSpace(quote.Symbol) == "" {
		return fmt.Errorf("cannot cache quote without symbol")
	}

	fetchedAt := quote.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = r.now()
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO price_cache (symbol, price, currency, change_amount, change_percent, previous_close, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(symbol) DO UPDATE SET
				price = excluded.price,
				currency = excluded.currency,
				change_amount = excluded.change_amount,
				change_percent = excluded.change_percent,
				previous_close = excluded.previous_close,
				fetched_at = excluded.fetched_at
		`, strings.TrimSpace(quote.Symbol), quote.Price, quote.Currency, quote.Change,
			quote.ChangePercent, quote.PreviousClose, fetchedAt.Unix())
		if err != nil {
			return fmt.Errorf("failed to cache price for %s: %w", quote.Symbol, err)
		}
		return nil
	})
}

// Clear removes every cached quote and returns the number of rows deleted
func (r *CacheRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM price_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear price cache: %w", err)
	}

	deleted, _ := result.RowsAffected()
	r.log.Info().Int64("deleted", deleted).Msg("Price cache cleared")
	return deleted, nil
}

// DeleteOlderThan removes quotes fetched before cutoff
func (r *CacheRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM price_cache WHERE fetched_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale prices: %w", err)
	}

	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		r.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("Deleted stale cached prices")
	}
	return deleted, nil
}
