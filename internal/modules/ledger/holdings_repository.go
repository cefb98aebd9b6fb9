package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/rs/zerolog"
)

// HoldingsRepository aggregates the journal into per-asset holdings
type HoldingsRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHoldingsRepository creates a holdings aggregator backed by ledger.db
func NewHoldingsRepository(db *sql.DB, log zerolog.Logger) *HoldingsRepository {
	return &HoldingsRepository{
		db:  db,
		log: log.With().Str("repo", "holdings").Logger(),
	}
}

// Bond columns are selected bare: bonds.asset_id is unique, so every row in
// an asset group carries the same values.
const holdingsSelectSQL = `
	SELECT
		a.id, a.symbol, a.name, a.asset_type, a.currency, a.yahoo_symbol,
		SUM(CASE WHEN t.transaction_type = 'buy' THEN t.quantity ELSE 0 END),
		SUM(CASE WHEN t.transaction_type = 'sell' THEN t.quantity ELSE 0 END),
		SUM(CASE WHEN t.transaction_type = 'buy' THEN t.quantity * t.price ELSE 0 END),
		SUM(CASE WHEN t.transaction_type = 'sell' THEN t.quantity * t.price ELSE 0 END),
		SUM(t.commission),
		COUNT(*),
		MIN(CASE WHEN t.transaction_type = 'buy' THEN t.transaction_date END),
		b.bond_type, b.issue_date, b.maturity_date, b.first_year_rate, b.interest_rate,
		b.interest_margin, b.rate_base, b.interest_frequency, b.nominal_value
	FROM transactions t
	INNER JOIN assets a ON t.asset_id = a.id
	LEFT JOIN bonds b ON b.asset_id = a.id
`

const holdingsGroupSQL = `
	GROUP BY a.id
	HAVING SUM(CASE
		WHEN t.transaction_type = 'buy' THEN t.quantity
		WHEN t.transaction_type = 'sell' THEN -t.quantity
		ELSE 0 END) > 0
	ORDER BY a.symbol
`

// SummaryByPortfolio returns open holdings of one portfolio
func (r *HoldingsRepository) SummaryByPortfolio(ctx context.Context, portfolioID int64) ([]domain.Holding, error) {
	rows, err := r.db.QueryContext(ctx,
		holdingsSelectSQL+" WHERE t.portfolio_id = ?"+holdingsGroupSQL, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate holdings for portfolio %d: %w", portfolioID, err)
	}
	return scanHoldings(rows)
}

// SummaryByUser returns open holdings across all of a user's portfolios.
// The same asset in two portfolios is merged into one holding.
func (r *HoldingsRepository) SummaryByUser(ctx context.Context, userID int64) ([]domain.Holding, error) {
	rows, err := r.db.QueryContext(ctx,
		holdingsSelectSQL+" INNER JOIN portfolios p ON t.portfolio_id = p.id WHERE p.user_id = ?"+holdingsGroupSQL,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate holdings for user %d: %w", userID, err)
	}
	return scanHoldings(rows)
}

func scanHoldings(rows *sql.Rows) ([]domain.Holding, error) {
	defer rows.Close()

	holdings := make([]domain.Holding, 0)
	for rows.Next() {
		var (
			h          domain.Holding
			assetType  string
			firstBuy   sql.NullString
			bondType   sql.NullString
			issueDate  sql.NullString
			maturity   sql.NullString
			firstYear  sql.NullFloat64
			rate       sql.NullFloat64
			margin     sql.NullFloat64
			rateBase   sql.NullString
			frequency  sql.NullString
			nominalVal sql.NullFloat64
		)

		if err := rows.Scan(
			&h.AssetID, &h.Symbol, &h.Name, &assetType, &h.Currency, &h.QuoteSymbol,
			&h.TotalBought, &h.TotalSold, &h.TotalCost, &h.TotalRevenue, &h.TotalCommission,
			&h.TransactionCount, &firstBuy,
			&bondType, &issueDate, &maturity, &firstYear, &rate, &margin, &rateBase, &frequency, &nominalVal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}

		h.AssetType = domain.AssetType(assetType)
		h.FirstPurchaseDate = parseDate(firstBuy)
		if bondType.Valid {
			h.Bond = &domain.BondTerms{
				BondType:          bondType.String,
				IssueDate:         parseDate(issueDate),
				MaturityDate:      parseDate(maturity),
				FirstYearRate:     nullableFloat(firstYear),
				InterestRate:      nullableFloat(rate),
				InterestMargin:    nullableFloat(margin),
				RateBase:          rateBase.String,
				InterestFrequency: frequency.String,
				NominalValue:      nominalVal.Float64,
			}
		}

		holdings = append(holdings, h)
	}

	return holdings, rows.Err()
}

// QuoteSymbols lists distinct quote symbols of open, quotable positions
// across every portfolio.
func (r *HoldingsRepository) QuoteSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT yahoo_symbol FROM (
			SELECT a.yahoo_symbol
			FROM transactions t
			INNER JOIN assets a ON t.asset_id = a.id
			WHERE a.yahoo_symbol <> '' AND a.asset_type <> 'bond'
			GROUP BY t.portfolio_id, a.id
			HAVING SUM(CASE
				WHEN t.transaction_type = 'buy' THEN t.quantity
				WHEN t.transaction_type = 'sell' THEN -t.quantity
				ELSE 0 END) > 0
		)
		ORDER BY yahoo_symbol
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quote symbols: %w", err)
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan quote symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

const statsSelectSQL = `
	SELECT
		COUNT(DISTINCT t.asset_id),
		COUNT(*),
		COALESCE(SUM(CASE WHEN t.transaction_type = 'buy' THEN t.quantity * t.price + t.commission ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN t.transaction_type = 'sell' THEN t.quantity * t.price - t.commission ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN t.transaction_type = 'dividend' THEN t.quantity * t.price ELSE 0 END), 0),
		MIN(t.transaction_date),
		MAX(t.transaction_date)
	FROM transactions t
`

// StatsByPortfolio summarises one portfolio's journal
func (r *HoldingsRepository) StatsByPortfolio(ctx context.Context, portfolioID int64) (*domain.PortfolioStats, error) {
	row := r.db.QueryRowContext(ctx, statsSelectSQL+" WHERE t.portfolio_id = ?", portfolioID)
	stats, err := scanStats(row)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats for portfolio %d: %w", portfolioID, err)
	}
	return stats, nil
}

// StatsByUser summarises the journals of all of a user's portfolios
func (r *HoldingsRepository) StatsByUser(ctx context.Context, userID int64) (*domain.PortfolioStats, error) {
	row := r.db.QueryRowContext(ctx,
		statsSelectSQL+" INNER JOIN portfolios p ON t.portfolio_id = p.id WHERE p.user_id = ?", userID)
	stats, err := scanStats(row)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats for user %d: %w", userID, err)
	}
	return stats, nil
}

func scanStats(row *sql.Row) (*domain.PortfolioStats, error) {
	var (
		s           domain.PortfolioStats
		first, last sql.NullString
	)
	if err := row.Scan(&s.UniqueAssets, &s.TotalTransactions, &s.TotalInvested,
		&s.TotalWithdrawn, &s.TotalDividends, &first, &last); err != nil {
		return nil, err
	}
	s.FirstTransaction = parseDate(first)
	s.LastTransaction = parseDate(last)
	return &s, nil
}
