package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/database"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/rs/zerolog"
)

// TransactionFilter narrows ListByUser; zero values mean "all"
type TransactionFilter struct {
	Type        domain.TransactionType
	PortfolioID int64
}

// TransactionRepository manages the transaction journal
type TransactionRepository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewTransactionRepository creates a transaction repository backed by ledger.db
func NewTransactionRepository(db *sql.DB, log zerolog.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repo", "transactions").Logger(),
	}
}

func validateTransaction(t domain.Transaction) error {
	switch {
	case !t.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, t.Type)
	case t.PortfolioID <= 0 || t.AssetID <= 0:
		return fmt.Errorf("%w: portfolio and asset are required", ErrInvalidTransaction)
	case t.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidTransaction)
	case t.Price < 0 || t.Commission < 0:
		return fmt.Errorf("%w: price and commission cannot be negative", ErrInvalidTransaction)
	case t.Date.IsZero():
		return fmt.Errorf("%w: transaction date is required", ErrInvalidTransaction)
	}
	return nil
}

const insertTransactionSQL = `
	INSERT INTO transactions (portfolio_id, asset_id, transaction_type, quantity, price,
		commission, transaction_date, notes, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Create validates and inserts one transaction
func (r *TransactionRepository) Create(ctx context.Context, t domain.Transaction) (int64, error) {
	if err := validateTransaction(t); err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, insertTransactionSQL,
		t.PortfolioID, t.AssetID, string(t.Type), t.Quantity, t.Price,
		t.Commission, formatDate(t.Date), t.Notes, r.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to create transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read transaction id: %w", err)
	}
	return id, nil
}

// CreateMany inserts all transactions or none
func (r *TransactionRepository) CreateMany(ctx context.Context, txs []domain.Transaction) (int, error) {
	for i, t := range txs {
		if err := validateTransaction(t); err != nil {
			return 0, fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	if len(txs) == 0 {
		return 0, nil
	}

	createdAt := r.now().Unix()
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertTransactionSQL)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, t := range txs {
			if _, err := stmt.ExecContext(ctx,
				t.PortfolioID, t.AssetID, string(t.Type), t.Quantity, t.Price,
				t.Commission, formatDate(t.Date), t.Notes, createdAt); err != nil {
				return fmt.Errorf("failed to insert transaction %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.log.Info().Int("count", len(txs)).Msg("Transactions imported")
	return len(txs), nil
}

const selectTransactionSQL = `
	SELECT t.id, t.portfolio_id, t.asset_id, t.transaction_type, t.quantity, t.price,
		t.commission, t.transaction_date, t.notes, t.created_at, a.symbol, a.currency
	FROM transactions t
	INNER JOIN assets a ON t.asset_id = a.id
`

func scanTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			t         domain.Transaction
			txType    string
			date      sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&t.ID, &t.PortfolioID, &t.AssetID, &txType, &t.Quantity, &t.Price,
			&t.Commission, &date, &t.Notes, &createdAt, &t.Symbol, &t.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Type = domain.TransactionType(txType)
		if d := parseDate(date); d != nil {
			t.Date = *d
		}
		t.CreatedAt = time.Unix(createdAt, 0)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// ListByPortfolio returns a portfolio's journal, newest first
func (r *TransactionRepository) ListByPortfolio(ctx context.Context, portfolioID int64) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTransactionSQL+" WHERE t.portfolio_id = ? ORDER BY t.transaction_date DESC, t.id DESC",
		portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return scanTransactions(rows)
}

// ListByUser returns the journals of all of a user's portfolios, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, filter TransactionFilter) ([]domain.Transaction, error) {
	query := selectTransactionSQL + " INNER JOIN portfolios p ON t.portfolio_id = p.id WHERE p.user_id = ?"
	args := []interface{}{userID}

	if filter.PortfolioID > 0 {
		query += " AND t.portfolio_id = ?"
		args = append(args, filter.PortfolioID)
	}
	if filter.Type != "" {
		query += " AND t.transaction_type = ?"
		args = append(args, string(filter.Type))
	}
	query += " ORDER BY t.transaction_date DESC, t.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return scanTransactions(rows)
}

// Delete removes a transaction owned by userID
func (r *TransactionRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM transactions
		WHERE id = ? AND portfolio_id IN (SELECT id FROM portfolios WHERE user_id = ?)
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Count returns the number of transactions in a portfolio
func (r *TransactionRepository) Count(ctx context.Context, portfolioID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE portfolio_id = ?", portfolioID,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}
