package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/rs/zerolog"
)

// PortfolioRepository manages the portfolios table
type PortfolioRepository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewPortfolioRepository creates a portfolio repository backed by ledger.db
func NewPortfolioRepository(db *sql.DB, log zerolog.Logger) *PortfolioRepository {
	return &PortfolioRepository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repo", "portfolios").Logger(),
	}
}

// Create inserts a portfolio and returns its id
func (r *PortfolioRepository) Create(ctx context.Context, p domain.Portfolio) (int64, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return 0, fmt.Errorf("portfolio name is required")
	}
	if p.UserID <= 0 {
		return 0, fmt.Errorf("portfolio user id is required")
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO portfolios (user_id, name, description, created_at) VALUES (?, ?, ?, ?)",
		p.UserID, name, p.Description, r.now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create portfolio: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read portfolio id: %w", err)
	}

	r.log.Info().Int64("portfolio_id", id).Int64("user_id", p.UserID).Msg("Portfolio created")
	return id, nil
}

// GetByID returns a portfolio or ErrPortfolioNotFound
func (r *PortfolioRepository) GetByID(ctx context.Context, id int64) (*domain.Portfolio, error) {
	var (
		p         domain.Portfolio
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, description, created_at FROM portfolios WHERE id = ?", id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPortfolioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio %d: %w", id, err)
	}

	p.CreatedAt = time.Unix(createdAt, 0)
	return &p, nil
}

// ListByUser returns a user's portfolios ordered by name
func (r *PortfolioRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Portfolio, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, created_at
		FROM portfolios
		WHERE user_id = ?
		ORDER BY name, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := make([]domain.Portfolio, 0)
	for rows.Next() {
		var (
			p         domain.Portfolio
			createdAt int64
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0)
		portfolios = append(portfolios, p)
	}

	return portfolios, rows.Err()
}

// BelongsToUser reports whether portfolioID is owned by userID
func (r *PortfolioRepository) BelongsToUser(ctx context.Context, portfolioID, userID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM portfolios WHERE id = ? AND user_id = ?", portfolioID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check portfolio ownership: %w", err)
	}
	return count > 0, nil
}
