package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/database"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/modules/bonds"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/utils"
	"github.com/rs/zerolog"
)

// AssetRepository manages assets and their bond terms
type AssetRepository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewAssetRepository creates an asset repository backed by ledger.db
func NewAssetRepository(db *sql.DB, log zerolog.Logger) *AssetRepository {
	return &AssetRepository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repo", "assets").Logger(),
	}
}

func validateAsset(a *domain.Asset) error {
	a.Symbol = strings.TrimSpace(a.Symbol)
	a.QuoteSymbol = strings.TrimSpace(a.QuoteSymbol)
	a.Currency = utils.NormalizeCurrency(a.Currency)
	if a.Currency == "" {
		a.Currency = domain.BaseCurrency
	}
	if a.Name == "" {
		a.Name = a.Symbol
	}

	switch {
	case a.Symbol == "":
		return fmt.Errorf("%w: symbol is required", ErrInvalidAsset)
	case !a.AssetType.Valid():
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidAsset, a.AssetType)
	case a.AssetType.IsBond() && a.Bond == nil:
		return fmt.Errorf("%w: bond %s needs bond terms", ErrInvalidAsset, a.Symbol)
	case !a.AssetType.IsBond() && a.Bond != nil:
		return fmt.Errorf("%w: only bonds carry bond terms", ErrInvalidAsset)
	case a.Bond != nil && !bonds.IsKnownType(a.Bond.BondType):
		return fmt.Errorf("%w: unknown bond series %q", ErrInvalidAsset, a.Bond.BondType)
	}
	return nil
}

// Create inserts an asset, and its bond terms when present, atomically
func (r *AssetRepository) Create(ctx context.Context, a domain.Asset) (int64, error) {
	if err := validateAsset(&a); err != nil {
		return 0, err
	}

	var id int64
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO assets (symbol, name, asset_type, currency, yahoo_symbol, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.Symbol, a.Name, string(a.AssetType), a.Currency, a.QuoteSymbol, r.now().Unix())
		if err != nil {
			return fmt.Errorf("failed to insert asset %s: %w", a.Symbol, err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read asset id: %w", err)
		}

		if a.Bond == nil {
			return nil
		}
		return insertBondTerms(ctx, tx, id, *a.Bond)
	})
	if err != nil {
		return 0, err
	}

	r.log.Info().Int64("asset_id", id).Str("symbol", a.Symbol).Str("type", string(a.AssetType)).Msg("Asset created")
	return id, nil
}

func insertBondTerms(ctx context.Context, tx *sql.Tx, assetID int64, terms domain.BondTerms) error {
	if terms.MaturityDate == nil && terms.IssueDate != nil {
		if m, ok := bonds.MaturityFor(terms.BondType, *terms.IssueDate); ok {
			terms.MaturityDate = &m
		}
	}
	if terms.NominalValue <= 0 {
		terms.NominalValue = bonds.NominalValue
	}
	if terms.InterestFrequency == "" {
		terms.InterestFrequency = "monthly"
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO bonds (asset_id, bond_type, issue_date, maturity_date, first_year_rate,
			interest_rate, interest_margin, rate_base, interest_frequency, nominal_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, assetID, terms.BondType, formatNullableDate(terms.IssueDate), formatNullableDate(terms.MaturityDate),
		floatArg(terms.FirstYearRate), floatArg(terms.InterestRate), floatArg(terms.InterestMargin),
		terms.RateBase, terms.InterestFrequency, terms.NominalValue)
	if err != nil {
		return fmt.Errorf("failed to insert bond terms: %w", err)
	}
	return nil
}

// GetBySymbol returns an asset with its bond terms, or ErrAssetNotFound
func (r *AssetRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	var (
		a          domain.Asset
		assetType  string
		createdAt  int64
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

	err := r.db.QueryRowContext(ctx, `
		SELECT a.id, a.symbol, a.name, a.asset_type, a.currency, a.yahoo_symbol, a.created_at,
			b.bond_type, b.issue_date, b.maturity_date, b.first_year_rate, b.interest_rate,
			b.interest_margin, b.rate_base, b.interest_frequency, b.nominal_value
		FROM assets a
		LEFT JOIN bonds b ON b.asset_id = a.id
		WHERE a.symbol = ?
	`, strings.TrimSpace(symbol)).Scan(
		&a.ID, &a.Symbol, &a.Name, &assetType, &a.Currency, &a.QuoteSymbol, &createdAt,
		&bondType, &issueDate, &maturity, &firstYear, &rate, &margin, &rateBase, &frequency, &nominalVal,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", symbol, err)
	}

	a.AssetType = domain.AssetType(assetType)
	a.CreatedAt = time.Unix(createdAt, 0)
	if bondType.Valid {
		a.Bond = &domain.BondTerms{
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

	return &a, nil
}
