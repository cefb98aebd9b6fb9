// Package domain provides the core models shared by the tracker's modules.
package domain

import "time"

// BaseCurrency is the reporting currency; every summary is expressed in it.
const BaseCurrency = "PLN"

// AssetType represents the kind of instrument held
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeETF    AssetType = "etf"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeBond   AssetType = "bond"
)

// IsBond reports whether the instrument is valued by accrual instead of quotes
func (t AssetType) IsBond() bool {
	return t == AssetTypeBond
}

// Valid reports whether t is one of the known asset types
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeStock, AssetTypeETF, AssetTypeCrypto, AssetTypeBond:
		return true
	}
	return false
}

// TransactionType represents a journal entry kind
type TransactionType string

const (
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
	TransactionDividend TransactionType = "dividend"
)

// Valid reports whether t is buy, sell or dividend
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionDividend:
		return true
	}
	return false
}

// PriceSource tags where a holding's current price came from
type PriceSource string

const (
	PriceSourceAPI           PriceSource = "api"
	PriceSourceCache         PriceSource = "cache"
	PriceSourceOldCache      PriceSource = "old_cache"
	PriceSourcePurchasePrice PriceSource = "purchase_price"
	PriceSourceBondAccrued   PriceSource = "bond_accrued"
)

// Portfolio is a named container of transactions owned by a user
type Portfolio struct {
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
}

// Asset is a tradable instrument
type Asset struct {
	CreatedAt   time.Time  `json:"created_at"`
	Bond        *BondTerms `json:"bond,omitempty"`
	Symbol      string     `json:"symbol"`
	Name        string     `json:"name"`
	AssetType   AssetType  `json:"asset_type"`
	Currency    string     `json:"currency"`
	QuoteSymbol string     `json:"quote_symbol,omitempty"`
	ID          int64      `json:"id"`
}

// BondTerms holds the coupon metadata of a treasury bond.
// Rates are percentages (5.0 means 5%).
type BondTerms struct {
	IssueDate         *time.Time `json:"issue_date,omitempty"`
	MaturityDate      *time.Time `json:"maturity_date,omitempty"`
	FirstYearRate     *float64   `json:"first_year_rate,omitempty"`
	InterestRate      *float64   `json:"interest_rate,omitempty"`
	InterestMargin    *float64   `json:"interest_margin,omitempty"`
	BondType          string     `json:"bond_type"`
	RateBase          string     `json:"rate_base,omitempty"`
	InterestFrequency string     `json:"interest_frequency,omitempty"`
	NominalValue      float64    `json:"nominal_value"`
}

// Transaction is a single journal entry
type Transaction struct {
	Date        time.Time       `json:"transaction_date"`
	CreatedAt   time.Time       `json:"created_at"`
	Type        TransactionType `json:"transaction_type"`
	Symbol      string          `json:"symbol,omitempty"`
	Currency    string          `json:"currency,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	ID          int64           `json:"id"`
	PortfolioID int64           `json:"portfolio_id"`
	AssetID     int64           `json:"asset_id"`
	Quantity    float64         `json:"quantity"`
	Price       float64         `json:"price"`
	Commission  float64         `json:"commission"`
}

// Holding is the per-asset aggregate of a transaction journal
type Holding struct {
	FirstPurchaseDate *time.Time `json:"first_purchase_date,omitempty"`
	Bond              *BondTerms `json:"bond,omitempty"`
	Symbol            string     `json:"symbol"`
	Name              string     `json:"name"`
	QuoteSymbol       string     `json:"quote_symbol,omitempty"`
	Currency          string     `json:"currency"`
	AssetType         AssetType  `json:"asset_type"`
	AssetID           int64      `json:"asset_id"`
	TotalBought       float64    `json:"total_bought"`
	TotalSold         float64    `json:"total_sold"`
	TotalCost         float64    `json:"total_cost"`
	TotalRevenue      float64    `json:"total_revenue"`
	TotalCommission   float64    `json:"total_commission"`
	TransactionCount  int        `json:"transaction_count"`
}

// NetQuantity returns units still held
func (h Holding) NetQuantity() float64 {
	return h.TotalBought - h.TotalSold
}

// PriceQuote is a market snapshot for one quote symbol
type PriceQuote struct {
	FetchedAt     time.Time `json:"fetched_at"`
	Symbol        string    `json:"symbol"`
	Currency      string    `json:"currency"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	FromCache     bool      `json:"from_cache"`
}

// ExchangeRate is the PLN value of one unit of Currency
type ExchangeRate struct {
	FetchedAt time.Time `json:"fetched_at"`
	Currency  string    `json:"currency"`
	Rate      float64   `json:"rate"`
}

// ValuedHolding is a holding priced at a point in time
type ValuedHolding struct {
	Holding
	PriceSource      PriceSource `json:"price_source"`
	Quantity         float64     `json:"quantity"`
	AvgBuyPrice      float64     `json:"avg_buy_price"`
	InvestedValue    float64     `json:"invested_value"`
	CurrentPrice     float64     `json:"current_price"`
	CurrentValue     float64     `json:"current_value"`
	CurrentProfit    float64     `json:"current_profit"`
	TotalProfit      float64     `json:"total_profit"`
	ProfitPercent    float64     `json:"profit_percent"`
	DailyChange      float64     `json:"daily_change"`
	ExchangeRate     float64     `json:"exchange_rate"`
	CurrentValuePLN  float64     `json:"current_value_pln"`
	CurrentProfitPLN float64     `json:"current_profit_pln"`
	TotalProfitPLN   float64     `json:"total_profit_pln"`
	DailyChangePLN   float64     `json:"daily_change_pln"`
}

// PortfolioSummary aggregates valued holdings in PLN
type PortfolioSummary struct {
	TotalValue         float64 `json:"total_value"`
	TotalCost          float64 `json:"total_cost"`
	TotalRevenue       float64 `json:"total_revenue"`
	InvestedValue      float64 `json:"invested_value"`
	CurrentProfit      float64 `json:"current_profit"`
	TotalProfit        float64 `json:"total_profit"`
	TotalProfitPercent float64 `json:"total_profit_percent"`
	DailyChange        float64 `json:"daily_change"`
	DailyChangePercent float64 `json:"daily_change_percent"`
	HoldingsCount      int     `json:"holdings_count"`
}

// PortfolioStats summarises a transaction journal without market data
type PortfolioStats struct {
	FirstTransaction  *time.Time `json:"first_transaction,omitempty"`
	LastTransaction   *time.Time `json:"last_transaction,omitempty"`
	UniqueAssets      int        `json:"unique_assets"`
	TotalTransactions int        `json:"total_transactions"`
	TotalInvested     float64    `json:"total_invested"`
	TotalWithdrawn    float64    `json:"total_withdrawn"`
	TotalDividends    float64    `json:"total_dividends"`
}
