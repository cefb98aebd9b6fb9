// Package ledger stores portfolios, assets and the transaction journal, and
// aggregates the journal into open holdings.
package ledger

import "errors"

var (
	ErrPortfolioNotFound   = errors.New("portfolio not found")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrInvalidAsset        = errors.New("invalid asset")
)
