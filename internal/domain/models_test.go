package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolding_NetQuantity(t *testing.T) {
	tests := []struct {
		name     string
		holding  Holding
		expected float64
	}{
		{"open position", Holding{TotalBought: 10, TotalSold: 4}, 6},
		{"fully sold", Holding{TotalBought: 5, TotalSold: 5}, 0},
		{"oversold", Holding{TotalBought: 1, TotalSold: 3}, -2},
		{"never bought", Holding{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.holding.NetQuantity())
		})
	}
}

func TestAssetType(t *testing.T) {
	assert.True(t, AssetTypeBond.IsBond())
	assert.False(t, AssetTypeStock.IsBond())
	assert.False(t, AssetType("BOND").IsBond())

	assert.True(t, AssetTypeCrypto.Valid())
	assert.False(t, AssetType("option").Valid())
}

func TestTransactionType_Valid(t *testing.T) {
	assert.True(t, TransactionBuy.Valid())
	assert.True(t, TransactionSell.Valid())
	assert.True(t, TransactionDividend.Valid())
	assert.False(t, TransactionType("transfer").Valid())
}

func TestPortfolioSummary_JSONFields(t *testing.T) {
	data, err := json.Marshal(PortfolioSummary{TotalValue: 1, DailyChangePercent: 2})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, key := range []string{
		"total_value", "total_profit", "total_profit_percent", "daily_change",
		"daily_change_percent", "total_cost", "total_revenue", "current_profit",
	} {
		assert.Contains(t, fields, key)
	}
}

func TestValuedHolding_EmbedsHoldingFields(t *testing.T) {
	vh := ValuedHolding{
		Holding:     Holding{Symbol: "CDR", QuoteSymbol: "CDR.WA"},
		PriceSource: PriceSourceAPI,
	}

	data, err := json.Marshal(vh)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"symbol":"CDR"`)
	assert.Contains(t, string(data), `"quote_symbol":"CDR.WA"`)
	assert.Contains(t, string(data), `"price_source":"api"`)
}
