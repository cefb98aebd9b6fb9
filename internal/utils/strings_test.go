package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "USD",
			expected: []string{"USD"},
		},
		{
			name:     "varied spacing",
			input:    "GBP,  CHF , CZK",
			expected: []string{"GBP", "CHF", "CZK"},
		},
		{
			name:     "trailing comma",
			input:    "DKK,",
			expected: []string{"DKK"},
		},
		{
			name:     "leading comma",
			input:    ",PLN",
			expected: []string{"PLN"},
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "only commas",
			input:    ",,",
			expected: nil,
		},
		{
			name:     "empty segments between values",
			input:    ",,SEK,,NOK,,",
			expected: []string{"SEK", "NOK"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCSV(tt.input))
		})
	}
}

func TestParseCSV_DoesNotModifyInput(t *testing.T) {
	input := "EUR, USD"
	original := input

	_ = ParseCSV(input)
	assert.Equal(t, original, input)
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "USD", NormalizeCurrency(" usd "))
	assert.Equal(t, "PLN", NormalizeCurrency("PLN"))
	assert.Equal(t, "", NormalizeCurrency("  "))
}
