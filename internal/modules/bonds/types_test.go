package bonds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
)

func TestSeriesClassification(t *testing.T) {
	tests := []struct {
		bondType      string
		fixed         bool
		inflation     bool
		referenceRate bool
		capitalised   bool
	}{
		{TypeOTS, true, false, false, false},
		{TypeTOS, true, false, false, false},
		{TypeROR, false, false, true, false},
		{TypeDOR, false, false, true, false},
		{TypeCOI, false, true, false, false},
		{TypeROS, false, true, false, false},
		{TypeEDO, false, true, false, true},
		{TypeROD, false, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.bondType, func(t *testing.T) {
			assert.True(t, IsKnownType(tt.bondType))
			assert.Equal(t, tt.fixed, IsFixedRate(tt.bondType))
			assert.Equal(t, tt.inflation, IsInflationLinked(tt.bondType))
			assert.Equal(t, tt.referenceRate, IsReferenceRateLinked(tt.bondType))
			assert.Equal(t, tt.capitalised, HasCapitalization(tt.bondType))
		})
	}

	assert.False(t, IsKnownType("XYZ"))
}

func TestPaymentsPerYear(t *testing.T) {
	assert.Equal(t, 0, PaymentsPerYear(domain.BondTerms{BondType: TypeEDO, InterestFrequency: "monthly"}))
	assert.Equal(t, 12, PaymentsPerYear(domain.BondTerms{BondType: TypeROR, InterestFrequency: "monthly"}))
	assert.Equal(t, 4, PaymentsPerYear(domain.BondTerms{BondType: TypeCOI, InterestFrequency: "quarterly"}))
	assert.Equal(t, 2, PaymentsPerYear(domain.BondTerms{BondType: TypeCOI, InterestFrequency: "semi-annual"}))
	assert.Equal(t, 1, PaymentsPerYear(domain.BondTerms{BondType: TypeCOI, InterestFrequency: "annual"}))
	assert.Equal(t, 12, PaymentsPerYear(domain.BondTerms{BondType: TypeTOS}))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "10-year retirement treasury bonds (EDO)", DisplayName(TypeEDO))
	assert.Equal(t, "XYZ", DisplayName("XYZ"))
}

func TestMaturityFor(t *testing.T) {
	issue := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	m, ok := MaturityFor(TypeEDO, issue)
	require.True(t, ok)
	assert.Equal(t, time.Date(2034, 1, 15, 0, 0, 0, 0, time.UTC), m)

	m, ok = MaturityFor(TypeOTS, issue)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), m)

	_, ok = MaturityFor("XYZ", issue)
	assert.False(t, ok)
}

func TestDaysToMaturity(t *testing.T) {
	now := time.Date(2024, 10, 14, 12, 0, 0, 0, time.UTC)

	maturity := time.Date(2024, 10, 24, 0, 0, 0, 0, time.UTC)
	days, ok := DaysToMaturity(domain.BondTerms{MaturityDate: &maturity}, now)
	require.True(t, ok)
	assert.Equal(t, 10, days)
	assert.False(t, IsMatured(domain.BondTerms{MaturityDate: &maturity}, now))

	past := time.Date(2024, 10, 4, 0, 0, 0, 0, time.UTC)
	days, ok = DaysToMaturity(domain.BondTerms{MaturityDate: &past}, now)
	require.True(t, ok)
	assert.Equal(t, -10, days)
	assert.True(t, IsMatured(domain.BondTerms{MaturityDate: &past}, now))

	issue := time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC)
	days, ok = DaysToMaturity(domain.BondTerms{BondType: TypeOTS, IssueDate: &issue}, now)
	require.True(t, ok)
	assert.Equal(t, 0, days)
	assert.True(t, IsMatured(domain.BondTerms{BondType: TypeOTS, IssueDate: &issue}, now))

	_, ok = DaysToMaturity(domain.BondTerms{BondType: TypeOTS}, now)
	assert.False(t, ok)
	assert.False(t, IsMatured(domain.BondTerms{}, now))
}

func TestDescribe(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	issue := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	info := Describe(domain.BondTerms{BondType: TypeEDO, IssueDate: &issue}, now)
	assert.Equal(t, "10-year retirement treasury bonds (EDO)", info.SeriesName)
	assert.True(t, info.InflationLinked)
	assert.True(t, info.Capitalised)
	assert.False(t, info.FixedRate)
	assert.Equal(t, 0, info.PaymentsPerYear)
	assert.False(t, info.Matured)
	require.NotNil(t, info.DaysToMaturity)
	assert.Equal(t, 3287, *info.DaysToMaturity)

	// OTS issued a year ago is long past its 3-month term
	info = Describe(domain.BondTerms{BondType: TypeOTS, IssueDate: &issue, InterestFrequency: "quarterly"}, now)
	assert.True(t, info.FixedRate)
	assert.True(t, info.Matured)
	assert.Equal(t, 4, info.PaymentsPerYear)

	info = Describe(domain.BondTerms{BondType: TypeROR}, now)
	assert.Nil(t, info.DaysToMaturity)
	assert.False(t, info.Matured)
	assert.True(t, info.ReferenceRateLinked)
}
