package bonds

import (
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
)

// Treasury bond series
const (
	TypeOTS = "OTS" // 3-month fixed
	TypeROR = "ROR" // 1-year, NBP reference rate
	TypeDOR = "DOR" // 2-year, NBP reference rate
	TypeTOS = "TOS" // 3-year fixed
	TypeCOI = "COI" // 4-year inflation-indexed
	TypeEDO = "EDO" // 10-year inflation-indexed, capitalised
	TypeROS = "ROS" // 6-year family, inflation-indexed
	TypeROD = "ROD" // 12-year family, inflation-indexed, capitalised
)

var termMonths = map[string]int{
	TypeOTS: 3,
	TypeROR: 12,
	TypeDOR: 24,
	TypeTOS: 36,
	TypeCOI: 48,
	TypeEDO: 120,
	TypeROS: 72,
	TypeROD: 144,
}

var displayNames = map[string]string{
	TypeOTS: "3-month treasury bonds (OTS)",
	TypeROR: "1-year treasury bonds (ROR)",
	TypeDOR: "2-year treasury bonds (DOR)",
	TypeTOS: "3-year treasury bonds (TOS)",
	TypeCOI: "4-year indexed treasury bonds (COI)",
	TypeEDO: "10-year retirement treasury bonds (EDO)",
	TypeROS: "6-year family treasury bonds (ROS)",
	TypeROD: "12-year family treasury bonds (ROD)",
}

// IsKnownType reports whether bondType is a supported series
func IsKnownType(bondType string) bool {
	_, ok := termMonths[bondType]
	return ok
}

// IsFixedRate reports whether the coupon is fixed for the whole term
func IsFixedRate(bondType string) bool {
	return bondType == TypeOTS || bondType == TypeTOS
}

// IsInflationLinked reports whether coupons after year one follow CPI
func IsInflationLinked(bondType string) bool {
	switch bondType {
	case TypeCOI, TypeEDO, TypeROS, TypeROD:
		return true
	}
	return false
}

// IsReferenceRateLinked reports whether coupons follow the NBP reference rate
func IsReferenceRateLinked(bondType string) bool {
	return bondType == TypeROR || bondType == TypeDOR
}

// HasCapitalization reports whether interest is paid out only at maturity
func HasCapitalization(bondType string) bool {
	return bondType == TypeEDO || bondType == TypeROD
}

// PaymentsPerYear returns coupon payments per year; 0 means paid at maturity
func PaymentsPerYear(terms domain.BondTerms) int {
	if HasCapitalization(terms.BondType) {
		return 0
	}
	switch terms.InterestFrequency {
	case "quarterly":
		return 4
	case "semi-annual":
		return 2
	case "annual":
		return 1
	default:
		return 12
	}
}

// DisplayName returns a readable series name, or the raw type if unknown
func DisplayName(bondType string) string {
	if name, ok := displayNames[bondType]; ok {
		return name
	}
	return bondType
}

// MaturityFor returns the maturity date of a series issued on issueDate.
// ok is false for unknown series.
func MaturityFor(bondType string, issueDate time.Time) (time.Time, bool) {
	months, ok := termMonths[bondType]
	if !ok {
		return time.Time{}, false
	}
	return issueDate.AddDate(0, months, 0), true
}

// DaysToMaturity returns signed whole days from now until maturity.
// ok is false when the maturity date is unknown.
func DaysToMaturity(terms domain.BondTerms, now time.Time) (int, bool) {
	maturity := terms.MaturityDate
	if maturity == nil {
		if terms.IssueDate == nil {
			return 0, false
		}
		m, ok := MaturityFor(terms.BondType, *terms.IssueDate)
		if !ok {
			return 0, false
		}
		maturity = &m
	}

	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	matDate := time.Date(maturity.Year(), maturity.Month(), maturity.Day(), 0, 0, 0, 0, time.UTC)
	return int(matDate.Sub(nowDate).Hours() / 24), true
}

// IsMatured reports whether the bond has reached maturity
func IsMatured(terms domain.BondTerms, now time.Time) bool {
	days, ok := DaysToMaturity(terms, now)
	return ok && days <= 0
}

// Info describes a bond series for display next to the asset
type Info struct {
	DaysToMaturity      *int   `json:"days_to_maturity,omitempty"`
	SeriesName          string `json:"series_name"`
	PaymentsPerYear     int    `json:"payments_per_year"`
	FixedRate           bool   `json:"fixed_rate"`
	InflationLinked     bool   `json:"inflation_linked"`
	ReferenceRateLinked bool   `json:"reference_rate_linked"`
	Capitalised         bool   `json:"capitalised"`
	Matured             bool   `json:"matured"`
}

// Describe summarises bond terms as of now
func Describe(terms domain.BondTerms, now time.Time) Info {
	info := Info{
		SeriesName:          DisplayName(terms.BondType),
		PaymentsPerYear:     PaymentsPerYear(terms),
		FixedRate:           IsFixedRate(terms.BondType),
		InflationLinked:     IsInflationLinked(terms.BondType),
		ReferenceRateLinked: IsReferenceRateLinked(terms.BondType),
		Capitalised:         HasCapitalization(terms.BondType),
		Matured:             IsMatured(terms, now),
	}
	if days, ok := DaysToMaturity(terms, now); ok {
		info.DaysToMaturity = &days
	}
	return info
}
