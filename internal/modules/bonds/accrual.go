// Package bonds values Polish retail treasury bonds by accrued interest.
package bonds

import (
	"math"
	"time"

	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/domain"
	"github.com/Pawel-Kosinski/Simple-Investment-Tracker/internal/utils"
)

// NominalValue is the face value of one retail bond in PLN
const NominalValue = 100.0

const daysPerYear = 365.0

// Calculator estimates accrued interest per 100 PLN nominal
type Calculator struct {
	now func() time.Time
}

// NewCalculator creates a calculator using the wall clock
func NewCalculator() *Calculator {
	return &Calculator{now: time.Now}
}

// NewCalculatorWithClock creates a calculator with an injected clock
func NewCalculatorWithClock(now func() time.Time) *Calculator {
	return &Calculator{now: now}
}

// DaysHeld returns whole calendar days between since and today, never negative
func (c *Calculator) DaysHeld(since time.Time) int {
	return wholeDays(since, c.now())
}

// AccruedInterest returns interest accrued on one bond since the first
// purchase, rounded to 2 decimals. Holdings without a purchase date or
// without any rate yield 0.
//
// A fixed InterestRate accrues linearly. Otherwise FirstYearRate is used:
// prorated within the first year and multiplied by years held after it.
// Margins and inflation indexation after year one are not modelled.
func (c *Calculator) AccruedInterest(h domain.Holding) float64 {
	if h.FirstPurchaseDate == nil || h.Bond == nil {
		return 0
	}
	terms := h.Bond
	if terms.InterestRate == nil && terms.FirstYearRate == nil {
		return 0
	}

	days := float64(c.DaysHeld(*h.FirstPurchaseDate))
	yearsHeld := days / daysPerYear

	var accrued float64
	switch {
	case terms.InterestRate != nil:
		accrued = yearsHeld * *terms.InterestRate
	case days <= daysPerYear:
		accrued = days / daysPerYear * *terms.FirstYearRate
	default:
		accrued = yearsHeld * *terms.FirstYearRate
	}

	return utils.Round2(accrued)
}

// FairValue returns nominal plus accrued interest for one bond
func (c *Calculator) FairValue(h domain.Holding) float64 {
	return NominalValue + c.AccruedInterest(h)
}

func wholeDays(from, to time.Time) int {
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	days := int(math.Floor(toDate.Sub(fromDate).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
