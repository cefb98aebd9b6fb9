package utils

import "github.com/shopspring/decimal"

// Round2 rounds a money amount to two decimal places (half away from zero).
func Round2(v float64) float64 {
	return RoundTo(v, 2)
}

// RoundTo rounds v to the given number of decimal places using decimal
// arithmetic, so 1.005 rounds to 1.01 instead of 1.00.
func RoundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// Percent returns part/whole*100, or 0 when whole is not positive.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
