package currency

// DefaultFallbackRate is used for currencies missing from fallbackRates
const DefaultFallbackRate = 4.0

// Approximate PLN rates used when neither the cache nor NBP can answer
var fallbackRates = map[string]float64{
	"USD": 4.0,
	"EUR": 4.3,
	"GBP": 5.0,
	"CHF": 4.6,
	"CZK": 0.17,
	"SEK": 0.38,
	"NOK": 0.37,
	"DKK": 0.58,
}

// FallbackRate returns the static PLN rate for currency
func FallbackRate(currency string) float64 {
	if rate, ok := fallbackRates[currency]; ok {
		return rate
	}
	return DefaultFallbackRate
}
