// Package conversion is the single source of truth for the PKR⇄Z-Credit
// exchange rate and all amount conversions.
package conversion

// DefaultRatePKR is the fallback rate (PKR per 1 ZC) used when no rate has
// been recorded or the lookup fails.
const DefaultRatePKR = 90.0

// RateQuote tags the rate with its provenance so callers can surface
// degraded-rate situations instead of hiding them.
type RateQuote struct {
	Rate       float64 `json:"rate"`
	IsFallback bool    `json:"is_fallback"`
}

// ToZc converts a PKR amount to Z-Credits at the given rate (PKR per 1 ZC).
// Pure function; rate must be positive (guarded at set time).
func ToZc(pkr, rate float64) float64 {
	return pkr / rate
}

// ToPkr converts a Z-Credit amount to PKR at the given rate.
func ToPkr(zc, rate float64) float64 {
	return zc * rate
}
