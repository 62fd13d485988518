// Package cost estimates spend for upstream API usage.
package cost

// Rates holds per-provider pricing configuration.
type Rates struct {
	Places PlacesRate `yaml:"google" mapstructure:"google"`
}

// PlacesRate holds Google Places per-request pricing in USD.
type PlacesRate struct {
	TextSearch float64 `yaml:"text_search" mapstructure:"text_search"`
	Details    float64 `yaml:"details" mapstructure:"details"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Places computes the cost of a number of Text Search and Place Details calls.
// Negative counts are treated as zero.
func (c *Calculator) Places(searchCalls, detailsCalls int) float64 {
	if searchCalls < 0 {
		searchCalls = 0
	}
	if detailsCalls < 0 {
		detailsCalls = 0
	}
	return float64(searchCalls)*c.rates.Places.TextSearch + float64(detailsCalls)*c.rates.Places.Details
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Places: PlacesRate{TextSearch: 0.032, Details: 0.017},
	}
}
