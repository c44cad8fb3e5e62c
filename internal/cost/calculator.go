package cost

import "math"

// Rates holds per-provider pricing configuration.
type Rates struct {
	Scoring     map[string]ModelRate `yaml:"scoring" mapstructure:"scoring"`
	ProfileData ProfileDataRate      `yaml:"profile_data" mapstructure:"profile_data"`
}

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// ProfileDataRate holds flat per-lookup pricing for the profile data provider.
type ProfileDataRate struct {
	PerFetch float64 `yaml:"per_fetch" mapstructure:"per_fetch"`
}

// Calculator computes actual provider costs for analyses.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Score computes the cost of one AI scoring call. Unknown models cost 0.
func (c *Calculator) Score(model string, inputTokens, outputTokens int64) float64 {
	rate, ok := c.rates.Scoring[model]
	if !ok {
		return 0
	}
	return (float64(inputTokens)/1e6)*rate.Input + (float64(outputTokens)/1e6)*rate.Output
}

// Fetch returns the flat cost of one profile data lookup.
func (c *Calculator) Fetch() float64 {
	return c.rates.ProfileData.PerFetch
}

// Round2 rounds a USD amount to cents for reporting.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Scoring: map[string]ModelRate{
			"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		},
		ProfileData: ProfileDataRate{PerFetch: 0.002},
	}
}
