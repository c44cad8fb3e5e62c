package cost

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadRates reads pricing rates from a YAML file. Models missing from the
// file keep their default rates; an empty path returns the defaults as-is.
func LoadRates(path string) (Rates, error) {
	rates := DefaultRates()
	if path == "" {
		return rates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rates, eris.Wrapf(err, "cost: read rates %s", path)
	}

	// The YAML has a top-level "pricing" key.
	var wrapper struct {
		Pricing Rates `yaml:"pricing"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return rates, eris.Wrap(err, "cost: parse rates")
	}

	for model, rate := range wrapper.Pricing.Scoring {
		rates.Scoring[model] = rate
	}
	if wrapper.Pricing.ProfileData.PerFetch > 0 {
		rates.ProfileData = wrapper.Pricing.ProfileData
	}

	return rates, nil
}
