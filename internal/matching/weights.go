package matching

import (
	"fmt"
	"math"
	"sort"
)

// Weight keys.
const (
	WeightEducation  = "education_match"
	WeightExperience = "experience_match"
	WeightHardSkills = "hard_skills_match"
	WeightSoftSkills = "soft_skills_match"
)

// WeightKeys lists every key a Weights value must carry.
var WeightKeys = []string{WeightEducation, WeightExperience, WeightHardSkills, WeightSoftSkills}

// Weights maps a category key to the maximum points that category contributes.
// The values need not sum to 100.
type Weights map[string]float64

// DefaultWeights returns a fresh copy of the default weight configuration.
func DefaultWeights() Weights {
	return Weights{
		WeightEducation:  25,
		WeightExperience: 25,
		WeightHardSkills: 40,
		WeightSoftSkills: 10,
	}
}

// Validate returns a *ConfigError when a key is missing or a value is not finite.
func (w Weights) Validate() error {
	var missing []string
	for _, key := range WeightKeys {
		v, ok := w[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ConfigError{Message: fmt.Sprintf("weight %s must be a finite number", key)}
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return &ConfigError{Missing: missing}
	}

	return nil
}

// Merge returns a copy of w with every entry of overrides applied on top.
func (w Weights) Merge(overrides map[string]float64) Weights {
	out := make(Weights, len(w)+len(overrides))
	for k, v := range w {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
