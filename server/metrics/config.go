package metrics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the term lexicons and burden-score weights. These are policy,
// not protocol: deployments tune them through a YAML file without touching
// the extraction logic.
type Config struct {
	ObligationTerms  []string `yaml:"obligation_terms"`
	ProhibitionTerms []string `yaml:"prohibition_terms"`
	RequirementTerms []string `yaml:"requirement_terms"`
	ExceptionTerms   []string `yaml:"exception_terms"`
	EnforcementTerms []string `yaml:"enforcement_terms"`
	Weights          Weights  `yaml:"weights"`
}

// Weights are the burden-score coefficients. Prohibitions weigh heaviest,
// then enforcement, then requirements, then obligations, then cross-reference
// density.
type Weights struct {
	Obligation      float64 `yaml:"obligation"`
	Prohibition     float64 `yaml:"prohibition"`
	Requirement     float64 `yaml:"requirement"`
	Enforcement     float64 `yaml:"enforcement"`
	CrossrefDensity float64 `yaml:"crossref_density"`
}

// DefaultConfig returns the stock lexicons and weights.
func DefaultConfig() Config {
	return Config{
		ObligationTerms:  []string{"shall", "must", "will", "should", "may", "might", "could"},
		ProhibitionTerms: []string{"shall not", "may not", "prohibited", "forbidden", "banned", "not permitted"},
		RequirementTerms: []string{"required", "require", "requires", "requirement", "mandatory", "necessary", "obligated"},
		ExceptionTerms:   []string{"except", "unless", "however", "provided that"},
		EnforcementTerms: []string{"penalty", "penalties", "fine", "fines", "violation", "violations", "enforcement", "liable", "sanction", "sanctions", "subject to"},
		Weights: Weights{
			Obligation:      2,
			Prohibition:     5,
			Requirement:     3,
			Enforcement:     4,
			CrossrefDensity: 0.5,
		},
	}
}

// LoadConfig reads a YAML lexicon file. Fields left empty in the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("error reading metrics config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing metrics config %s: %w", path, err)
	}

	return cfg, nil
}
