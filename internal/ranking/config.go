package ranking

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned by Validate when the scoring constants break an ordering invariant.
var ErrInvalidConfig = errors.New("invalid ranking config")

// Config holds the scoring constants. Their relative order matters more than their values:
// ExactNameBonus > |StrictExclusion| >= LocationPenalty > CategoryBoost, and
// StrictExclusion < PriceEligibleFloor < 0.
type Config struct {
	// Strict mode
	StrictExclusion  float64 `yaml:"strict_exclusion"`   // default: -999
	StrictMatchBonus float64 `yaml:"strict_match_bonus"` // default: 1

	// Flexible mode
	CategoryBoost    float64 `yaml:"category_boost"`     // default: 20
	VisitorTypeBoost float64 `yaml:"visitor_type_boost"` // default: 5

	// Location
	LocationBoost   float64 `yaml:"location_boost"`   // default: 15
	LocationPenalty float64 `yaml:"location_penalty"` // default: 50

	// Content
	ConceptBoost float64 `yaml:"concept_boost"` // default: 3
	PhraseBoost  float64 `yaml:"phrase_boost"`  // default: 5

	// Price and combination
	PriceBoost         float64 `yaml:"price_boost"`          // default: 5
	PriceEligibleFloor float64 `yaml:"price_eligible_floor"` // default: -500
	ComboBonus         float64 `yaml:"combo_bonus"`          // default: 10

	// Name override
	ExactNameBonus       float64 `yaml:"exact_name_bonus"`         // default: 2000
	FuzzyMinQueryLen     int     `yaml:"fuzzy_min_query_len"`      // default: 8
	FuzzyCandidates      int     `yaml:"fuzzy_candidates"`         // default: 100
	FuzzyStrongThreshold float64 `yaml:"fuzzy_strong_threshold"`   // default: 95
	FuzzyStrongBonus     float64 `yaml:"fuzzy_strong_bonus"`       // default: 8
	FuzzyGoodThreshold   float64 `yaml:"fuzzy_good_threshold"`     // default: 90
	FuzzyGoodMinQueryLen int     `yaml:"fuzzy_good_min_query_len"` // default: 12
	FuzzyGoodBonus       float64 `yaml:"fuzzy_good_bonus"`         // default: 5

	// Ranking
	FallbackScore       float64 `yaml:"fallback_score"`         // default: 0.5
	FallbackMinQueryLen int     `yaml:"fallback_min_query_len"` // default: 3
	MinStemmedLen       int     `yaml:"min_stemmed_len"`        // default: 2
}

// DefaultConfig returns the tuned scoring constants.
func DefaultConfig() *Config {
	return &Config{
		StrictExclusion:  -999,
		StrictMatchBonus: 1,

		CategoryBoost:    20,
		VisitorTypeBoost: 5,

		LocationBoost:   15,
		LocationPenalty: 50,

		ConceptBoost: 3,
		PhraseBoost:  5,

		PriceBoost:         5,
		PriceEligibleFloor: -500,
		ComboBonus:         10,

		ExactNameBonus:       2000,
		FuzzyMinQueryLen:     8,
		FuzzyCandidates:      100,
		FuzzyStrongThreshold: 95,
		FuzzyStrongBonus:     8,
		FuzzyGoodThreshold:   90,
		FuzzyGoodMinQueryLen: 12,
		FuzzyGoodBonus:       5,

		FallbackScore:       0.5,
		FallbackMinQueryLen: 3,
		MinStemmedLen:       2,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	setFloat := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	setInt := func(v *int, def int) {
		if *v == 0 {
			*v = def
		}
	}

	setFloat(&c.StrictExclusion, d.StrictExclusion)
	setFloat(&c.StrictMatchBonus, d.StrictMatchBonus)
	setFloat(&c.CategoryBoost, d.CategoryBoost)
	setFloat(&c.VisitorTypeBoost, d.VisitorTypeBoost)
	setFloat(&c.LocationBoost, d.LocationBoost)
	setFloat(&c.LocationPenalty, d.LocationPenalty)
	setFloat(&c.ConceptBoost, d.ConceptBoost)
	setFloat(&c.PhraseBoost, d.PhraseBoost)
	setFloat(&c.PriceBoost, d.PriceBoost)
	setFloat(&c.PriceEligibleFloor, d.PriceEligibleFloor)
	setFloat(&c.ComboBonus, d.ComboBonus)
	setFloat(&c.ExactNameBonus, d.ExactNameBonus)
	setInt(&c.FuzzyMinQueryLen, d.FuzzyMinQueryLen)
	setInt(&c.FuzzyCandidates, d.FuzzyCandidates)
	setFloat(&c.FuzzyStrongThreshold, d.FuzzyStrongThreshold)
	setFloat(&c.FuzzyStrongBonus, d.FuzzyStrongBonus)
	setFloat(&c.FuzzyGoodThreshold, d.FuzzyGoodThreshold)
	setInt(&c.FuzzyGoodMinQueryLen, d.FuzzyGoodMinQueryLen)
	setFloat(&c.FuzzyGoodBonus, d.FuzzyGoodBonus)
	setFloat(&c.FallbackScore, d.FallbackScore)
	setInt(&c.FallbackMinQueryLen, d.FallbackMinQueryLen)
	setInt(&c.MinStemmedLen, d.MinStemmedLen)
}

// Validate checks the ordering invariants between the constants.
func (c *Config) Validate() error {
	sentinel := math.Abs(c.StrictExclusion)
	switch {
	case c.StrictExclusion >= 0:
		return fmt.Errorf("%w: strict_exclusion must be negative, got %v", ErrInvalidConfig, c.StrictExclusion)
	case c.ExactNameBonus <= sentinel:
		return fmt.Errorf("%w: exact_name_bonus %v must exceed |strict_exclusion| %v", ErrInvalidConfig, c.ExactNameBonus, sentinel)
	case c.LocationPenalty < 0 || c.LocationPenalty > sentinel:
		return fmt.Errorf("%w: location_penalty %v must be within [0, %v]", ErrInvalidConfig, c.LocationPenalty, sentinel)
	case c.CategoryBoost < 0 || c.CategoryBoost >= c.LocationPenalty:
		return fmt.Errorf("%w: category_boost %v must be within [0, location_penalty %v)", ErrInvalidConfig, c.CategoryBoost, c.LocationPenalty)
	case c.VisitorTypeBoost < 0:
		return fmt.Errorf("%w: visitor_type_boost must not be negative, got %v", ErrInvalidConfig, c.VisitorTypeBoost)
	case c.PriceEligibleFloor <= c.StrictExclusion || c.PriceEligibleFloor >= 0:
		return fmt.Errorf("%w: price_eligible_floor %v must lie in (%v, 0)", ErrInvalidConfig, c.PriceEligibleFloor, c.StrictExclusion)
	case !inPercent(c.FuzzyStrongThreshold) || !inPercent(c.FuzzyGoodThreshold):
		return fmt.Errorf("%w: fuzzy thresholds must be within [0,100]", ErrInvalidConfig)
	case c.FuzzyGoodThreshold > c.FuzzyStrongThreshold:
		return fmt.Errorf("%w: fuzzy_good_threshold %v exceeds fuzzy_strong_threshold %v", ErrInvalidConfig, c.FuzzyGoodThreshold, c.FuzzyStrongThreshold)
	case c.FuzzyCandidates < 0 || c.FallbackMinQueryLen < 0 || c.MinStemmedLen < 0:
		return fmt.Errorf("%w: lengths and counts must not be negative", ErrInvalidConfig)
	case c.FallbackScore <= 0:
		return fmt.Errorf("%w: fallback_score must be positive, got %v", ErrInvalidConfig, c.FallbackScore)
	}
	return nil
}

func inPercent(v float64) bool { return v >= 0 && v <= 100 }
