package ranking

import (
	"strings"

	"github.com/hyperjump/kuliner/internal/corpus"
)

// Stage is one named heuristic applied to the score vector in place. Later stages see
// the changes of earlier ones.
type Stage interface {
	// Name returns the stage name for logging and error context.
	Name() string
	// Apply adjusts scores, which has one entry per corpus record.
	Apply(scores []float64, qc *QueryContext) error
}

// CategoryStage enforces strict mode: records outside the detected category, cafe group
// or visitor type are forced to the exclusion sentinel; the rest get a small bonus. In
// flexible mode it only boosts records in the category and of the visitor type.
type CategoryStage struct {
	corpus *corpus.Corpus
	config *Config
}

// NewCategoryStage creates a new CategoryStage.
func NewCategoryStage(c *corpus.Corpus, config *Config) *CategoryStage {
	return &CategoryStage{corpus: c, config: config}
}

// Name returns the stage name.
func (s *CategoryStage) Name() string { return "category" }

// Apply implements Stage.
func (s *CategoryStage) Apply(scores []float64, qc *QueryContext) error {
	var match func(i int) bool
	switch qc.Strict {
	case StrictCategory, StrictCafeGroup:
		match = func(i int) bool { return qc.Category.Matches(s.corpus.CategoryLower(i)) }
	case StrictVisitorType:
		match = func(i int) bool { return strings.Contains(s.corpus.VisitorTypesLower(i), qc.VisitorType) }
	default:
		s.boost(scores, qc)
		return nil
	}
	for i := range scores {
		if match(i) {
			scores[i] += s.config.StrictMatchBonus
		} else {
			scores[i] = s.config.StrictExclusion
		}
	}
	return nil
}

func (s *CategoryStage) boost(scores []float64, qc *QueryContext) {
	for i := range scores {
		if qc.HasCategory() && qc.Category.Matches(s.corpus.CategoryLower(i)) {
			scores[i] += s.config.CategoryBoost
		}
		if qc.VisitorType != "" && strings.Contains(s.corpus.VisitorTypesLower(i), qc.VisitorType) {
			scores[i] += s.config.VisitorTypeBoost
		}
	}
}

// LocationStage boosts records in a requested area and, once any record matched that
// area, penalizes the rest.
type LocationStage struct {
	corpus *corpus.Corpus
	config *Config
}

// NewLocationStage creates a new LocationStage.
func NewLocationStage(c *corpus.Corpus, config *Config) *LocationStage {
	return &LocationStage{corpus: c, config: config}
}

// Name returns the stage name.
func (s *LocationStage) Name() string { return "location" }

// Apply implements Stage.
func (s *LocationStage) Apply(scores []float64, qc *QueryContext) error {
	for _, loc := range qc.Locations {
		matched := make([]bool, len(scores))
		hit := false
		for i := range scores {
			matched[i] = loc.Matches(s.corpus.AddressLower(i))
			hit = hit || matched[i]
		}
		if !hit {
			continue
		}
		for i := range scores {
			if matched[i] {
				scores[i] += s.config.LocationBoost
			} else {
				scores[i] -= s.config.LocationPenalty
			}
		}
	}
	return nil
}

// ContentStage rewards records whose name or menu mentions what the user asked for.
// Each concept pays out once per record; the full phrase pays extra.
type ContentStage struct {
	corpus *corpus.Corpus
	config *Config
}

// NewContentStage creates a new ContentStage.
func NewContentStage(c *corpus.Corpus, config *Config) *ContentStage {
	return &ContentStage{corpus: c, config: config}
}

// Name returns the stage name.
func (s *ContentStage) Name() string { return "content" }

// Apply implements Stage.
func (s *ContentStage) Apply(scores []float64, qc *QueryContext) error {
	if len(qc.Concepts) == 0 {
		return nil
	}
	phrase := ""
	if len(qc.ContentWords) >= 2 {
		phrase = strings.Join(qc.ContentWords, " ")
	}
	for i := range scores {
		text := s.corpus.NameLower(i) + " " + s.corpus.MenuLower(i)
		for _, cc := range qc.Concepts {
			if containsAny(text, cc.Terms) {
				scores[i] += s.config.ConceptBoost
			}
		}
		if phrase != "" && (strings.Contains(s.corpus.NameLower(i), phrase) || strings.Contains(s.corpus.MenuLower(i), phrase)) {
			scores[i] += s.config.PhraseBoost
		}
	}
	return nil
}

// PriceStage boosts records in the requested price tier that are not already excluded.
type PriceStage struct {
	corpus *corpus.Corpus
	config *Config
}

// NewPriceStage creates a new PriceStage.
func NewPriceStage(c *corpus.Corpus, config *Config) *PriceStage {
	return &PriceStage{corpus: c, config: config}
}

// Name returns the stage name.
func (s *PriceStage) Name() string { return "price" }

// Apply implements Stage.
func (s *PriceStage) Apply(scores []float64, qc *QueryContext) error {
	if !qc.HasPrice() {
		return nil
	}
	for i := range scores {
		if scores[i] > s.config.PriceEligibleFloor && s.corpus.Record(i).Tier() == qc.Price {
			scores[i] += s.config.PriceBoost
		}
	}
	return nil
}

// ComboStage adds the perfect-combination bonus to records satisfying the category,
// the price tier and every location that matched the corpus.
type ComboStage struct {
	corpus *corpus.Corpus
	config *Config
}

// NewComboStage creates a new ComboStage.
func NewComboStage(c *corpus.Corpus, config *Config) *ComboStage {
	return &ComboStage{corpus: c, config: config}
}

// Name returns the stage name.
func (s *ComboStage) Name() string { return "combo" }

// Apply implements Stage.
func (s *ComboStage) Apply(scores []float64, qc *QueryContext) error {
	if !qc.HasCategory() || !qc.HasPrice() {
		return nil
	}
	locs := MatchedLocations(s.corpus, qc.Locations)
	for i := range scores {
		if !qc.Category.Matches(s.corpus.CategoryLower(i)) || s.corpus.Record(i).Tier() != qc.Price {
			continue
		}
		ok := true
		for _, loc := range locs {
			if !loc.Matches(s.corpus.AddressLower(i)) {
				ok = false
				break
			}
		}
		if ok {
			scores[i] += s.config.ComboBonus
		}
	}
	return nil
}

// MatchedLocations returns the filters whose variants occur in at least one address.
func MatchedLocations(c *corpus.Corpus, locs []LocationFilter) []LocationFilter {
	var out []LocationFilter
	for _, loc := range locs {
		for i := 0; i < c.Len(); i++ {
			if loc.Matches(c.AddressLower(i)) {
				out = append(out, loc)
				break
			}
		}
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}
