package ranking

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/corpus"
)

// NameStage overrides everything for an exact record name and otherwise gives at most
// one fuzzy bonus to a well-ranked record whose name is close to the query.
type NameStage struct {
	corpus *corpus.Corpus
	config *Config
	logger *zap.Logger

	similarity func(a, b string) float64
}

// NewNameStage creates a new NameStage.
func NewNameStage(c *corpus.Corpus, config *Config, logger *zap.Logger) *NameStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NameStage{corpus: c, config: config, logger: logger, similarity: NameSimilarity}
}

// Name returns the stage name.
func (s *NameStage) Name() string { return "name" }

// Apply implements Stage. Fuzzy matching is best effort and never fails the request.
func (s *NameStage) Apply(scores []float64, qc *QueryContext) error {
	if exact := s.corpus.ExactNameMatches(qc.Name); len(exact) > 0 {
		for _, i := range exact {
			scores[i] += s.config.ExactNameBonus
		}
		return nil
	}
	if err := s.fuzzy(scores, qc); err != nil {
		s.logger.Warn("fuzzy name match failed, ignoring",
			zap.String("query", qc.Name),
			zap.Error(err))
	}
	return nil
}

func (s *NameStage) fuzzy(scores []float64, qc *QueryContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fuzzy matcher panicked: %v", r)
		}
	}()

	n := utf8.RuneCountInString(qc.Name)
	if n < s.config.FuzzyMinQueryLen {
		return nil
	}
	for _, i := range topIndices(scores, s.config.FuzzyCandidates) {
		sim := s.similarity(qc.Name, s.corpus.NormalizedName(i))
		switch {
		case sim >= s.config.FuzzyStrongThreshold:
			scores[i] += s.config.FuzzyStrongBonus
			return nil
		case sim >= s.config.FuzzyGoodThreshold && n >= s.config.FuzzyGoodMinQueryLen:
			scores[i] += s.config.FuzzyGoodBonus
			return nil
		}
	}
	return nil
}
