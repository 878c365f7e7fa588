package ranking

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/corpus"
	"github.com/hyperjump/kuliner/internal/models"
)

// Pipeline runs the heuristic stages in a fixed order.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline over the given stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// DefaultPipeline returns the standard stage order: category, location, content, price,
// combo, name.
func DefaultPipeline(c *corpus.Corpus, config *Config, logger *zap.Logger) *Pipeline {
	return NewPipeline(
		NewCategoryStage(c, config),
		NewLocationStage(c, config),
		NewContentStage(c, config),
		NewPriceStage(c, config),
		NewComboStage(c, config),
		NewNameStage(c, config, logger),
	)
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run copies base and applies every stage to the copy. base is never modified.
func (p *Pipeline) Run(base []float64, qc *QueryContext) ([]float64, error) {
	scores := make([]float64, len(base))
	copy(scores, base)
	for _, s := range p.stages {
		if err := s.Apply(scores, qc); err != nil {
			return nil, fmt.Errorf("%s stage: %w", s.Name(), err)
		}
	}
	return scores, nil
}

// Ranker selects the final result list from a scored vector.
type Ranker struct {
	corpus *corpus.Corpus
	config *Config
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(c *corpus.Corpus, config *Config) *Ranker {
	if config == nil {
		config = DefaultConfig()
	}
	return &Ranker{corpus: c, config: config}
}

// Rank returns up to topN records with a positive score, best first; ties keep corpus
// order. When nothing qualifies it falls back to a substring search over the raw search
// text and reports fallback as true.
func (r *Ranker) Rank(scores []float64, qc *QueryContext, topN int) (results []*models.ScoredBusiness, fallback bool) {
	for _, i := range topIndices(scores, topN) {
		if scores[i] <= 0 {
			break
		}
		results = append(results, r.scored(i, scores[i], len(results)+1))
	}
	if len(results) > 0 {
		return results, false
	}

	needle := strings.ToLower(strings.TrimSpace(qc.Query.Display))
	if len([]rune(needle)) < r.config.FallbackMinQueryLen {
		return nil, false
	}
	for i := 0; i < r.corpus.Len() && len(results) < topN; i++ {
		if strings.Contains(r.corpus.SearchLower(i), needle) {
			results = append(results, r.scored(i, r.config.FallbackScore, len(results)+1))
		}
	}
	return results, len(results) > 0
}

// scored copies the record so callers never alias corpus state.
func (r *Ranker) scored(i int, score float64, rank int) *models.ScoredBusiness {
	b := *r.corpus.Record(i)
	return &models.ScoredBusiness{Business: &b, Score: score, Rank: rank}
}

// topIndices returns the indices of the k highest scores, descending, ties in index order.
func topIndices(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	if k >= 0 && k < len(idx) {
		idx = idx[:k]
	}
	return idx
}
