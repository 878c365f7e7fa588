// Package recommend wires the query, similarity, ranking and warning stages into the
// recommendation engine.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/corpus"
	"github.com/hyperjump/kuliner/internal/dataset"
	"github.com/hyperjump/kuliner/internal/lexicon"
	"github.com/hyperjump/kuliner/internal/models"
	"github.com/hyperjump/kuliner/internal/query"
	"github.com/hyperjump/kuliner/internal/ranking"
	"github.com/hyperjump/kuliner/internal/similarity"
	"github.com/hyperjump/kuliner/internal/textproc"
	"github.com/hyperjump/kuliner/internal/warning"
)

var (
	// ErrEmptyQuery is returned for a blank or whitespace-only query.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrInvalidTopN is returned when a request asks for more results than allowed.
	ErrInvalidTopN = errors.New("top_n out of range")
)

// Engine answers recommendation queries over one frozen catalog snapshot. It never
// changes after New returns and is safe for concurrent use.
type Engine struct {
	logger    *zap.Logger
	corpus    *corpus.Corpus
	vocab     *corpus.Vocabulary
	model     *similarity.Model
	processor *query.Processor
	analyzer  *ranking.Analyzer
	pipeline  *ranking.Pipeline
	ranker    *ranking.Ranker
	warnings  *warning.Generator
	config    *ranking.Config

	defaultTopN int
	maxTopN     int
	builtAt     time.Time
}

// Info describes a built engine.
type Info struct {
	Records    int       `json:"records"`
	Features   int       `json:"features"`
	Vocabulary int       `json:"vocabulary"`
	Stages     []string  `json:"stages"`
	BuiltAt    time.Time `json:"built_at"`
}

// New builds an engine from records. See Build.
func New(records []models.Business, opts ...Option) (*Engine, error) {
	return Build(context.Background(), records, opts...)
}

// Build validates records, normalizes their search text in parallel, fits the similarity
// model and derives every lookup table. It fails without a partial engine when the
// catalog is empty or no record has search text.
func Build(ctx context.Context, records []models.Business, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.lexicon == nil {
		lex, err := lexicon.Default()
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		o.lexicon = lex
	}
	cfg := ranking.DefaultConfig()
	if o.ranking != nil {
		c := *o.ranking
		c.ApplyDefaults()
		cfg = &c
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o.vectorizer.ApplyDefaults()
	if err := o.vectorizer.Validate(); err != nil {
		return nil, fmt.Errorf("vectorizer: %w", err)
	}

	start := time.Now()
	raw, err := corpus.New(records)
	if err != nil {
		return nil, err
	}

	var normOpts []textproc.NormalizerOption
	if o.stemmer != nil {
		normOpts = append(normOpts, textproc.WithStemmer(o.stemmer))
	}
	normalizer := textproc.NewNormalizer(o.lexicon.Stopwords(), normOpts...)

	prepared := raw.Records()
	err = dataset.Precompute(ctx, prepared, normalizer, dataset.PrecomputeOptions{
		Workers: o.workers,
		Force:   !o.precomputed,
	})
	if err != nil {
		return nil, err
	}
	c, err := corpus.New(prepared)
	if err != nil {
		return nil, err
	}

	docs := make([]string, c.Len())
	for i := range docs {
		docs[i] = c.Record(i).NormalizedText
	}
	model, err := o.vectorizer.Fit(docs)
	if err != nil {
		return nil, fmt.Errorf("fit similarity model: %w", err)
	}

	vocab := corpus.BuildVocabulary(c, corpus.VocabularyOptions{
		SynonymTargets: o.lexicon.SynonymTargets(),
		PriorityTerms:  o.lexicon.PriorityTerms(),
		IsStopword:     normalizer.IsStopword,
	})
	processor := query.NewProcessor(c,
		query.NewCorrector(vocab, o.lexicon.KnownTerms()),
		query.NewSynonymReplacer(o.lexicon.Synonyms()),
		query.NewExpander(o.lexicon.Expansions()),
		normalizer,
	)

	var warnOpts []warning.Option
	if o.warningTopK > 0 {
		warnOpts = append(warnOpts, warning.WithTopK(o.warningTopK))
	}

	e := &Engine{
		logger:      o.logger,
		corpus:      c,
		vocab:       vocab,
		model:       model,
		processor:   processor,
		analyzer:    ranking.NewAnalyzer(c, o.lexicon, o.logger),
		pipeline:    ranking.DefaultPipeline(c, cfg, o.logger),
		ranker:      ranking.NewRanker(c, cfg),
		warnings:    warning.New(warnOpts...),
		config:      cfg,
		defaultTopN: o.defaultTopN,
		maxTopN:     o.maxTopN,
		builtAt:     time.Now(),
	}
	o.logger.Info("Engine built",
		zap.Int("records", c.Len()),
		zap.Int("features", model.Features()),
		zap.Int("vocabulary", vocab.Len()),
		zap.Duration("took", time.Since(start)))
	return e, nil
}

// Recommend ranks the catalog for q. topN of zero or less means the default. An empty
// result list with no warning is a valid answer.
func (e *Engine) Recommend(q string, filter models.PriceFilter, topN int) (*models.Recommendation, error) {
	if strings.TrimSpace(q) == "" {
		return nil, ErrEmptyQuery
	}
	if topN <= 0 {
		topN = e.defaultTopN
	}
	if topN > e.maxTopN {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidTopN, topN, e.maxTopN)
	}

	start := time.Now()
	pq := e.processor.Process(q)
	rec := &models.Recommendation{
		Query:         q,
		ResolvedQuery: pq.Display,
		Mode:          ranking.ModeFlexible.String(),
		Results:       []*models.ScoredBusiness{},
	}
	if pq.TooShort(e.config.MinStemmedLen) {
		e.logger.Debug("Query too short after normalization",
			zap.String("query", q),
			zap.String("stemmed", pq.Stemmed))
		return rec, nil
	}

	qc := e.analyzer.Analyze(pq, filter)
	rec.Mode = qc.Mode.String()

	scores, err := e.pipeline.Run(e.model.Score(pq.Stemmed), qc)
	if err != nil {
		return nil, fmt.Errorf("score %q: %w", q, err)
	}
	results, fallback := e.ranker.Rank(scores, qc, topN)
	if len(results) > 0 {
		rec.Results = results
	}
	rec.Fallback = fallback

	w := e.warnings.Evaluate(warning.Input{Query: pq.Display, Top: results, Context: qc})
	rec.Warning = w.Message
	rec.WarningKind = string(w.Kind)

	e.logger.Debug("Recommendation",
		zap.String("query", q),
		zap.String("resolved", pq.Display),
		zap.String("canonical", pq.Canonical),
		zap.String("mode", rec.Mode),
		zap.String("strict", qc.Strict.String()),
		zap.Stringer("price", qc.Price),
		zap.Int("locations", len(qc.Locations)),
		zap.Strings("content", qc.ContentWords),
		zap.Int("results", len(rec.Results)),
		zap.Bool("fallback", fallback),
		zap.String("warning", string(w.Kind)),
		zap.Duration("took", time.Since(start)))
	return rec, nil
}

// Categories returns the distinct catalog categories, sorted.
func (e *Engine) Categories() []string { return e.corpus.CategoryLabels() }

// FilterByCategory returns up to limit records of category; limit <= 0 means corpus.DefaultCategoryLimit.
func (e *Engine) FilterByCategory(category string, limit int) ([]*models.Business, error) {
	return e.corpus.FilterByCategory(category, limit)
}

// FilterByPrice returns every record with the given tier label.
func (e *Engine) FilterByPrice(tier string) ([]*models.Business, error) {
	return e.corpus.FilterByPrice(tier)
}

// FilterByLocation returns every record whose address contains location.
func (e *Engine) FilterByLocation(location string) ([]*models.Business, error) {
	return e.corpus.FilterByLocation(location)
}

// Stats summarizes the catalog.
func (e *Engine) Stats() models.Stats { return e.corpus.Stats(5) }

// Len returns the number of catalog records.
func (e *Engine) Len() int { return e.corpus.Len() }

// Records returns a copy of the catalog with normalized text filled in.
func (e *Engine) Records() []models.Business { return e.corpus.Records() }

// Info describes the engine.
func (e *Engine) Info() Info {
	return Info{
		Records:    e.corpus.Len(),
		Features:   e.model.Features(),
		Vocabulary: e.vocab.Len(),
		Stages:     e.pipeline.Stages(),
		BuiltAt:    e.builtAt,
	}
}
