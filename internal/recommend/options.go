package recommend

import (
	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/lexicon"
	"github.com/hyperjump/kuliner/internal/ranking"
	"github.com/hyperjump/kuliner/internal/similarity"
	"github.com/hyperjump/kuliner/internal/textproc"
)

const (
	// DefaultTopN is used when a request asks for zero or fewer results.
	DefaultTopN = 5
	// DefaultMaxTopN bounds the result count of one request.
	DefaultMaxTopN = 100
)

type options struct {
	logger      *zap.Logger
	lexicon     *lexicon.Lexicon
	ranking     *ranking.Config
	vectorizer  similarity.Vectorizer
	stemmer     textproc.Stemmer
	precomputed bool
	warningTopK int
	workers     int
	defaultTopN int
	maxTopN     int
}

func defaultOptions() options {
	return options{
		vectorizer:  similarity.DefaultVectorizer(),
		precomputed: true,
		defaultTopN: DefaultTopN,
		maxTopN:     DefaultMaxTopN,
	}
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger. The engine logs nothing when unset.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLexicon replaces the built-in term tables.
func WithLexicon(lex *lexicon.Lexicon) Option {
	return func(o *options) { o.lexicon = lex }
}

// WithRankingConfig replaces the scoring constants. Zero fields take their defaults.
func WithRankingConfig(cfg *ranking.Config) Option {
	return func(o *options) { o.ranking = cfg }
}

// WithVectorizer sets the TF-IDF parameters.
func WithVectorizer(v similarity.Vectorizer) Option {
	return func(o *options) { o.vectorizer = v }
}

// WithStemmer replaces the Sastrawi stemmer, mostly for tests.
func WithStemmer(s textproc.Stemmer) Option {
	return func(o *options) { o.stemmer = s }
}

// WithPrecomputed controls whether normalized text already present on the records is
// trusted. When false every record is normalized again.
func WithPrecomputed(ok bool) Option {
	return func(o *options) { o.precomputed = ok }
}

// WithWarningTopK sets how many leading results the price warning inspects.
func WithWarningTopK(k int) Option {
	return func(o *options) { o.warningTopK = k }
}

// WithWorkers bounds the parallel normalization at construction.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithTopN sets the default and maximum result counts.
func WithTopN(def, limit int) Option {
	return func(o *options) {
		if def > 0 {
			o.defaultTopN = def
		}
		if limit > 0 {
			o.maxTopN = limit
		}
	}
}
