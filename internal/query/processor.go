package query

import (
	"github.com/hyperjump/kuliner/internal/textproc"
)

// Processed holds every intermediate form of one query. Each request owns its own value.
type Processed struct {
	// Raw is the query as typed.
	Raw string
	// Display is the cleaned, typo-corrected query echoed back to the caller.
	Display string
	// Canonical is Display with synonyms applied.
	Canonical string
	// Expanded is Canonical followed by semantic expansion phrases.
	Expanded string
	// Stemmed is the normalized Expanded text fed to the similarity model.
	Stemmed string
	// ExactName is set when Raw names a catalog record exactly.
	ExactName bool
	// Corrections lists the tokens replaced by typo correction.
	Corrections []Correction
}

// NameIndex answers exact-name lookups against the corpus.
type NameIndex interface {
	HasExactName(query string) bool
}

// Processor runs the ordered query stages: exact-name check, clean, correct, synonyms,
// expansion and stemming.
type Processor struct {
	names      NameIndex
	corrector  *Corrector
	synonyms   *SynonymReplacer
	expander   *Expander
	normalizer *textproc.Normalizer
}

// NewProcessor wires the query stages together.
func NewProcessor(names NameIndex, corrector *Corrector, synonyms *SynonymReplacer, expander *Expander, normalizer *textproc.Normalizer) *Processor {
	return &Processor{
		names:      names,
		corrector:  corrector,
		synonyms:   synonyms,
		expander:   expander,
		normalizer: normalizer,
	}
}

// Process runs every stage over raw. It never fails; an empty raw query yields empty forms.
func (p *Processor) Process(raw string) *Processed {
	out := &Processed{Raw: raw}
	out.ExactName = p.names.HasExactName(raw)

	cleaned := textproc.Clean(raw)
	if out.ExactName {
		out.Display = cleaned
		out.Canonical = cleaned
	} else {
		out.Display, out.Corrections = p.corrector.Correct(cleaned)
		out.Canonical = p.synonyms.Replace(out.Display)
	}
	out.Expanded = p.expander.Expand(out.Canonical)
	out.Stemmed = p.normalizer.Normalize(out.Expanded)
	return out
}

// TooShort reports whether the query reduced to fewer than minLen stemmed characters
// without naming a record.
func (q *Processed) TooShort(minLen int) bool {
	return !q.ExactName && len([]rune(q.Stemmed)) < minLen
}
