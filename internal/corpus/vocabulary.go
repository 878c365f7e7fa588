package corpus

import (
	"sort"
	"strings"

	"github.com/hyperjump/kuliner/internal/textproc"
)

// DefaultPriorityTopN is how many frequent menu/address/facility tokens join the priority set.
const DefaultPriorityTopN = 50

// VocabularyOptions feeds the curated parts of the priority vocabulary.
type VocabularyOptions struct {
	// SynonymTargets are the right-hand sides of the synonym table.
	SynonymTargets []string
	// PriorityTerms are hand-picked domain terms.
	PriorityTerms []string
	// IsStopword excludes tokens from the frequency-ranked priority terms.
	IsStopword func(string) bool
	// TopN bounds the frequency-ranked priority terms; DefaultPriorityTopN when zero.
	TopN int
}

// Vocabulary is the set of surface tokens of the raw search text plus the priority subset
// preferred by typo correction. Read-only after BuildVocabulary.
type Vocabulary struct {
	tokens   []string
	set      map[string]struct{}
	priority map[string]struct{}
}

// BuildVocabulary derives the vocabulary from the unstemmed search text of c.
func BuildVocabulary(c *Corpus, opts VocabularyOptions) *Vocabulary {
	v := &Vocabulary{
		set:      make(map[string]struct{}),
		priority: make(map[string]struct{}),
	}
	for i := 0; i < c.Len(); i++ {
		for _, tok := range textproc.Tokens(c.Record(i).SearchText) {
			v.set[tok] = struct{}{}
		}
	}
	v.tokens = sortedKeys(v.set)

	addPriority := func(phrases ...string) {
		for _, p := range phrases {
			for _, tok := range textproc.Tokens(p) {
				v.priority[tok] = struct{}{}
			}
		}
	}
	addPriority(c.CategoryLabels()...)
	addPriority(opts.SynonymTargets...)
	addPriority(opts.PriorityTerms...)
	addPriority(frequentTokens(c, opts)...)
	return v
}

func frequentTokens(c *Corpus, opts VocabularyOptions) []string {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultPriorityTopN
	}
	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		b := c.Record(i)
		text := strings.Join([]string{b.Menu, b.Address, b.Facilities}, " ")
		for _, tok := range textproc.Tokens(text) {
			if len(tok) <= 3 {
				continue
			}
			if opts.IsStopword != nil && opts.IsStopword(tok) {
				continue
			}
			counts[tok]++
		}
	}
	toks := make([]string, 0, len(counts))
	for tok := range counts {
		toks = append(toks, tok)
	}
	sort.Slice(toks, func(i, j int) bool {
		if counts[toks[i]] != counts[toks[j]] {
			return counts[toks[i]] > counts[toks[j]]
		}
		return toks[i] < toks[j]
	})
	if len(toks) > topN {
		toks = toks[:topN]
	}
	return toks
}

// Contains reports whether tok occurs in the corpus search text.
func (v *Vocabulary) Contains(tok string) bool {
	_, ok := v.set[tok]
	return ok
}

// IsPriority reports whether tok is in the priority vocabulary.
func (v *Vocabulary) IsPriority(tok string) bool {
	_, ok := v.priority[tok]
	return ok
}

// Tokens returns the sorted vocabulary. The slice is shared; callers must not modify it.
func (v *Vocabulary) Tokens() []string { return v.tokens }

// Len returns the vocabulary size.
func (v *Vocabulary) Len() int { return len(v.tokens) }

// PriorityLen returns the size of the priority subset.
func (v *Vocabulary) PriorityLen() int { return len(v.priority) }
