// Package query turns a raw user query into the forms consumed by scoring: corrected,
// canonicalized, expanded and stemmed.
package query

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// Vocabulary is the corpus snapshot the corrector suggests from.
type Vocabulary interface {
	Contains(tok string) bool
	IsPriority(tok string) bool
	Tokens() []string
}

// Candidate is one close vocabulary match for a token.
type Candidate struct {
	Term  string
	Ratio float64
}

// Correction records a token that was replaced.
type Correction struct {
	From string
	To   string
}

// Corrector fixes misspelled query tokens against a frozen vocabulary.
type Corrector struct {
	vocab Vocabulary
	known map[string]struct{}

	longCutoff    float64
	shortCutoff   float64
	shortLen      int
	maxCandidates int
}

// CorrectorOption configures a Corrector.
type CorrectorOption func(*Corrector)

// WithCutoffs sets the similarity cutoffs for long and short tokens.
func WithCutoffs(long, short float64) CorrectorOption {
	return func(c *Corrector) {
		if long > 0 && long <= 1 {
			c.longCutoff = long
		}
		if short > 0 && short <= 1 {
			c.shortCutoff = short
		}
	}
}

// WithShortLength sets the maximum rune length of a token that uses the short cutoff.
func WithShortLength(n int) CorrectorOption {
	return func(c *Corrector) {
		if n > 0 {
			c.shortLen = n
		}
	}
}

// WithMaxCandidates sets how many close matches are considered per token.
func WithMaxCandidates(n int) CorrectorOption {
	return func(c *Corrector) {
		if n > 0 {
			c.maxCandidates = n
		}
	}
}

// NewCorrector creates a corrector. Tokens in known are never corrected.
func NewCorrector(vocab Vocabulary, known []string, opts ...CorrectorOption) *Corrector {
	c := &Corrector{
		vocab:         vocab,
		known:         make(map[string]struct{}, len(known)),
		longCutoff:    0.82,
		shortCutoff:   0.70,
		shortLen:      4,
		maxCandidates: 3,
	}
	for _, w := range known {
		c.known[w] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Correct rewrites every correctable token of the cleaned text and reports what changed.
func (c *Corrector) Correct(cleaned string) (string, []Correction) {
	tokens := strings.Fields(cleaned)
	var corrections []Correction
	for i, tok := range tokens {
		if !c.needsCorrection(tok) {
			continue
		}
		best, ok := c.choose(c.Suggest(tok))
		if !ok || best == tok {
			continue
		}
		corrections = append(corrections, Correction{From: tok, To: best})
		tokens[i] = best
	}
	return strings.Join(tokens, " "), corrections
}

// IsKnown reports whether tok is left untouched by correction.
func (c *Corrector) IsKnown(tok string) bool {
	if c.vocab.Contains(tok) {
		return true
	}
	_, ok := c.known[tok]
	return ok
}

func (c *Corrector) needsCorrection(tok string) bool {
	if tok == "" || c.IsKnown(tok) {
		return false
	}
	for _, r := range tok {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Suggest returns up to maxCandidates vocabulary tokens whose ratio to tok clears the
// cutoff, best first. Equal ratios are ordered alphabetically.
func (c *Corrector) Suggest(tok string) []Candidate {
	target := chars(tok)
	cutoff := c.longCutoff
	if len(target) <= c.shortLen {
		cutoff = c.shortCutoff
	}

	m := difflib.NewMatcher(nil, target)
	var out []Candidate
	for _, term := range c.vocab.Tokens() {
		m.SetSeq1(chars(term))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if r := m.Ratio(); r >= cutoff {
			out = append(out, Candidate{Term: term, Ratio: r})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ratio != out[j].Ratio {
			return out[i].Ratio > out[j].Ratio
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > c.maxCandidates {
		out = out[:c.maxCandidates]
	}
	return out
}

// choose prefers the first priority candidate over the best-scoring one.
func (c *Corrector) choose(cands []Candidate) (string, bool) {
	if len(cands) == 0 {
		return "", false
	}
	for _, cand := range cands {
		if c.vocab.IsPriority(cand.Term) {
			return cand.Term, true
		}
	}
	return cands[0].Term, true
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
