package ranking

import (
	"github.com/hyperjump/kuliner/internal/textproc"
)

// Matcher finds candidate labels in query text on whole-word boundaries and maps each
// hit back to the label as it was registered.
type Matcher struct {
	set    *textproc.PhraseSet
	labels map[string]string
}

// NewMatcher builds a matcher over labels. Labels that clean to the same phrase keep the
// first spelling.
func NewMatcher(labels []string) *Matcher {
	m := &Matcher{labels: make(map[string]string, len(labels))}
	phrases := make([]string, 0, len(labels))
	for _, l := range labels {
		p := textproc.Clean(l)
		if p == "" {
			continue
		}
		if _, ok := m.labels[p]; ok {
			continue
		}
		m.labels[p] = l
		phrases = append(phrases, p)
	}
	m.set = textproc.NewPhraseSet(phrases)
	return m
}

// Len returns the number of distinct candidates.
func (m *Matcher) Len() int { return m.set.Len() }

// Longest returns the longest candidate occurring in text. Ties go to the earliest
// position, then to lexicographic order.
func (m *Matcher) Longest(text string) (string, bool) {
	p, ok := m.set.Longest(text)
	if !ok {
		return "", false
	}
	return m.labels[p], true
}

// All returns every distinct candidate occurring in text, in text order.
func (m *Matcher) All(text string) []string {
	found := m.set.Distinct(text)
	out := make([]string, len(found))
	for i, p := range found {
		out[i] = m.labels[p]
	}
	return out
}
