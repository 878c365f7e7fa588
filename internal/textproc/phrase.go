package textproc

import (
	"sort"
	"strings"
)

// Match is one occurrence of a phrase inside a token sequence. Start and End are token
// offsets, End exclusive.
type Match struct {
	Phrase string
	Start  int
	End    int
}

type trieNode struct {
	children map[string]*trieNode
	phrase   string
	terminal bool
}

// PhraseSet matches cleaned multi-word phrases on whole-token boundaries.
// It is immutable once built and safe for concurrent use.
type PhraseSet struct {
	root *trieNode
	size int
}

// NewPhraseSet builds a token trie from phrases. Each phrase is cleaned first; empty
// phrases and duplicates are ignored.
func NewPhraseSet(phrases []string) *PhraseSet {
	ps := &PhraseSet{root: &trieNode{children: make(map[string]*trieNode)}}
	for _, p := range phrases {
		ps.add(p)
	}
	return ps
}

func (ps *PhraseSet) add(phrase string) {
	tokens := Tokens(phrase)
	if len(tokens) == 0 {
		return
	}
	node := ps.root
	for _, tok := range tokens {
		next, ok := node.children[tok]
		if !ok {
			next = &trieNode{children: make(map[string]*trieNode)}
			node.children[tok] = next
		}
		node = next
	}
	if !node.terminal {
		node.terminal = true
		node.phrase = strings.Join(tokens, " ")
		ps.size++
	}
}

// Len returns the number of distinct phrases.
func (ps *PhraseSet) Len() int {
	if ps == nil {
		return 0
	}
	return ps.size
}

// FindAll returns every phrase occurrence in tokens, ordered by start position and then
// by phrase length. Overlapping occurrences are all reported.
func (ps *PhraseSet) FindAll(tokens []string) []Match {
	if ps == nil || ps.size == 0 {
		return nil
	}
	var matches []Match
	for i := range tokens {
		node := ps.root
		for j := i; j < len(tokens); j++ {
			next, ok := node.children[tokens[j]]
			if !ok {
				break
			}
			node = next
			if node.terminal {
				matches = append(matches, Match{Phrase: node.phrase, Start: i, End: j + 1})
			}
		}
	}
	return matches
}

// Contains reports whether phrase occurs anywhere in text on token boundaries.
func Contains(text, phrase string) bool {
	return len(NewPhraseSet([]string{phrase}).FindAll(Tokens(text))) > 0
}

// Longest returns the longest phrase (by character length) occurring in text. Ties go
// to the earliest occurrence, then to the lexicographically smaller phrase.
func (ps *PhraseSet) Longest(text string) (string, bool) {
	matches := ps.FindAll(Tokens(text))
	if len(matches) == 0 {
		return "", false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		switch {
		case len(m.Phrase) > len(best.Phrase):
			best = m
		case len(m.Phrase) == len(best.Phrase) && m.Start == best.Start && m.Phrase < best.Phrase:
			best = m
		}
	}
	return best.Phrase, true
}

// Distinct returns the distinct phrases found in text, in order of first occurrence.
func (ps *PhraseSet) Distinct(text string) []string {
	matches := ps.FindAll(Tokens(text))
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		if _, ok := seen[m.Phrase]; ok {
			continue
		}
		seen[m.Phrase] = struct{}{}
		out = append(out, m.Phrase)
	}
	return out
}

// Replacer substitutes phrases token-wise in a single left-to-right pass. At each position
// the longest key wins; replacement output is never rescanned.
type Replacer struct {
	keys    *PhraseSet
	mapping map[string]string
}

// NewReplacer builds a replacer from cleaned key/value pairs. Later duplicates of a key
// are ignored.
func NewReplacer(pairs [][2]string) *Replacer {
	r := &Replacer{mapping: make(map[string]string, len(pairs))}
	keys := make([]string, 0, len(pairs))
	for _, p := range pairs {
		k := Clean(p[0])
		if k == "" {
			continue
		}
		if _, dup := r.mapping[k]; dup {
			continue
		}
		r.mapping[k] = Clean(p[1])
		keys = append(keys, k)
	}
	r.keys = NewPhraseSet(keys)
	return r
}

// Keys returns the sorted replacement keys.
func (r *Replacer) Keys() []string {
	keys := make([]string, 0, len(r.mapping))
	for k := range r.mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Replace applies the substitutions to the cleaned form of text.
func (r *Replacer) Replace(text string) string {
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return ""
	}
	longestAt := make(map[int]Match)
	for _, m := range r.keys.FindAll(tokens) {
		if cur, ok := longestAt[m.Start]; !ok || m.End > cur.End {
			longestAt[m.Start] = m
		}
	}
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if m, ok := longestAt[i]; ok {
			if v := r.mapping[m.Phrase]; v != "" {
				out = append(out, v)
			}
			i = m.End
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return strings.Join(out, " ")
}
