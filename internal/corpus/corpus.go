// Package corpus holds the immutable catalog snapshot and the vocabulary derived from it.
package corpus

import (
	"errors"
	"sort"
	"strings"

	"github.com/hyperjump/kuliner/internal/models"
	"github.com/hyperjump/kuliner/internal/textproc"
)

var (
	// ErrEmptyCorpus is returned when no records are supplied.
	ErrEmptyCorpus = errors.New("corpus is empty")
	// ErrEmptySearchText is returned when every record has blank search text.
	ErrEmptySearchText = errors.New("search text column is empty for every record")
	// ErrEmptyFilter is returned by the auxiliary filters on blank input.
	ErrEmptyFilter = errors.New("filter value must not be empty")
)

// minTagLen is the shortest tag kept for visitor-type, ambience and facility matching.
const minTagLen = 4

// Corpus is an ordered, read-only sequence of records plus per-record lower-cased fields.
// Nothing in it changes after New returns.
type Corpus struct {
	records []models.Business

	names    []string
	byName   map[string][]int
	name     []string
	menu     []string
	address  []string
	category []string
	visitors []string
	search   []string

	categoryLabels []string
	visitorTypes   []string
}

// New copies records into a frozen corpus. IDs are reassigned to row positions.
func New(records []models.Business) (*Corpus, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCorpus
	}
	n := len(records)
	c := &Corpus{
		records:  make([]models.Business, n),
		names:    make([]string, n),
		byName:   make(map[string][]int, n),
		name:     make([]string, n),
		menu:     make([]string, n),
		address:  make([]string, n),
		category: make([]string, n),
		visitors: make([]string, n),
		search:   make([]string, n),
	}
	copy(c.records, records)

	nonEmpty := false
	categories := make(map[string]string)
	visitorTypes := make(map[string]struct{})
	for i := range c.records {
		b := &c.records[i]
		b.ID = i
		if strings.TrimSpace(b.SearchText) != "" {
			nonEmpty = true
		}
		c.names[i] = textproc.CollapseSpaces(b.Name)
		c.byName[c.names[i]] = append(c.byName[c.names[i]], i)
		c.name[i] = strings.ToLower(b.Name)
		c.menu[i] = strings.ToLower(b.Menu)
		c.address[i] = strings.ToLower(b.Address)
		c.category[i] = strings.ToLower(strings.TrimSpace(b.Category))
		c.visitors[i] = strings.ToLower(b.VisitorTypes)
		c.search[i] = strings.ToLower(b.SearchText)

		if c.category[i] != "" {
			if _, ok := categories[c.category[i]]; !ok {
				categories[c.category[i]] = strings.TrimSpace(b.Category)
			}
		}
		for _, tag := range b.VisitorTypeTags() {
			if len(tag) >= minTagLen {
				visitorTypes[tag] = struct{}{}
			}
		}
	}
	if !nonEmpty {
		return nil, ErrEmptySearchText
	}

	for _, label := range categories {
		c.categoryLabels = append(c.categoryLabels, label)
	}
	sort.Strings(c.categoryLabels)
	c.visitorTypes = sortedKeys(visitorTypes)
	return c, nil
}

// Len returns the number of records; every score vector has this length.
func (c *Corpus) Len() int { return len(c.records) }

// Record returns record i. The pointer refers to corpus-owned memory and must not be modified.
func (c *Corpus) Record(i int) *models.Business { return &c.records[i] }

// Records returns a copy of all records.
func (c *Corpus) Records() []models.Business {
	out := make([]models.Business, len(c.records))
	copy(out, c.records)
	return out
}

// NameLower, MenuLower, AddressLower, CategoryLower, VisitorTypesLower and SearchLower
// return the lower-cased field of record i.
func (c *Corpus) NameLower(i int) string         { return c.name[i] }
func (c *Corpus) MenuLower(i int) string         { return c.menu[i] }
func (c *Corpus) AddressLower(i int) string      { return c.address[i] }
func (c *Corpus) CategoryLower(i int) string     { return c.category[i] }
func (c *Corpus) VisitorTypesLower(i int) string { return c.visitors[i] }
func (c *Corpus) SearchLower(i int) string       { return c.search[i] }

// NormalizedName returns the whitespace/case-normalized name of record i.
func (c *Corpus) NormalizedName(i int) string { return c.names[i] }

// ExactNameMatches returns the records whose normalized name equals the normalized query.
func (c *Corpus) ExactNameMatches(query string) []int {
	return c.byName[textproc.CollapseSpaces(query)]
}

// HasExactName reports whether any record is named exactly query.
func (c *Corpus) HasExactName(query string) bool {
	return len(c.ExactNameMatches(query)) > 0
}

// CategoryLabels returns the distinct category labels, sorted.
func (c *Corpus) CategoryLabels() []string {
	return append([]string(nil), c.categoryLabels...)
}

// VisitorTypes returns the distinct visitor-type tags of at least four characters.
func (c *Corpus) VisitorTypes() []string {
	return append([]string(nil), c.visitorTypes...)
}

// AddressWords returns the distinct purely alphabetic address words of at least four
// characters for which ignore returns false.
func (c *Corpus) AddressWords(ignore func(string) bool) []string {
	set := make(map[string]struct{})
	for _, addr := range c.address {
		for _, w := range textproc.Tokens(addr) {
			if len(w) < minTagLen || !isAlpha(w) {
				continue
			}
			if ignore != nil && ignore(w) {
				continue
			}
			set[w] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// AmbienceTags returns the distinct ambience tags of at least four characters.
func (c *Corpus) AmbienceTags() []string {
	return c.tags(func(b *models.Business) []string { return b.AmbienceTags() })
}

// FacilityTags returns the distinct facility tags of at least four characters.
func (c *Corpus) FacilityTags() []string {
	return c.tags(func(b *models.Business) []string { return b.FacilityTags() })
}

func (c *Corpus) tags(field func(*models.Business) []string) []string {
	set := make(map[string]struct{})
	for i := range c.records {
		for _, tag := range field(&c.records[i]) {
			if len(tag) >= minTagLen {
				set[tag] = struct{}{}
			}
		}
	}
	return sortedKeys(set)
}

func isAlpha(w string) bool {
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return w != ""
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
