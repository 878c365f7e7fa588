package corpus

import (
	"sort"
	"strings"

	"github.com/hyperjump/kuliner/internal/models"
)

// DefaultCategoryLimit caps FilterByCategory when no limit is given.
const DefaultCategoryLimit = 10

// FilterByCategory returns up to limit records whose category contains category,
// case-insensitively, in corpus order.
func (c *Corpus) FilterByCategory(category string, limit int) ([]*models.Business, error) {
	needle := strings.ToLower(strings.TrimSpace(category))
	if needle == "" {
		return nil, ErrEmptyFilter
	}
	if limit <= 0 {
		limit = DefaultCategoryLimit
	}
	return c.filter(func(i int) bool { return strings.Contains(c.category[i], needle) }, limit), nil
}

// FilterByPrice returns every record whose price tier label contains tier, case-insensitively.
// The tier may be given in English ("low") or as the catalog label ("Murah").
func (c *Corpus) FilterByPrice(tier string) ([]*models.Business, error) {
	needle := strings.ToLower(strings.TrimSpace(tier))
	if needle == "" {
		return nil, ErrEmptyFilter
	}
	if t := models.ParsePriceTier(needle); t != models.TierUnknown {
		needle = strings.ToLower(t.Label())
	}
	return c.filter(func(i int) bool {
		return strings.Contains(strings.ToLower(c.records[i].PriceTier), needle)
	}, 0), nil
}

// FilterByLocation returns every record whose address contains location, case-insensitively.
func (c *Corpus) FilterByLocation(location string) ([]*models.Business, error) {
	needle := strings.ToLower(strings.TrimSpace(location))
	if needle == "" {
		return nil, ErrEmptyFilter
	}
	return c.filter(func(i int) bool { return strings.Contains(c.address[i], needle) }, 0), nil
}

func (c *Corpus) filter(match func(int) bool, limit int) []*models.Business {
	out := []*models.Business{}
	for i := range c.records {
		if !match(i) {
			continue
		}
		b := c.records[i]
		out = append(out, &b)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Stats summarizes the catalog: record count, the top categories by count, and the
// price-tier distribution keyed by label.
func (c *Corpus) Stats(topCategories int) models.Stats {
	if topCategories <= 0 {
		topCategories = 5
	}
	counts := make(map[string]int)
	tiers := make(map[string]int)
	for i := range c.records {
		counts[strings.TrimSpace(c.records[i].Category)]++
		tiers[strings.TrimSpace(c.records[i].PriceTier)]++
	}
	cats := make([]models.CategoryCount, 0, len(counts))
	for cat, n := range counts {
		cats = append(cats, models.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Count != cats[j].Count {
			return cats[i].Count > cats[j].Count
		}
		return cats[i].Category < cats[j].Category
	})
	if len(cats) > topCategories {
		cats = cats[:topCategories]
	}
	return models.Stats{Total: len(c.records), TopCategories: cats, PriceTiers: tiers}
}
