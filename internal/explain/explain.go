// Package explain selects the canned texts shown next to a chart. Every
// lookup is total: missing catalog entries degrade to deterministic fallbacks.
package explain

import (
	"strings"

	"github.com/macrolens/macrolens/internal/analytics"
	"github.com/macrolens/macrolens/internal/catalog"
)

// Descriptor is a fully populated metadata view of an indicator
type Descriptor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Unit        string `json:"unit"`
	Category    string `json:"category"`
	Explanation string `json:"explanation"`
}

// Selector resolves explanations against a catalog
type Selector struct {
	cat *catalog.Catalog
}

// New creates a Selector over cat
func New(cat *catalog.Catalog) *Selector {
	return &Selector{cat: cat}
}

// Describe returns the metadata for id. Unknown ids fall back to the raw id
// as display name, an empty unit and the catalog's "other" category.
func (s *Selector) Describe(id string) Descriptor {
	d := Descriptor{
		ID:          id,
		DisplayName: id,
		Category:    s.cat.Texts.OtherCategory,
	}
	meta, ok := s.cat.Indicators[id]
	if !ok {
		return d
	}
	if meta.DisplayName != "" {
		d.DisplayName = meta.DisplayName
	}
	if meta.Category != "" {
		d.Category = meta.Category
	}
	d.Unit = meta.Unit
	d.Explanation = meta.Explanation
	return d
}

// DisplayName is shorthand for Describe(id).DisplayName
func (s *Selector) DisplayName(id string) string {
	return s.Describe(id).DisplayName
}

// Relationship looks up "a_b", then "b_a", then builds the generic sentence
func (s *Selector) Relationship(a, b string) string {
	if text, ok := s.cat.Relationships[a+"_"+b]; ok {
		return text
	}
	if text, ok := s.cat.Relationships[b+"_"+a]; ok {
		return text
	}
	return strings.NewReplacer(
		"{a}", s.DisplayName(a),
		"{b}", s.DisplayName(b),
	).Replace(s.cat.Texts.RelationshipFallback)
}

// Seasonal returns the seasonal text for id or the generic one
func (s *Selector) Seasonal(id string) string {
	if text, ok := s.cat.Seasonal[id]; ok {
		return text
	}
	return s.cat.Texts.SeasonalFallback
}

// BandLabel renders a correlation band in the catalog's wording
func (s *Selector) BandLabel(band analytics.Band) string {
	text, ok := s.cat.Texts.Bands[string(band.Strength)]
	if !ok {
		return string(band.Strength)
	}
	if band.Negative {
		return text.Negative
	}
	return text.Positive
}

// Group is a category with its indicators, in first-seen order
type Group struct {
	Category   string       `json:"category"`
	Indicators []Descriptor `json:"indicators"`
}

// Groups buckets ids by category for the selection panel
func (s *Selector) Groups(ids []string) []Group {
	var groups []Group
	pos := make(map[string]int)
	for _, id := range ids {
		d := s.Describe(id)
		i, ok := pos[d.Category]
		if !ok {
			i = len(groups)
			pos[d.Category] = i
			groups = append(groups, Group{Category: d.Category})
		}
		groups[i].Indicators = append(groups[i].Indicators, d)
	}
	return groups
}
