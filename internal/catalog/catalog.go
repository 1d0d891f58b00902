// Package catalog holds the static, read-only resources of the dashboard:
// indicator metadata, chart descriptors, canned explanations and events.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

//go:embed default.json
var defaultJSON []byte

// Indicator is the display metadata for one indicator id
type Indicator struct {
	DisplayName string `json:"display_name"`
	Unit        string `json:"unit"`
	Category    string `json:"category"`
	Explanation string `json:"explanation"`
}

// Chart describes a chart type and its inclusive indicator-count bounds
type Chart struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	Reason        string `json:"reason"`
	MinIndicators int    `json:"min_indicators"`
	MaxIndicators int    `json:"max_indicators"`
	Description   string `json:"description"`
}

// Accepts reports whether n lies within the chart's bounds
func (c Chart) Accepts(n int) bool {
	return n >= c.MinIndicators && n <= c.MaxIndicators
}

// Event is a dated annotation for time-axis charts
type Event struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Text  string     `json:"event"`
}

// Date returns the first day of the event month
func (e Event) Date() time.Time {
	return time.Date(e.Year, e.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Defaults is the initial dashboard state
type Defaults struct {
	Indicators []string `json:"indicators"`
	Chart      string   `json:"chart"`
}

// BandText is the label pair for one correlation strength
type BandText struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
}

// Headings used by the explanation panel. Placeholders are {name}, {a} and {b}.
type Headings struct {
	Chart        string `json:"chart"`
	Indicator    string `json:"indicator"`
	Seasonal     string `json:"seasonal"`
	Relationship string `json:"relationship"`
	Coefficient  string `json:"coefficient"`
	Selection    string `json:"selection"`
	NoPartner    string `json:"no_partner"`
}

// Texts are the user-facing fallback and label strings
type Texts struct {
	OtherCategory string `json:"other_category"`
	// RelationshipFallback takes {a} and {b} display names
	RelationshipFallback string              `json:"relationship_fallback"`
	SeasonalFallback     string              `json:"seasonal_fallback"`
	// Admission texts take {limit}, the violated bound
	AdmissionTooFew  string              `json:"admission_too_few"`
	AdmissionTooMany string              `json:"admission_too_many"`
	Bands            map[string]BandText `json:"bands"`
	Headings         Headings            `json:"headings"`
}

// Catalog is the full static resource bundle
type Catalog struct {
	Indicators    map[string]Indicator `json:"indicators"`
	Charts        []Chart              `json:"charts"`
	Relationships map[string]string    `json:"relationships"`
	Seasonal      map[string]string    `json:"seasonal"`
	Events        []Event              `json:"events"`
	Defaults      Defaults             `json:"defaults"`
	Texts         Texts                `json:"texts"`
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultJSON)
})

// Default returns the embedded catalog. The result is shared and must not be modified.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Load reads a catalog from path, or returns the embedded one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// Validate checks the chart bounds and the texts every lookup falls back to
func (c *Catalog) Validate() error {
	if len(c.Charts) == 0 {
		return fmt.Errorf("charts is required")
	}

	seen := make(map[string]bool, len(c.Charts))
	for _, ch := range c.Charts {
		if ch.ID == "" {
			return fmt.Errorf("chart id is required")
		}
		if seen[ch.ID] {
			return fmt.Errorf("duplicate chart id: %s", ch.ID)
		}
		seen[ch.ID] = true

		if ch.MinIndicators < 1 {
			return fmt.Errorf("chart %s: min_indicators must be at least 1", ch.ID)
		}
		if ch.MaxIndicators < ch.MinIndicators {
			return fmt.Errorf("chart %s: max_indicators cannot be less than min_indicators", ch.ID)
		}
	}

	if c.Defaults.Chart != "" && !seen[c.Defaults.Chart] {
		return fmt.Errorf("defaults.chart references unknown chart: %s", c.Defaults.Chart)
	}

	if c.Texts.RelationshipFallback == "" {
		return fmt.Errorf("texts.relationship_fallback is required")
	}
	if c.Texts.SeasonalFallback == "" {
		return fmt.Errorf("texts.seasonal_fallback is required")
	}

	for _, e := range c.Events {
		if e.Month < time.January || e.Month > time.December {
			return fmt.Errorf("event %q: invalid month %d", e.Text, e.Month)
		}
	}

	return nil
}

// Chart returns the descriptor for id
func (c *Catalog) Chart(id string) (Chart, bool) {
	for _, ch := range c.Charts {
		if ch.ID == id {
			return ch, true
		}
	}
	return Chart{}, false
}

// EventsBetween returns the events whose month falls within [from, to]
func (c *Catalog) EventsBetween(from, to time.Time) []Event {
	var out []Event
	for _, e := range c.Events {
		d := e.Date()
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}
