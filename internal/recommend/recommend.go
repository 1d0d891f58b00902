// Package recommend classifies chart types against a selection size and
// guards chart switches with an admission check.
package recommend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/macrolens/macrolens/internal/catalog"
)

// ErrUnknownChart is returned for a chart id that is not in the catalog
var ErrUnknownChart = errors.New("unknown chart")

// Suitability of a chart type for a given selection size
type Suitability string

const (
	Recommended    Suitability = "recommended"
	Possible       Suitability = "possible"
	NotRecommended Suitability = "not-recommended"
)

// Chart family membership by id
var (
	singleFamily = map[string]bool{
		"line":     true,
		"seasonal": true,
		"calendar": true,
	}
	comparisonFamily = map[string]bool{
		"multi-line": true,
		"area":       true,
		"bar":        true,
		"heatmap":    true,
	}
)

const relationshipChart = "scatter"

// Recommendation is a chart descriptor annotated for one selection size
type Recommendation struct {
	catalog.Chart
	Suitability Suitability `json:"suitability"`
}

// Classify returns the suitability of chart for n selected indicators
func Classify(chart catalog.Chart, n int) Suitability {
	if !chart.Accepts(n) {
		return NotRecommended
	}
	switch {
	case singleFamily[chart.ID] && n == 1:
		return Recommended
	case chart.ID == relationshipChart && n == 2:
		return Recommended
	case comparisonFamily[chart.ID]:
		return Possible
	default:
		return NotRecommended
	}
}

// Recommend annotates every chart in catalog order. It has no side effects.
func Recommend(charts []catalog.Chart, n int) []Recommendation {
	out := make([]Recommendation, len(charts))
	for i, ch := range charts {
		out[i] = Recommendation{Chart: ch, Suitability: Classify(ch, n)}
	}
	return out
}

// Find returns the descriptor for id
func Find(charts []catalog.Chart, id string) (catalog.Chart, error) {
	for _, ch := range charts {
		if ch.ID == id {
			return ch, nil
		}
	}
	return catalog.Chart{}, fmt.Errorf("%w: %q", ErrUnknownChart, id)
}

// Violation names the bound a selection broke
type Violation string

const (
	TooFew  Violation = "too-few"
	TooMany Violation = "too-many"
)

// AdmissionError rejects a chart switch for a selection of the wrong size
type AdmissionError struct {
	ChartID   string
	Violation Violation
	Limit     int
	Count     int
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("chart %s rejects %d indicators: %s (limit %d)", e.ChartID, e.Count, e.Violation, e.Limit)
}

// Message renders the catalog text for the violated bound. Without a text
// it falls back to Error().
func (e *AdmissionError) Message(texts catalog.Texts) string {
	template := texts.AdmissionTooMany
	if e.Violation == TooFew {
		template = texts.AdmissionTooFew
	}
	if template == "" {
		return e.Error()
	}
	return strings.ReplaceAll(template, "{limit}", strconv.Itoa(e.Limit))
}

// Admit verifies that n indicators fit the chart's bounds
func Admit(chart catalog.Chart, n int) error {
	switch {
	case n < chart.MinIndicators:
		return &AdmissionError{ChartID: chart.ID, Violation: TooFew, Limit: chart.MinIndicators, Count: n}
	case n > chart.MaxIndicators:
		return &AdmissionError{ChartID: chart.ID, Violation: TooMany, Limit: chart.MaxIndicators, Count: n}
	}
	return nil
}
