package models

import (
	"fmt"
	"strings"
)

// SelectChartRequest asks whether chart may render the given indicators
type SelectChartRequest struct {
	Chart      string   `json:"chart"`
	Indicators []string `json:"indicators"`
}

// Normalize trims ids and drops empty ones
func (r *SelectChartRequest) Normalize() {
	r.Chart = strings.TrimSpace(r.Chart)
	ids := r.Indicators[:0]
	for _, id := range r.Indicators {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	r.Indicators = ids
}

// Validate checks the required fields
func (r *SelectChartRequest) Validate() error {
	if r.Chart == "" {
		return fmt.Errorf("chart is required")
	}
	return nil
}
