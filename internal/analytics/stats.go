package analytics

import (
	"github.com/aclements/go-moremath/stats"

	"github.com/macrolens/macrolens/internal/timeseries"
)

// Summary is the headline statistics card for one indicator
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Latest float64 `json:"latest"`
	// Change is latest minus the previous observation; missing with fewer
	// than two observations.
	Change timeseries.Value `json:"change"`
	Count  int              `json:"count"`
}

// Summarize computes min/max/avg/latest/change over the observed values of id.
// It returns nil when the indicator has no observations at all.
func Summarize(store *timeseries.Store, id string) (*Summary, error) {
	obs, err := observe(store, id)
	if err != nil {
		return nil, err
	}
	if obs.Len() == 0 {
		return nil, nil
	}

	values := obs.Values()
	lo, hi := stats.Bounds(values)
	s := &Summary{
		Min:    lo,
		Max:    hi,
		Avg:    stats.Mean(values),
		Latest: values[len(values)-1],
		Count:  len(values),
	}
	if len(values) >= 2 {
		s.Change = timeseries.Some(s.Latest - values[len(values)-2])
	}
	return s, nil
}
