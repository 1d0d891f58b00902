package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/macrolens/macrolens/internal/timeseries"
)

// Profile is the extended descriptive view of one indicator
type Profile struct {
	Count    int              `json:"count"`
	Mean     float64          `json:"mean"`
	Median   float64          `json:"median"`
	StdDev   timeseries.Value `json:"std"`
	Min      float64          `json:"min"`
	Max      float64          `json:"max"`
	Current  float64          `json:"current"`
	Previous timeseries.Value `json:"previous"`
	Change   timeseries.Value `json:"change"`
	P25      float64          `json:"percentile_25"`
	P50      float64          `json:"percentile_50"`
	P75      float64          `json:"percentile_75"`
	Since    time.Time        `json:"since"`
	Until    time.Time        `json:"until"`
}

// ProfileOf returns nil when id has no observations
func ProfileOf(store *timeseries.Store, id string) (*Profile, error) {
	obs, err := observe(store, id)
	if err != nil {
		return nil, err
	}
	if obs.Len() == 0 {
		return nil, nil
	}

	values := obs.Values()
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(values)
	p := &Profile{
		Count:   n,
		Mean:    stats.Mean(values),
		Min:     sorted[0],
		Max:     sorted[n-1],
		Current: values[n-1],
		P25:     quantile(sorted, 0.25),
		P50:     quantile(sorted, 0.50),
		P75:     quantile(sorted, 0.75),
		Since:   obs[0].Time,
		Until:   obs[n-1].Time,
	}
	p.Median = p.P50
	if n >= 2 {
		p.StdDev = timeseries.Some(stat.StdDev(values, nil))
		p.Previous = timeseries.Some(values[n-2])
		p.Change = timeseries.Some(values[n-1] - values[n-2])
	}
	return p, nil
}

// quantile interpolates linearly between the closest ranks of sorted, so
// the 0.5 quantile of an even-length sample is the mean of its middle pair
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo, hi := math.Floor(h), math.Ceil(h)
	a, b := sorted[int(lo)], sorted[int(hi)]
	return a + (h-lo)*(b-a)
}

// YearSummary aggregates the observations of a single calendar year
type YearSummary struct {
	Year   int              `json:"year"`
	Count  int              `json:"count"`
	Mean   float64          `json:"mean"`
	Min    float64          `json:"min"`
	Max    float64          `json:"max"`
	StdDev timeseries.Value `json:"std"`
}

// Yearly groups the observations of id by calendar year, ascending
func Yearly(store *timeseries.Store, id string) ([]YearSummary, error) {
	obs, err := observe(store, id)
	if err != nil {
		return nil, err
	}

	var (
		out    []YearSummary
		year   int
		bucket []float64
	)
	flush := func() {
		if len(bucket) == 0 {
			return
		}
		lo, hi := stats.Bounds(bucket)
		ys := YearSummary{
			Year:  year,
			Count: len(bucket),
			Mean:  stats.Mean(bucket),
			Min:   lo,
			Max:   hi,
		}
		if len(bucket) >= 2 {
			ys.StdDev = timeseries.Some(stat.StdDev(bucket, nil))
		}
		out = append(out, ys)
		bucket = nil
	}

	// observations are date ordered, so years arrive contiguously
	for _, o := range obs {
		if o.Time.Year() != year {
			flush()
			year = o.Time.Year()
		}
		bucket = append(bucket, o.Value)
	}
	flush()
	return out, nil
}
