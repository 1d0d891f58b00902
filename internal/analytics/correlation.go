package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/macrolens/macrolens/internal/timeseries"
)

// DefaultRelatedThreshold is the |r| an indicator must exceed to count as related
const DefaultRelatedThreshold = 0.7

// Correlate returns the Pearson coefficient of a and b over the rows where
// both are present. Fewer than two pairs or a zero-variance side yields 0,
// which means "no signal" rather than "uncorrelated".
func Correlate(store *timeseries.Store, a, b string) (float64, error) {
	pairs, err := Pair(store, a, b)
	if err != nil {
		return 0, err
	}
	return pearson(pairs.X, pairs.Y), nil
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

// Strength is the qualitative size of a correlation coefficient
type Strength string

const (
	StrengthVeryStrong Strength = "very-strong"
	StrengthStrong     Strength = "strong"
	StrengthModerate   Strength = "moderate"
	StrengthWeak       Strength = "weak"
	StrengthNone       Strength = "none"
)

// Band classifies a coefficient. Negative is only meaningful when Strength
// is not StrengthNone.
type Band struct {
	Strength Strength `json:"strength"`
	Negative bool     `json:"negative"`
}

// DescribeCorrelation buckets r by |r| at 0.8, 0.6, 0.4 and 0.2
func DescribeCorrelation(r float64) Band {
	abs := math.Abs(r)
	band := Band{Negative: r < 0}
	switch {
	case abs >= 0.8:
		band.Strength = StrengthVeryStrong
	case abs >= 0.6:
		band.Strength = StrengthStrong
	case abs >= 0.4:
		band.Strength = StrengthModerate
	case abs >= 0.2:
		band.Strength = StrengthWeak
	default:
		band = Band{Strength: StrengthNone}
	}
	return band
}

// Correlation is one coefficient against a partner indicator
type Correlation struct {
	Indicator string  `json:"indicator"`
	R         float64 `json:"r"`
	Band      Band    `json:"band"`
}

// Related lists every other indicator in the store whose |r| with id exceeds
// threshold, strongest first. A non-positive threshold uses the default.
func Related(store *timeseries.Store, id string, threshold float64) ([]Correlation, error) {
	if err := store.Lookup(id); err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = DefaultRelatedThreshold
	}

	var related []Correlation
	for _, other := range store.Indicators() {
		if other == id {
			continue
		}
		r, err := Correlate(store, id, other)
		if err != nil {
			return nil, err
		}
		if math.Abs(r) > threshold {
			related = append(related, Correlation{Indicator: other, R: r, Band: DescribeCorrelation(r)})
		}
	}
	sortByStrength(related)
	return related, nil
}

// Partner is the strongest correlate of an indicator within a selection
type Partner struct {
	Indicator string       `json:"indicator"`
	Best      *Correlation `json:"best"`
}

// Strongest finds, for every id, the other id with the highest |r|. Best is
// nil when no partner carries any signal.
func Strongest(store *timeseries.Store, ids []string) ([]Partner, error) {
	if err := store.Lookup(ids...); err != nil {
		return nil, err
	}

	out := make([]Partner, 0, len(ids))
	for _, id := range ids {
		p := Partner{Indicator: id}
		for _, other := range ids {
			if other == id {
				continue
			}
			r, err := Correlate(store, id, other)
			if err != nil {
				return nil, err
			}
			if r == 0 {
				continue
			}
			if p.Best == nil || math.Abs(r) > math.Abs(p.Best.R) {
				p.Best = &Correlation{Indicator: other, R: r, Band: DescribeCorrelation(r)}
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func sortByStrength(cs []Correlation) {
	sort.SliceStable(cs, func(i, j int) bool {
		return math.Abs(cs[i].R) > math.Abs(cs[j].R)
	})
}
