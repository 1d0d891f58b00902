// Package analytics provides the descriptive statistics, correlation and
// regression computations behind the dashboard panels.
package analytics

import (
	"time"

	"github.com/macrolens/macrolens/internal/timeseries"
)

// Observation is a single present value of an indicator
type Observation struct {
	Time  time.Time
	Value float64
}

// Observations is an indicator column with gaps removed, in date order
type Observations []Observation

// observe collects the present values of id
func observe(store *timeseries.Store, id string) (Observations, error) {
	if err := store.Lookup(id); err != nil {
		return nil, err
	}
	points := store.Observed(id)
	obs := make(Observations, len(points))
	for i, p := range points {
		obs[i] = Observation{Time: p.Date, Value: p.Value.Float}
	}
	return obs, nil
}

// Values extracts just the values
func (o Observations) Values() []float64 {
	values := make([]float64, len(o))
	for i, p := range o {
		values[i] = p.Value
	}
	return values
}

// Len returns the number of observations
func (o Observations) Len() int {
	return len(o)
}

// Pairs holds the rows where both indicators are present (pairwise deletion)
type Pairs struct {
	Times []time.Time
	X     []float64
	Y     []float64
}

// Len returns the number of complete pairs
func (p Pairs) Len() int {
	return len(p.X)
}

// Pair aligns x and y on the store's date axis and keeps complete rows only
func Pair(store *timeseries.Store, x, y string) (Pairs, error) {
	if err := store.Lookup(x, y); err != nil {
		return Pairs{}, err
	}
	var p Pairs
	for _, r := range store.Records() {
		xv, xok := r.Value(x).Get()
		yv, yok := r.Value(y).Get()
		if !xok || !yok {
			continue
		}
		p.Times = append(p.Times, r.Date())
		p.X = append(p.X, xv)
		p.Y = append(p.Y, yv)
	}
	return p, nil
}
