package analytics

import (
	"time"

	"github.com/macrolens/macrolens/internal/timeseries"
)

// DefaultTrendWindow is one year of monthly observations
const DefaultTrendWindow = 12

// Direction of a moving average relative to its previous value
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
)

// TrendPoint is one observation with its trailing moving average
type TrendPoint struct {
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	Average   float64   `json:"moving_average"`
	Direction Direction `json:"direction"`
}

// Trend computes a trailing moving average over window observed values.
// The first window-1 observations have no full window and are dropped; the
// first emitted point has nothing to compare against and is reported as
// decreasing.
func Trend(store *timeseries.Store, id string, window int) ([]TrendPoint, error) {
	obs, err := observe(store, id)
	if err != nil {
		return nil, err
	}
	if window <= 0 {
		window = DefaultTrendWindow
	}

	averages := TrailingMovingAverage(obs.Values(), window)
	if averages == nil {
		return nil, nil
	}

	out := make([]TrendPoint, len(averages))
	for i, avg := range averages {
		o := obs[i+window-1]
		dir := DirectionDecreasing
		if i > 0 && avg > averages[i-1] {
			dir = DirectionIncreasing
		}
		out[i] = TrendPoint{
			Date:      o.Time,
			Value:     o.Value,
			Average:   avg,
			Direction: dir,
		}
	}
	return out, nil
}

// TrailingMovingAverage returns the mean of every full trailing window.
// The result has len(values)-window+1 entries, or nil if there is no full window.
func TrailingMovingAverage(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nil
	}

	result := make([]float64, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			result[i-window+1] = sum / float64(window)
		}
	}
	return result
}
