package analytics

import (
	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/macrolens/macrolens/internal/timeseries"
)

// XY is a point in (x, y) space
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Fit is an ordinary least-squares line y = Intercept + Slope*x
type Fit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	N         int     `json:"n"`
	// Start and End lie on the line at min(X) and max(X)
	Start XY `json:"start"`
	End   XY `json:"end"`
}

// At evaluates the fitted line
func (f *Fit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// FitLine regresses y on x over the rows where both are present. It returns
// nil when fewer than two pairs remain or x has no variance.
func FitLine(store *timeseries.Store, x, y string) (*Fit, error) {
	pairs, err := Pair(store, x, y)
	if err != nil {
		return nil, err
	}
	return fitPairs(pairs.X, pairs.Y), nil
}

func fitPairs(xs, ys []float64) *Fit {
	if len(xs) < 2 {
		return nil
	}
	if stat.Variance(xs, nil) == 0 {
		return nil
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	fit := &Fit{
		Slope:     slope,
		Intercept: intercept,
		N:         len(xs),
	}
	if stat.Variance(ys, nil) > 0 {
		fit.RSquared = stat.RSquared(xs, ys, nil, intercept, slope)
	} else {
		fit.RSquared = 1
	}

	lo, hi := stats.Bounds(xs)
	fit.Start = XY{X: lo, Y: fit.At(lo)}
	fit.End = XY{X: hi, Y: fit.At(hi)}
	return fit
}
