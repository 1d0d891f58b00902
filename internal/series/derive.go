package series

import (
	"errors"
	"fmt"
	"time"

	"github.com/macrolens/macrolens/internal/analytics"
	"github.com/macrolens/macrolens/internal/timeseries"
)

var (
	// ErrUnsupportedChart is returned by Derive for a chart id it cannot build
	ErrUnsupportedChart = errors.New("unsupported chart")

	// ErrMissingIndicator is returned when a chart is asked for fewer ids than it indexes
	ErrMissingIndicator = errors.New("missing indicator")
)

// ScatterPoint pairs two indicators at one date
type ScatterPoint struct {
	Date time.Time `json:"date"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// ScatterView is the relationship chart: paired points, the coefficient and
// the trend line. Fit is nil when no line can be fitted.
type ScatterView struct {
	X           string         `json:"x"`
	Y           string         `json:"y"`
	Points      []ScatterPoint `json:"points"`
	Correlation float64        `json:"correlation"`
	Band        analytics.Band `json:"band"`
	Fit         *analytics.Fit `json:"fit"`
}

// Scatter pairs x and y over the rows where both are present
func Scatter(store *timeseries.Store, x, y string) (*ScatterView, error) {
	pairs, err := analytics.Pair(store, x, y)
	if err != nil {
		return nil, err
	}
	r, err := analytics.Correlate(store, x, y)
	if err != nil {
		return nil, err
	}
	fit, err := analytics.FitLine(store, x, y)
	if err != nil {
		return nil, err
	}

	points := make([]ScatterPoint, pairs.Len())
	for i := range points {
		points[i] = ScatterPoint{Date: pairs.Times[i], X: pairs.X[i], Y: pairs.Y[i]}
	}
	return &ScatterView{
		X:           x,
		Y:           y,
		Points:      points,
		Correlation: r,
		Band:        analytics.DescribeCorrelation(r),
		Fit:         fit,
	}, nil
}

// Derive builds the view the given chart renders
func Derive(store *timeseries.Store, chartID string, ids []string) (any, error) {
	need := func(n int) error {
		if len(ids) < n {
			return fmt.Errorf("%w: %s needs %d, got %d", ErrMissingIndicator, chartID, n, len(ids))
		}
		return nil
	}

	switch chartID {
	case "line", "bar":
		if err := need(1); err != nil {
			return nil, err
		}
		return Single(store, ids[0])
	case "multi-line":
		return Multi(store, ids)
	case "area":
		return Stack(store, ids)
	case "scatter":
		if err := need(2); err != nil {
			return nil, err
		}
		return Scatter(store, ids[0], ids[1])
	case "heatmap":
		return Matrix(store, ids)
	case "seasonal":
		if err := need(1); err != nil {
			return nil, err
		}
		return Seasonal(store, ids[0])
	case "calendar":
		if err := need(1); err != nil {
			return nil, err
		}
		return CalendarGrid(store, ids[0])
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChart, chartID)
	}
}
