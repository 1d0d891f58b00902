package series

import (
	"sort"
	"time"

	"github.com/aclements/go-moremath/stats"

	"github.com/macrolens/macrolens/internal/timeseries"
)

// YearValue is one observation inside a month bucket
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Bucket collects one calendar month across all years
type Bucket struct {
	Month  time.Month  `json:"month"`
	Points []YearValue `json:"points"`
	Mean   float64     `json:"mean"`
}

// SeasonalView is the month-bucketed grouping of one indicator
type SeasonalView struct {
	Indicator string   `json:"indicator"`
	Buckets   []Bucket `json:"buckets"`
}

// Seasonal partitions the observed values of id by calendar month. Months
// without any observation are omitted.
func Seasonal(store *timeseries.Store, id string) (*SeasonalView, error) {
	if err := store.Lookup(id); err != nil {
		return nil, err
	}

	var byMonth [12][]YearValue
	for _, r := range store.Records() {
		v, ok := r.Value(id).Get()
		if !ok {
			continue
		}
		m := r.Month() - 1
		byMonth[m] = append(byMonth[m], YearValue{Year: r.Year(), Value: v})
	}

	view := &SeasonalView{Indicator: id, Buckets: []Bucket{}}
	for i, points := range byMonth {
		if len(points) == 0 {
			continue
		}
		sort.Slice(points, func(a, b int) bool { return points[a].Year < points[b].Year })

		values := make([]float64, len(points))
		for j, p := range points {
			values[j] = p.Value
		}
		view.Buckets = append(view.Buckets, Bucket{
			Month:  time.Month(i + 1),
			Points: points,
			Mean:   stats.Mean(values),
		})
	}
	return view, nil
}

// Calendar is a year × month grid for the calendar heatmap
type Calendar struct {
	Indicator string `json:"indicator"`
	Years     []int  `json:"years"`
	// Cells[i][m] is the value for Years[i] and month m+1
	Cells [][12]timeseries.Value `json:"cells"`
	Min   timeseries.Value       `json:"min"`
	Max   timeseries.Value       `json:"max"`
}

// CalendarGrid lays the values of id out by year and month. Years run from
// the first to the last record, so a year without data is an empty row.
func CalendarGrid(store *timeseries.Store, id string) (*Calendar, error) {
	if err := store.Lookup(id); err != nil {
		return nil, err
	}

	first, last := store.FirstDate().Year(), store.LastDate().Year()
	cal := &Calendar{
		Indicator: id,
		Years:     make([]int, 0, last-first+1),
		Cells:     make([][12]timeseries.Value, last-first+1),
	}
	for y := first; y <= last; y++ {
		cal.Years = append(cal.Years, y)
	}

	var observed []float64
	for _, r := range store.Records() {
		v := r.Value(id)
		cal.Cells[r.Year()-first][r.Month()-1] = v
		if v.Valid {
			observed = append(observed, v.Float)
		}
	}
	if len(observed) > 0 {
		lo, hi := stats.Bounds(observed)
		cal.Min, cal.Max = timeseries.Some(lo), timeseries.Some(hi)
	}
	return cal, nil
}
