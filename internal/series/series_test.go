package series

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolens/macrolens/internal/timeseries"
)

var nan = math.NaN()

// newStore builds monthly records from Jan 2020 for the given columns
func newStore(t *testing.T, columns map[string][]float64) *timeseries.Store {
	t.Helper()

	n := 0
	for _, col := range columns {
		n = max(n, len(col))
	}
	records := make([]timeseries.Record, n)
	for i := range records {
		values := map[string]timeseries.Value{}
		for id, col := range columns {
			if i < len(col) {
				values[id] = timeseries.Some(col[i])
			}
		}
		records[i] = timeseries.NewRecord(2020+i/12, time.Month(i%12+1), values)
	}
	store, err := timeseries.NewStore(records, "A", "B", "C")
	require.NoError(t, err)
	return store
}

func TestSingle(t *testing.T) {
	store := newStore(t, map[string][]float64{"A": {1, nan, 3}})

	line, err := Single(store, "A")
	require.NoError(t, err)
	require.Len(t, line.Points, 3)
	assert.False(t, line.Points[1].Value.Valid)
	assert.Equal(t, timeseries.MonthStart(2020, time.February), line.Points[1].Date)

	_, err = Single(store, "Z")
	assert.ErrorIs(t, err, timeseries.ErrUnknownIndicator)
}

func TestMulti(t *testing.T) {
	store := newStore(t, map[string][]float64{
		"A": {1, nan, 3},
		"B": {nan, 5, 6},
	})

	aligned, err := Multi(store, []string{"B", "A"})
	require.NoError(t, err)
	require.Len(t, aligned.Dates, 3)
	require.Len(t, aligned.Columns, 2)
	assert.Equal(t, "B", aligned.Columns[0].Indicator)
	assert.False(t, aligned.Columns[0].Values[0].Valid)
	assert.False(t, aligned.Columns[1].Values[1].Valid)
	assert.Equal(t, 6.0, aligned.Columns[0].Values[2].Float)
}

func TestStack_ExcludesIncompleteRows(t *testing.T) {
	store := newStore(t, map[string][]float64{
		"A": {1, nan, 3},
		"B": {10, 20, 30},
	})

	stacked, err := Stack(store, []string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		timeseries.MonthStart(2020, time.January),
		timeseries.MonthStart(2020, time.March),
	}, stacked.Dates)
	assert.Equal(t, []time.Time{timeseries.MonthStart(2020, time.February)}, stacked.Excluded)

	require.Len(t, stacked.Bands, 2)
	assert.Equal(t, []float64{0, 0}, stacked.Bands[0].Lower)
	assert.Equal(t, []float64{1, 3}, stacked.Bands[0].Upper)
	assert.Equal(t, []float64{1, 3}, stacked.Bands[1].Lower)
	assert.Equal(t, []float64{11, 33}, stacked.Bands[1].Upper)

	// every upper bound is the full row sum of the stacked indicators
	for i := range stacked.Dates {
		top := stacked.Bands[len(stacked.Bands)-1].Upper[i]
		var sum float64
		for _, b := range stacked.Bands {
			sum += b.Upper[i] - b.Lower[i]
		}
		assert.Equal(t, top, sum)
	}
}

func TestMatrix(t *testing.T) {
	store := newStore(t, map[string][]float64{
		"A": {1, 2, 3, 4},
		"B": {4, 3, 2, 1},
		"C": {1, 3, 2, 5},
	})

	m, err := Matrix(store, []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Equal(t, 3, m.Size())

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1.0, m.At(i, i))
		for j := 0; j < 3; j++ {
			assert.Equal(t, m.At(i, j), m.At(j, i))
		}
	}
	assert.InDelta(t, -1.0, m.At(0, 1), 1e-12)
	assert.Len(t, m.Cells(), 9)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	var decoded struct {
		Indicators []string    `json:"indicators"`
		Values     [][]float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"A", "B", "C"}, decoded.Indicators)
	assert.Len(t, decoded.Values, 3)
}

func TestSeasonal(t *testing.T) {
	// 2020-01 .. 2021-03; February 2021 missing, March only observed in 2020
	col := make([]float64, 15)
	for i := range col {
		col[i] = float64(i)
	}
	col[13] = nan
	col[14] = nan
	for i := 3; i < 12; i++ {
		col[i] = nan
	}
	store := newStore(t, map[string][]float64{"A": col})

	view, err := Seasonal(store, "A")
	require.NoError(t, err)
	require.Len(t, view.Buckets, 3, "months without observations are omitted")

	jan := view.Buckets[0]
	assert.Equal(t, time.January, jan.Month)
	assert.Equal(t, []YearValue{{Year: 2020, Value: 0}, {Year: 2021, Value: 12}}, jan.Points)
	assert.Equal(t, 6.0, jan.Mean)

	feb := view.Buckets[1]
	assert.Equal(t, time.February, feb.Month)
	assert.Len(t, feb.Points, 1)
	assert.Equal(t, 1.0, feb.Mean)

	assert.Equal(t, time.March, view.Buckets[2].Month)
}

func TestCalendarGrid(t *testing.T) {
	col := make([]float64, 14)
	for i := range col {
		col[i] = float64(i + 1)
	}
	col[5] = nan
	store := newStore(t, map[string][]float64{"A": col})

	cal, err := CalendarGrid(store, "A")
	require.NoError(t, err)
	assert.Equal(t, []int{2020, 2021}, cal.Years)
	require.Len(t, cal.Cells, 2)
	assert.Equal(t, timeseries.Some(1), cal.Cells[0][0])
	assert.False(t, cal.Cells[0][5].Valid)
	assert.Equal(t, timeseries.Some(14), cal.Cells[1][1])
	assert.False(t, cal.Cells[1][2].Valid, "no record")
	assert.Equal(t, timeseries.Some(1), cal.Min)
	assert.Equal(t, timeseries.Some(14), cal.Max)
}

func TestScatter(t *testing.T) {
	store := newStore(t, map[string][]float64{
		"A": {1, 2, 3, nan},
		"B": {2, 4, 6, 8},
	})

	view, err := Scatter(store, "A", "B")
	require.NoError(t, err)
	assert.Len(t, view.Points, 3)
	assert.InDelta(t, 1.0, view.Correlation, 1e-12)
	require.NotNil(t, view.Fit)
	assert.InDelta(t, 2.0, view.Fit.Slope, 1e-12)
}

func TestDerive(t *testing.T) {
	store := newStore(t, map[string][]float64{
		"A": {1, 2, 3},
		"B": {3, 2, 1},
		"C": {1, 1, 2},
	})

	tests := []struct {
		chart string
		ids   []string
		want  any
	}{
		{"line", []string{"A"}, &Line{}},
		{"bar", []string{"A"}, &Line{}},
		{"multi-line", []string{"A", "B"}, &Aligned{}},
		{"area", []string{"A", "B"}, &Stacked{}},
		{"scatter", []string{"A", "B"}, &ScatterView{}},
		{"heatmap", []string{"A", "B", "C"}, &CorrelationMatrix{}},
		{"seasonal", []string{"A"}, &SeasonalView{}},
		{"calendar", []string{"A"}, &Calendar{}},
	}

	for _, tt := range tests {
		t.Run(tt.chart, func(t *testing.T) {
			got, err := Derive(store, tt.chart, tt.ids)
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}

	_, err := Derive(store, "pie", []string{"A"})
	assert.ErrorIs(t, err, ErrUnsupportedChart)

	_, err = Derive(store, "scatter", []string{"A"})
	assert.ErrorIs(t, err, ErrMissingIndicator)

	_, err = Derive(store, "line", []string{"Z"})
	assert.ErrorIs(t, err, timeseries.ErrUnknownIndicator)
}
