package timeseries

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(year int, month time.Month, values map[string]Value) Record {
	return NewRecord(year, month, values)
}

func TestNewStore_SortsAndDerivesIndicators(t *testing.T) {
	records := []Record{
		rec(2021, time.March, map[string]Value{"CPI": Some(3), "Gold": Some(1800)}),
		rec(2021, time.January, map[string]Value{"CPI": Some(1), "Year": Some(2021)}),
		rec(2021, time.February, map[string]Value{"CPI": Some(2), "Brent": None()}),
	}

	store, err := NewStore(records, "Gold", "Month", "CPI")
	require.NoError(t, err)

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, MonthStart(2021, time.January), store.FirstDate())
	assert.Equal(t, MonthStart(2021, time.March), store.LastDate())

	// header order first, then the remainder sorted; reserved fields excluded
	assert.Equal(t, []string{"Gold", "CPI", "Brent"}, store.Indicators())
	assert.False(t, store.Has("Year"))
	assert.Equal(t, 1, store.IndexOf("CPI"))
	assert.Equal(t, -1, store.IndexOf("Nope"))
}

func TestNewStore_RejectsDuplicateMonth(t *testing.T) {
	_, err := NewStore([]Record{
		rec(2020, time.May, map[string]Value{"A": Some(1)}),
		rec(2020, time.May, map[string]Value{"A": Some(2)}),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateMonth))
}

func TestNewStore_Empty(t *testing.T) {
	_, err := NewStore(nil)
	assert.ErrorIs(t, err, ErrEmptyStore)
}

func TestStore_ValuesKeepGaps(t *testing.T) {
	store, err := NewStore([]Record{
		rec(2020, time.January, map[string]Value{"A": Some(1)}),
		rec(2020, time.February, map[string]Value{"A": None()}),
		rec(2020, time.March, map[string]Value{"A": Some(3)}),
	})
	require.NoError(t, err)

	values := store.Values("A")
	require.Len(t, values, 3)
	assert.True(t, values[0].Valid)
	assert.False(t, values[1].Valid)
	assert.Equal(t, 3.0, values[2].Float)

	observed := store.Observed("A")
	require.Len(t, observed, 2)
	assert.Equal(t, MonthStart(2020, time.March), observed[1].Date)
}

func TestStore_Lookup(t *testing.T) {
	store, err := NewStore([]Record{rec(2020, time.January, map[string]Value{"A": Some(1)})})
	require.NoError(t, err)

	assert.NoError(t, store.Lookup("A"))
	err = store.Lookup("A", "B")
	assert.ErrorIs(t, err, ErrUnknownIndicator)
	assert.Contains(t, err.Error(), `"B"`)
}

func TestIsReserved(t *testing.T) {
	for _, f := range []string{"Year", "month", "DATE", "YearMonth", "formattedDate"} {
		assert.True(t, IsReserved(f), f)
	}
	assert.False(t, IsReserved("MonthlyCPI"))
}

func TestValue_JSON(t *testing.T) {
	data, err := json.Marshal([]Value{Some(1.5), None()})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, null]`, string(data))

	var decoded []Value
	require.NoError(t, json.Unmarshal([]byte(`[2, null]`), &decoded))
	assert.Equal(t, []Value{Some(2), None()}, decoded)
}

func TestSome_RejectsNaN(t *testing.T) {
	assert.False(t, Some(math.NaN()).Valid)
	assert.False(t, Some(math.Inf(1)).Valid)
	assert.Equal(t, "null", None().String())
	assert.Equal(t, "2.5", Some(2.5).String())
}
