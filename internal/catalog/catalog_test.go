package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Indicators, 20)
	assert.Len(t, c.Charts, 8)
	assert.Len(t, c.Relationships, 7)
	assert.Len(t, c.Seasonal, 5)
	assert.Len(t, c.Events, 5)

	for _, ch := range c.Charts {
		assert.GreaterOrEqual(t, ch.MinIndicators, 1, ch.ID)
	}

	scatter, ok := c.Chart("scatter")
	require.True(t, ok)
	assert.Equal(t, 2, scatter.MinIndicators)
	assert.Equal(t, 2, scatter.MaxIndicators)

	_, ok = c.Chart("pie")
	assert.False(t, ok)

	assert.Equal(t, "multi-line", c.Defaults.Chart)
	assert.Equal(t, "Khác", c.Texts.OtherCategory)
	assert.Contains(t, c.Texts.Bands, "very-strong")
	assert.Contains(t, c.Texts.AdmissionTooFew, "{limit}")
	assert.Contains(t, c.Texts.AdmissionTooMany, "{limit}")
}

func TestChart_Accepts(t *testing.T) {
	ch := Chart{ID: "area", MinIndicators: 2, MaxIndicators: 4}
	assert.False(t, ch.Accepts(1))
	assert.True(t, ch.Accepts(2))
	assert.True(t, ch.Accepts(4))
	assert.False(t, ch.Accepts(5))
}

func TestEventsBetween(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	events := c.EventsBetween(
		time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
	)
	require.Len(t, events, 3)
	assert.Equal(t, 2011, events[0].Year)
	assert.Equal(t, time.March, events[2].Month)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	doc := `{
		"charts": [{"id": "line", "name": "Line", "min_indicators": 1, "max_indicators": 1}],
		"texts": {"relationship_fallback": "{a} vs {b}", "seasonal_fallback": "seasonal"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Charts, 1)
	assert.Empty(t, c.Indicators)

	c, err = Load("")
	require.NoError(t, err)
	assert.Len(t, c.Charts, 8)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad json", `{`},
		{"no charts", `{"texts": {"relationship_fallback": "x", "seasonal_fallback": "y"}}`},
		{"zero min", `{"charts": [{"id": "a", "min_indicators": 0, "max_indicators": 1}], "texts": {"relationship_fallback": "x", "seasonal_fallback": "y"}}`},
		{"max below min", `{"charts": [{"id": "a", "min_indicators": 3, "max_indicators": 2}], "texts": {"relationship_fallback": "x", "seasonal_fallback": "y"}}`},
		{"duplicate", `{"charts": [{"id": "a", "min_indicators": 1, "max_indicators": 1}, {"id": "a", "min_indicators": 1, "max_indicators": 1}], "texts": {"relationship_fallback": "x", "seasonal_fallback": "y"}}`},
		{"missing fallback", `{"charts": [{"id": "a", "min_indicators": 1, "max_indicators": 1}]}`},
		{"unknown default chart", `{"charts": [{"id": "a", "min_indicators": 1, "max_indicators": 1}], "defaults": {"chart": "b"}, "texts": {"relationship_fallback": "x", "seasonal_fallback": "y"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
