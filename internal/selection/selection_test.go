package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolens/macrolens/internal/catalog"
	"github.com/macrolens/macrolens/internal/recommend"
	"github.com/macrolens/macrolens/internal/timeseries"
)

var universe = NewUniverse([]string{"Food_Inflation", "Core_Inlation", "MonthlyCPI", "Brent", "Gold"})

func TestSelection_AddRemove(t *testing.T) {
	s := New(universe)

	require.NoError(t, s.Add("Brent"))
	require.NoError(t, s.Add("Food_Inflation"))
	require.NoError(t, s.Add("Brent"))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("Brent"))

	// universe order, not insertion order
	assert.Equal(t, []string{"Food_Inflation", "Brent"}, s.Indicators())

	s.Remove("Brent")
	s.Remove("Brent")
	s.Remove("Unknown")
	assert.Equal(t, []string{"Food_Inflation"}, s.Indicators())

	err := s.Add("Unknown")
	assert.ErrorIs(t, err, timeseries.ErrUnknownIndicator)
}

func TestParse(t *testing.T) {
	s, err := Parse(universe, []string{"MonthlyCPI", "Core_Inlation", "MonthlyCPI"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Core_Inlation", "MonthlyCPI"}, s.Indicators())

	_, err = Parse(universe, []string{"Nope"})
	assert.ErrorIs(t, err, timeseries.ErrUnknownIndicator)
}

func TestChooseChart_KeepsPreviousOnRejection(t *testing.T) {
	line := catalog.Chart{ID: "line", MinIndicators: 1, MaxIndicators: 1}
	scatter := catalog.Chart{ID: "scatter", MinIndicators: 2, MaxIndicators: 2}

	s, err := Parse(universe, []string{"Brent"})
	require.NoError(t, err)
	require.NoError(t, s.ChooseChart(line))
	assert.Equal(t, "line", s.Chart())

	err = s.ChooseChart(scatter)
	var admission *recommend.AdmissionError
	require.True(t, errors.As(err, &admission))
	assert.Equal(t, recommend.TooFew, admission.Violation)
	assert.Equal(t, "line", s.Chart())

	require.NoError(t, s.Add("Gold"))
	require.NoError(t, s.ChooseChart(scatter))
	assert.Equal(t, "scatter", s.Chart())
}

func TestRecommend(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	s, err := Parse(universe, []string{"Brent", "Gold"})
	require.NoError(t, err)

	for _, r := range s.Recommend(cat.Charts) {
		if r.ID == "scatter" {
			assert.Equal(t, recommend.Recommended, r.Suitability)
		}
	}
}

func TestUniverse_Split(t *testing.T) {
	u := NewUniverse([]string{"Brent", "VN_coffee,tea,mate,spices", "Agriculture, Forestry and Fishing", "Gold"})

	tests := []struct {
		list string
		want []string
	}{
		{"", nil},
		{"Brent", []string{"Brent"}},
		{"Brent, Gold", []string{"Brent", "Gold"}},
		{"Brent,VN_coffee,tea,mate,spices,Gold", []string{"Brent", "VN_coffee,tea,mate,spices", "Gold"}},
		{"Agriculture, Forestry and Fishing,Brent", []string{"Agriculture, Forestry and Fishing", "Brent"}},
		{"Brent,,Unknown", []string{"Brent", "Unknown"}},
		{"Gold, VN_coffee,tea,mate,spices", []string{"Gold", "VN_coffee,tea,mate,spices"}},
		{"Brent, Agriculture, Forestry and Fishing , Gold", []string{"Brent", "Agriculture, Forestry and Fishing", "Gold"}},
	}
	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			assert.Equal(t, tt.want, u.Split(tt.list))
		})
	}
}
