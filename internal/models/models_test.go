package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectChartRequest(t *testing.T) {
	req := SelectChartRequest{Chart: " scatter ", Indicators: []string{"Brent", " ", " Gold "}}
	req.Normalize()
	require.NoError(t, req.Validate())
	assert.Equal(t, "scatter", req.Chart)
	assert.Equal(t, []string{"Brent", "Gold"}, req.Indicators)

	empty := SelectChartRequest{}
	empty.Normalize()
	assert.Error(t, empty.Validate())
}

func TestNewListResponse(t *testing.T) {
	data, err := json.Marshal(NewListResponse[string](nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"count":0}`, string(data))

	list := NewListResponse([]int{1, 2})
	assert.Equal(t, 2, list.Count)
}

func TestStatsResponse_NullStats(t *testing.T) {
	data, err := json.Marshal(StatsResponse{Indicator: "Brent"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"indicator":"Brent","stats":null}`, string(data))
}
