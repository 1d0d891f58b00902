package models

import (
	"github.com/macrolens/macrolens/internal/analytics"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Version    string `json:"version"`
	Records    int    `json:"records"`
	Indicators int    `json:"indicators"`
}

// StatsResponse carries the summary of one indicator. Stats is null when
// the indicator has no observations.
type StatsResponse struct {
	Indicator string             `json:"indicator"`
	Stats     *analytics.Summary `json:"stats"`
}

// RegressionResponse carries the fitted line. Fit is null when no line can
// be fitted.
type RegressionResponse struct {
	X   string         `json:"x"`
	Y   string         `json:"y"`
	Fit *analytics.Fit `json:"fit"`
}

// ListResponse wraps a collection with its size
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewListResponse never renders a null item list
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Path    string         `json:"path,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
