// Package services is the function-call boundary of the dashboard: it
// validates request ids against the loaded store and catalog, runs the
// analytics, and maps every failure to a ServiceError.
package services

import (
	"errors"

	"github.com/macrolens/macrolens/internal/catalog"
	"github.com/macrolens/macrolens/internal/recommend"
	"github.com/macrolens/macrolens/internal/series"
	"github.com/macrolens/macrolens/internal/timeseries"
)

// Error codes returned to clients
const (
	CodeUnknownIndicator  = "UNKNOWN_INDICATOR"
	CodeUnknownChart      = "UNKNOWN_CHART"
	CodeSelectionRejected = "SELECTION_REJECTED"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInternal          = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]any) *ServiceError {
	return &ServiceError{Code: code, Message: message, Details: details}
}

func invalid(message string) *ServiceError {
	return NewServiceError(CodeInvalidRequest, message)
}

// rejection reports a refused chart switch with the violated bound
func rejection(admission *recommend.AdmissionError, texts catalog.Texts) *ServiceError {
	return NewServiceErrorWithDetails(CodeSelectionRejected, admission.Message(texts), map[string]any{
		"chart":     admission.ChartID,
		"violation": admission.Violation,
		"limit":     admission.Limit,
		"count":     admission.Count,
	})
}

// toServiceError classifies errors from the core packages
func toServiceError(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var admission *recommend.AdmissionError
	if errors.As(err, &admission) {
		return rejection(admission, catalog.Texts{})
	}

	switch {
	case errors.Is(err, timeseries.ErrUnknownIndicator):
		return NewServiceError(CodeUnknownIndicator, err.Error())
	case errors.Is(err, recommend.ErrUnknownChart), errors.Is(err, series.ErrUnsupportedChart):
		return NewServiceError(CodeUnknownChart, err.Error())
	case errors.Is(err, series.ErrMissingIndicator):
		return NewServiceError(CodeInvalidRequest, err.Error())
	}
	return NewServiceError(CodeInternal, err.Error())
}
