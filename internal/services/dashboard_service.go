package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/macrolens/macrolens/internal/analytics"
	"github.com/macrolens/macrolens/internal/cache"
	"github.com/macrolens/macrolens/internal/catalog"
	"github.com/macrolens/macrolens/internal/explain"
	"github.com/macrolens/macrolens/internal/logging"
	"github.com/macrolens/macrolens/internal/recommend"
	"github.com/macrolens/macrolens/internal/selection"
	"github.com/macrolens/macrolens/internal/series"
	"github.com/macrolens/macrolens/internal/timeseries"
)

// DashboardService answers every dashboard question over one immutable
// store. It holds no selection state; callers pass the selection each time.
type DashboardService struct {
	logger    *logging.Logger
	store     *timeseries.Store
	catalog   *catalog.Catalog
	universe  *selection.Universe
	explainer *explain.Selector
	memo      *cache.Memo
}

// NewDashboardService creates a new DashboardService. memo may be nil.
func NewDashboardService(
	logger *logging.Logger,
	store *timeseries.Store,
	cat *catalog.Catalog,
	memo *cache.Memo,
) *DashboardService {
	return &DashboardService{
		logger:    logger,
		store:     store,
		catalog:   cat,
		universe:  selection.FromStore(store),
		explainer: explain.New(cat),
		memo:      memo,
	}
}

// DateRange is the first and last month of the store
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IndicatorsResult feeds the selection panel
type IndicatorsResult struct {
	Groups      []explain.Group      `json:"groups"`
	Indicators  []explain.Descriptor `json:"indicators"`
	Default     catalog.Defaults     `json:"default"`
	Range       DateRange            `json:"range"`
	RecordCount int                  `json:"record_count"`
}

// CorrelationResult is r(a, b) with its strength band
type CorrelationResult struct {
	A     string         `json:"a"`
	B     string         `json:"b"`
	R     float64        `json:"r"`
	Band  analytics.Band `json:"band"`
	Label string         `json:"label"`
	Pairs int            `json:"pairs"`
}

// SelectionResult is an admitted chart switch
type SelectionResult struct {
	Chart      catalog.Chart `json:"chart"`
	Indicators []string      `json:"indicators"`
}

// Explanation is a single canned text
type Explanation struct {
	Kind       string   `json:"kind"`
	Indicators []string `json:"indicators"`
	Text       string   `json:"text"`
}

// Store exposes the loaded store
func (s *DashboardService) Store() *timeseries.Store {
	return s.store
}

// SplitIndicators parses a comma-separated indicator list from a request
func (s *DashboardService) SplitIndicators(list string) []string {
	return s.universe.Split(list)
}

// Range returns the store's first and last month
func (s *DashboardService) Range() DateRange {
	return DateRange{From: s.store.FirstDate(), To: s.store.LastDate()}
}

// Indicators lists every indicator with metadata, grouped by category, and
// the default selection restricted to ids present in the store
func (s *DashboardService) Indicators(ctx context.Context) (*IndicatorsResult, error) {
	ids := s.store.Indicators()
	descriptors := make([]explain.Descriptor, len(ids))
	for i, id := range ids {
		descriptors[i] = s.explainer.Describe(id)
	}

	defaults := catalog.Defaults{Chart: s.catalog.Defaults.Chart, Indicators: []string{}}
	for _, id := range s.catalog.Defaults.Indicators {
		if s.store.Has(id) {
			defaults.Indicators = append(defaults.Indicators, id)
		}
	}

	return &IndicatorsResult{
		Groups:      s.explainer.Groups(ids),
		Indicators:  descriptors,
		Default:     defaults,
		Range:       s.Range(),
		RecordCount: s.store.Len(),
	}, nil
}

// Stats summarizes one indicator. A nil summary means no observations.
func (s *DashboardService) Stats(ctx context.Context, id string) (*analytics.Summary, error) {
	return memoized(ctx, s, "stats", []string{id}, func() (*analytics.Summary, error) {
		return analytics.Summarize(s.store, id)
	})
}

// Profile returns the extended descriptive statistics of one indicator
func (s *DashboardService) Profile(ctx context.Context, id string) (*analytics.Profile, error) {
	return memoized(ctx, s, "profile", []string{id}, func() (*analytics.Profile, error) {
		return analytics.ProfileOf(s.store, id)
	})
}

// Yearly returns per-year summaries of one indicator
func (s *DashboardService) Yearly(ctx context.Context, id string) ([]analytics.YearSummary, error) {
	return memoized(ctx, s, "yearly", []string{id}, func() ([]analytics.YearSummary, error) {
		return analytics.Yearly(s.store, id)
	})
}

// Trend returns the moving-average trend of one indicator. window <= 0
// selects the default.
func (s *DashboardService) Trend(ctx context.Context, id string, window int) ([]analytics.TrendPoint, error) {
	if window <= 0 {
		window = analytics.DefaultTrendWindow
	}
	return memoized(ctx, s, "trend", []string{id, strconv.Itoa(window)}, func() ([]analytics.TrendPoint, error) {
		return analytics.Trend(s.store, id, window)
	})
}

// Related lists indicators whose |r| with id exceeds threshold. A threshold
// outside (0, 1) selects the default.
func (s *DashboardService) Related(ctx context.Context, id string, threshold float64) ([]analytics.Correlation, error) {
	if threshold <= 0 || threshold >= 1 {
		threshold = analytics.DefaultRelatedThreshold
	}
	key := []string{id, strconv.FormatFloat(threshold, 'f', -1, 64)}
	return memoized(ctx, s, "related", key, func() ([]analytics.Correlation, error) {
		return analytics.Related(s.store, id, threshold)
	})
}

// Correlation returns r(a, b) and its band
func (s *DashboardService) Correlation(ctx context.Context, a, b string) (*CorrelationResult, error) {
	if a == "" || b == "" {
		return nil, invalid("both indicators a and b are required")
	}
	return memoized(ctx, s, "correlation", []string{a, b}, func() (*CorrelationResult, error) {
		r, err := analytics.Correlate(s.store, a, b)
		if err != nil {
			return nil, err
		}
		pairs, err := analytics.Pair(s.store, a, b)
		if err != nil {
			return nil, err
		}
		band := analytics.DescribeCorrelation(r)
		return &CorrelationResult{
			A:     a,
			B:     b,
			R:     r,
			Band:  band,
			Label: s.explainer.BandLabel(band),
			Pairs: pairs.Len(),
		}, nil
	})
}

// Regression fits y on x. A nil fit means fewer than two usable pairs or a
// constant x.
func (s *DashboardService) Regression(ctx context.Context, x, y string) (*analytics.Fit, error) {
	if x == "" || y == "" {
		return nil, invalid("both indicators x and y are required")
	}
	return memoized(ctx, s, "regression", []string{x, y}, func() (*analytics.Fit, error) {
		return analytics.FitLine(s.store, x, y)
	})
}

// Charts returns the chart catalog in display order
func (s *DashboardService) Charts(ctx context.Context) []catalog.Chart {
	return s.catalog.Charts
}

// Recommend classifies every chart for a selection. When ids is empty,
// count is used as the selection size.
func (s *DashboardService) Recommend(ctx context.Context, ids []string, count int) ([]recommend.Recommendation, error) {
	if len(ids) == 0 {
		if count < 0 {
			return nil, invalid("count cannot be negative")
		}
		return recommend.Recommend(s.catalog.Charts, count), nil
	}

	sel, err := selection.Parse(s.universe, ids)
	if err != nil {
		return nil, toServiceError(err)
	}
	return sel.Recommend(s.catalog.Charts), nil
}

// SelectChart runs the admission check for switching to chartID
func (s *DashboardService) SelectChart(ctx context.Context, chartID string, ids []string) (*SelectionResult, error) {
	sel, chart, err := s.admit(chartID, ids)
	if err != nil {
		logging.FromContext(ctx).Debug("Chart switch rejected", "chart", chartID, "count", len(ids), "error", err)
		return nil, err
	}
	return &SelectionResult{Chart: chart, Indicators: sel.Indicators()}, nil
}

// Series derives the chart view for an admitted selection and returns it
// encoded as JSON
func (s *DashboardService) Series(ctx context.Context, chartID string, ids []string) (json.RawMessage, error) {
	sel, _, err := s.admit(chartID, ids)
	if err != nil {
		return nil, err
	}

	ordered := sel.Indicators()
	return memoized(ctx, s, "series", append([]string{chartID}, ordered...), func() (json.RawMessage, error) {
		view, err := series.Derive(s.store, chartID, ordered)
		if err != nil {
			return nil, err
		}
		return json.Marshal(view)
	})
}

// RelationshipText returns the canned relationship explanation for a pair
func (s *DashboardService) RelationshipText(ctx context.Context, a, b string) (*Explanation, error) {
	if a == "" || b == "" {
		return nil, invalid("both indicators a and b are required")
	}
	return &Explanation{
		Kind:       "relationship",
		Indicators: []string{a, b},
		Text:       s.explainer.Relationship(a, b),
	}, nil
}

// SeasonalText returns the canned seasonal explanation for one indicator
func (s *DashboardService) SeasonalText(ctx context.Context, id string) (*Explanation, error) {
	if id == "" {
		return nil, invalid("indicator is required")
	}
	return &Explanation{
		Kind:       "seasonal",
		Indicators: []string{id},
		Text:       s.explainer.Seasonal(id),
	}, nil
}

// Panel assembles the explanation panel for a chart and selection
func (s *DashboardService) Panel(ctx context.Context, chartID string, ids []string) (*explain.Panel, error) {
	sel, err := selection.Parse(s.universe, ids)
	if err != nil {
		return nil, toServiceError(err)
	}
	ordered := sel.Indicators()
	return memoized(ctx, s, "panel", append([]string{chartID}, ordered...), func() (*explain.Panel, error) {
		return s.explainer.Panel(s.store, chartID, ordered)
	})
}

// Events returns the historical events inside the store's date range
func (s *DashboardService) Events(ctx context.Context) []catalog.Event {
	events := s.catalog.EventsBetween(s.store.FirstDate(), s.store.LastDate())
	if events == nil {
		return []catalog.Event{}
	}
	return events
}

// admit resolves the chart and the selection and applies the admission gate
func (s *DashboardService) admit(chartID string, ids []string) (*selection.Selection, catalog.Chart, error) {
	if chartID == "" {
		return nil, catalog.Chart{}, invalid("chart is required")
	}
	chart, err := recommend.Find(s.catalog.Charts, chartID)
	if err != nil {
		return nil, catalog.Chart{}, toServiceError(err)
	}
	sel, err := selection.Parse(s.universe, ids)
	if err != nil {
		return nil, catalog.Chart{}, toServiceError(err)
	}
	if err := sel.ChooseChart(chart); err != nil {
		var admission *recommend.AdmissionError
		if errors.As(err, &admission) {
			return nil, catalog.Chart{}, rejection(admission, s.catalog.Texts)
		}
		return nil, catalog.Chart{}, toServiceError(err)
	}
	return sel, chart, nil
}

// memoized runs compute through the cache under (op, args) and maps any
// failure to a ServiceError
func memoized[T any](ctx context.Context, s *DashboardService, op string, args []string, compute func() (T, error)) (T, error) {
	v, err := cache.Memoize(ctx, s.memo, s.memo.Key(op, args...), compute)
	if err != nil {
		var zero T
		return zero, toServiceError(err)
	}
	return v, nil
}
