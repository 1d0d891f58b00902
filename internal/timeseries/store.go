// Package timeseries holds the read-only monthly table every analytics
// component consumes.
package timeseries

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrUnknownIndicator is returned when an indicator id is not present in the store
	ErrUnknownIndicator = errors.New("unknown indicator")

	// ErrDuplicateMonth is returned when two records share a (year, month)
	ErrDuplicateMonth = errors.New("duplicate month")

	// ErrEmptyStore is returned when a store would hold no records
	ErrEmptyStore = errors.New("empty store")
)

// Point is a single dated observation
type Point struct {
	Date  time.Time `json:"date"`
	Value Value     `json:"value"`
}

// Store is an immutable, date-ordered sequence of records. It is safe for
// concurrent use once constructed.
type Store struct {
	records    []Record
	indicators []string
	index      map[string]int
}

// NewStore sorts records by date and derives the indicator set.
//
// columns gives the preferred indicator order (typically the source header);
// indicators seen in records but not in columns are appended in sorted order.
// Reserved structural names in columns are skipped.
func NewStore(records []Record, columns ...string) (*Store, error) {
	if len(records) == 0 {
		return nil, ErrEmptyStore
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].date.Before(sorted[j].date)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].date.Equal(sorted[i-1].date) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMonth, sorted[i].Label())
		}
	}

	seen := make(map[string]struct{})
	for _, r := range sorted {
		for _, k := range r.keys() {
			seen[k] = struct{}{}
		}
	}

	indicators := make([]string, 0, len(seen))
	index := make(map[string]int, len(seen))
	for _, c := range columns {
		if _, ok := seen[c]; !ok || IsReserved(c) {
			continue
		}
		if _, dup := index[c]; dup {
			continue
		}
		index[c] = len(indicators)
		indicators = append(indicators, c)
	}

	var rest []string
	for k := range seen {
		if _, ok := index[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		index[k] = len(indicators)
		indicators = append(indicators, k)
	}

	return &Store{
		records:    sorted,
		indicators: indicators,
		index:      index,
	}, nil
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of the ordered records
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// At returns the i-th record in date order
func (s *Store) At(i int) Record {
	return s.records[i]
}

// Indicators returns the indicator ids in store order
func (s *Store) Indicators() []string {
	out := make([]string, len(s.indicators))
	copy(out, s.indicators)
	return out
}

// Has reports whether id is an indicator of this store
func (s *Store) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IndexOf returns the position of id in Indicators, or -1
func (s *Store) IndexOf(id string) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// Lookup returns ErrUnknownIndicator for any id not in the store
func (s *Store) Lookup(ids ...string) error {
	for _, id := range ids {
		if !s.Has(id) {
			return fmt.Errorf("%w: %q", ErrUnknownIndicator, id)
		}
	}
	return nil
}

// Values returns the column for id aligned with Records, gaps included
func (s *Store) Values(id string) []Value {
	out := make([]Value, len(s.records))
	for i, r := range s.records {
		out[i] = r.Value(id)
	}
	return out
}

// Observed returns only the present values for id, in date order
func (s *Store) Observed(id string) []Point {
	var out []Point
	for _, r := range s.records {
		if v := r.Value(id); v.Valid {
			out = append(out, Point{Date: r.date, Value: v})
		}
	}
	return out
}

// Dates returns the shared date axis
func (s *Store) Dates() []time.Time {
	out := make([]time.Time, len(s.records))
	for i, r := range s.records {
		out[i] = r.date
	}
	return out
}

// FirstDate returns the earliest record date
func (s *Store) FirstDate() time.Time {
	return s.records[0].date
}

// LastDate returns the latest record date
func (s *Store) LastDate() time.Time {
	return s.records[len(s.records)-1].date
}
