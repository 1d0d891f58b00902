// Package series derives the chart-specific views of a store. Derivations
// assume the selection already passed the admission check.
package series

import (
	"time"

	"github.com/macrolens/macrolens/internal/timeseries"
)

// Line is a single indicator projected onto the date axis, gaps included
type Line struct {
	Indicator string             `json:"indicator"`
	Points    []timeseries.Point `json:"points"`
}

// Single returns every record's value for id without interpolation
func Single(store *timeseries.Store, id string) (*Line, error) {
	if err := store.Lookup(id); err != nil {
		return nil, err
	}
	records := store.Records()
	points := make([]timeseries.Point, len(records))
	for i, r := range records {
		points[i] = timeseries.Point{Date: r.Date(), Value: r.Value(id)}
	}
	return &Line{Indicator: id, Points: points}, nil
}

// Column is one indicator's values aligned with a shared date axis
type Column struct {
	Indicator string             `json:"indicator"`
	Values    []timeseries.Value `json:"values"`
}

// Aligned holds several indicators on one date axis. Each column carries
// its own holes.
type Aligned struct {
	Dates   []time.Time `json:"dates"`
	Columns []Column    `json:"columns"`
}

// Multi aligns ids on the store's date axis
func Multi(store *timeseries.Store, ids []string) (*Aligned, error) {
	if err := store.Lookup(ids...); err != nil {
		return nil, err
	}
	out := &Aligned{
		Dates:   store.Dates(),
		Columns: make([]Column, len(ids)),
	}
	for i, id := range ids {
		out.Columns[i] = Column{Indicator: id, Values: store.Values(id)}
	}
	return out, nil
}

// Band is one layer of a stacked chart. Lower and Upper are aligned with
// Stacked.Dates.
type Band struct {
	Indicator string    `json:"indicator"`
	Lower     []float64 `json:"lower"`
	Upper     []float64 `json:"upper"`
}

// Stacked is a cumulative stack over the dates where every indicator is present
type Stacked struct {
	Dates []time.Time `json:"dates"`
	Bands []Band      `json:"bands"`
	// Excluded lists the dates dropped because some indicator was missing
	Excluded []time.Time `json:"excluded"`
}

// Stack layers ids in the given order. A row is only stacked when all ids
// are present, so no band is built on a partial sum.
func Stack(store *timeseries.Store, ids []string) (*Stacked, error) {
	if err := store.Lookup(ids...); err != nil {
		return nil, err
	}

	out := &Stacked{
		Dates:    []time.Time{},
		Bands:    make([]Band, len(ids)),
		Excluded: []time.Time{},
	}
	for i, id := range ids {
		out.Bands[i] = Band{Indicator: id, Lower: []float64{}, Upper: []float64{}}
	}

	row := make([]float64, len(ids))
	for _, r := range store.Records() {
		complete := true
		for i, id := range ids {
			v, ok := r.Value(id).Get()
			if !ok {
				complete = false
				break
			}
			row[i] = v
		}
		if !complete {
			out.Excluded = append(out.Excluded, r.Date())
			continue
		}

		out.Dates = append(out.Dates, r.Date())
		var sum float64
		for i, v := range row {
			out.Bands[i].Lower = append(out.Bands[i].Lower, sum)
			sum += v
			out.Bands[i].Upper = append(out.Bands[i].Upper, sum)
		}
	}
	return out, nil
}
