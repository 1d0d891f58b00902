// Package ingest loads the monthly indicator table from CSV, JSON or XLSX,
// either from disk or over HTTP.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/macrolens/macrolens/internal/timeseries"
)

// ErrFormat marks malformed input: an unparsable date or a non-numeric cell
var ErrFormat = errors.New("invalid dataset")

// Table is the parsed dataset before it becomes a store
type Table struct {
	// Columns is the source header, structural columns included
	Columns []string
	Records []timeseries.Record
}

// Store builds the immutable store, keeping the header's indicator order
func (t *Table) Store() (*timeseries.Store, error) {
	return timeseries.NewStore(t.Records, t.Columns...)
}

// cell is one raw field of a row: text from CSV/XLSX, or a decoded JSON value
type cell struct {
	text    string
	number  float64
	numeric bool
	null    bool
}

func textCell(s string) cell {
	return cell{text: strings.TrimSpace(s)}
}

// row maps header names to cells
type row map[string]cell

// missingMarkers are cell contents treated as an absent observation
var missingMarkers = map[string]bool{
	"":     true,
	"null": true,
	"nan":  true,
	"na":   true,
	"n/a":  true,
}

func (c cell) value() (timeseries.Value, error) {
	switch {
	case c.null:
		return timeseries.None(), nil
	case c.numeric:
		return timeseries.Some(c.number), nil
	}
	if missingMarkers[strings.ToLower(c.text)] {
		return timeseries.None(), nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(c.text, ",", ""), 64)
	if err != nil {
		return timeseries.None(), fmt.Errorf("%w: non-numeric value %q", ErrFormat, c.text)
	}
	return timeseries.Some(f), nil
}

func (c cell) integer() (int, bool) {
	if c.numeric {
		if c.number != math.Trunc(c.number) {
			return 0, false
		}
		return int(c.number), true
	}
	f, err := strconv.ParseFloat(c.text, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01-02-06",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// lookup finds a structural column regardless of case
func (r row) lookup(name string) (cell, bool) {
	for k, c := range r {
		if strings.EqualFold(k, name) {
			return c, true
		}
	}
	return cell{}, false
}

// month resolves the (year, month) of a row. Year/Month columns win over Date.
func (r row) month() (int, time.Month, error) {
	yc, hasYear := r.lookup("Year")
	mc, hasMonth := r.lookup("Month")
	if hasYear && hasMonth {
		y, yok := yc.integer()
		m, mok := mc.integer()
		if yok && mok && m >= 1 && m <= 12 {
			return y, time.Month(m), nil
		}
	}

	if dc, ok := r.lookup("Date"); ok && !dc.null {
		if dc.numeric {
			// epoch milliseconds, as written by dataframe exporters
			t := time.UnixMilli(int64(dc.number)).UTC()
			return t.Year(), t.Month(), nil
		}
		if t, ok := parseDate(dc.text); ok {
			return t.Year(), t.Month(), nil
		}
		return 0, 0, fmt.Errorf("%w: unparsable date %q", ErrFormat, dc.text)
	}
	return 0, 0, fmt.Errorf("%w: row has no year/month or date", ErrFormat)
}

// build converts ordered rows into a table. line is the 1-based source
// position of the first row, used in error messages.
func build(columns []string, rows []row, line int) (*Table, error) {
	t := &Table{Columns: columns, Records: make([]timeseries.Record, 0, len(rows))}
	for i, r := range rows {
		year, month, err := r.month()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+i, err)
		}

		values := make(map[string]timeseries.Value, len(r))
		for name, c := range r {
			if timeseries.IsReserved(name) {
				continue
			}
			v, err := c.value()
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", line+i, name, err)
			}
			values[name] = v
		}
		t.Records = append(t.Records, timeseries.NewRecord(year, month, values))
	}
	return t, nil
}

// fromGrid converts a header row plus text rows, as read from CSV or XLSX.
// Short rows are padded with missing cells.
func fromGrid(grid [][]string) (*Table, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrFormat)
	}

	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]row, 0, len(grid)-1)
	for _, fields := range grid[1:] {
		if blank(fields) {
			continue
		}
		r := make(row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(fields) {
				r[name] = textCell(fields[i])
			} else {
				r[name] = textCell("")
			}
		}
		rows = append(rows, r)
	}
	return build(header, rows, 2)
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
