package timeseries

import (
	"strings"
	"time"
)

// Structural field names that never name an indicator
var reservedFields = map[string]struct{}{
	"year":          {},
	"month":         {},
	"date":          {},
	"yearmonth":     {},
	"formatteddate": {},
}

// IsReserved reports whether field is a structural column rather than an indicator.
// The comparison is case-insensitive.
func IsReserved(field string) bool {
	_, ok := reservedFields[strings.ToLower(strings.TrimSpace(field))]
	return ok
}

// MonthStart normalizes (year, month) to the first day of the month in UTC
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// Record is one monthly observation row. Records are immutable once built.
type Record struct {
	date   time.Time
	values map[string]Value
}

// NewRecord builds a record for (year, month). An indicator may be declared
// with a missing Value; reserved field names are ignored.
func NewRecord(year int, month time.Month, values map[string]Value) Record {
	vals := make(map[string]Value, len(values))
	for id, v := range values {
		if IsReserved(id) {
			continue
		}
		if v.Valid {
			v = Some(v.Float)
		}
		vals[id] = v
	}
	return Record{
		date:   MonthStart(year, month),
		values: vals,
	}
}

// Date returns the month-normalized timestamp
func (r Record) Date() time.Time {
	return r.date
}

// Year returns the calendar year
func (r Record) Year() int {
	return r.date.Year()
}

// Month returns the calendar month
func (r Record) Month() time.Month {
	return r.date.Month()
}

// Value returns the observation for indicator id
func (r Record) Value(id string) Value {
	return r.values[id]
}

// Label formats the record date as YYYY-MM
func (r Record) Label() string {
	return r.date.Format("2006-01")
}

// keys returns the indicator ids carried by this record
func (r Record) keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	return keys
}
