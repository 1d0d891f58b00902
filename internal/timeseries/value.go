package timeseries

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is an optional observation. The zero Value is missing.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a present Value. NaN and infinities are treated as missing.
func Some(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float: f, Valid: true}
}

// None returns a missing Value
func None() Value {
	return Value{}
}

// Get returns the number and whether it is present
func (v Value) Get() (float64, bool) {
	return v.Float, v.Valid
}

// String implements fmt.Stringer
func (v Value) String() string {
	if !v.Valid {
		return "null"
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// MarshalJSON encodes a missing value as null
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// UnmarshalJSON accepts a number or null
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
