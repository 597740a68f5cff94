package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Numeric is a JSON number that also accepts numeric strings, as HTML forms
// send them. Unparseable strings decode without error and are reported by
// the request conversion as field errors.
type Numeric struct {
	Value float64
	Valid bool
	Raw   string
}

// NewNumeric returns a valid Numeric holding v
func NewNumeric(v float64) *Numeric {
	return &Numeric{Value: v, Valid: true}
}

// UnmarshalJSON accepts numbers and strings
func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("numeric: empty value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.Raw = s
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		n.Valid = err == nil && !math.IsNaN(v) && !math.IsInf(v, 0)
		if n.Valid {
			n.Value = v
		}
		return nil
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("numeric: expected a number or numeric string, got %s", data)
		}
		n.Raw = string(data)
		n.Value = v
		n.Valid = true
		return nil
	}
}

// MarshalJSON writes the value as a JSON number
func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return json.Marshal(n.Raw)
	}
	return json.Marshal(n.Value)
}

// Int returns the value as an integer when it is valid and whole
func (n *Numeric) Int() (int, bool) {
	if !n.Valid || n.Value != math.Trunc(n.Value) || math.Abs(n.Value) > math.MaxInt32 {
		return 0, false
	}
	return int(n.Value), true
}
