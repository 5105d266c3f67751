// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a loosely typed field from a backend record. The backend sends
// the same field as a string in one record and a number in the next, so
// Value keeps a display form plus whether the field was present (non-null)
// and whether it counts as set (non-empty, non-zero, non-false).
type Value struct {
	text    string
	present bool
	truthy  bool
}

// ParseValue builds a Value from a raw JSON literal.
func ParseValue(raw json.RawMessage) Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Value{}
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{text: string(raw), present: true, truthy: true}
		}
		return Value{text: s, present: true, truthy: s != ""}
	case 't':
		return Value{text: "true", present: true, truthy: true}
	case 'f':
		return Value{text: "false", present: true}
	case '[', '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return Value{text: string(raw), present: true, truthy: true}
		}
		return Value{text: buf.String(), present: true, truthy: true}
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return Value{text: string(raw), present: true, truthy: true}
	}
	return Value{
		text:    formatNumber(f),
		present: true,
		truthy:  f != 0 && !math.IsNaN(f),
	}
}

// StringValue returns a present Value holding s.
func StringValue(s string) Value {
	return Value{text: s, present: true, truthy: s != ""}
}

// UnmarshalJSON accepts any JSON literal.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = ParseValue(data)
	return nil
}

// String returns the display form. Absent values render as "".
func (v Value) String() string { return v.text }

// Present reports whether the field was sent with a non-null value.
func (v Value) Present() bool { return v.present }

// Truthy reports whether the field is set to something other than an
// empty string, zero, false, or null.
func (v Value) Truthy() bool { return v.truthy }

// Int returns the value as an integer, or 0 when it is not numeric.
func (v Value) Int() int {
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// FirstTruthy returns the first set value, or the zero Value.
func FirstTruthy(vals ...Value) Value {
	for _, v := range vals {
		if v.truthy {
			return v
		}
	}
	return Value{}
}

// FirstPresent returns the first non-null value, or the zero Value.
func FirstPresent(vals ...Value) Value {
	for _, v := range vals {
		if v.present {
			return v
		}
	}
	return Value{}
}

// formatNumber prints f the way a browser would: plain decimal between
// 1e-6 and 1e21, exponent form outside that range, and no negative zero.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
