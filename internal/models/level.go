package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Level is a sea-level (or residual) reading that may be missing.
// The zero value is missing. NaN and infinities are never stored as present values.
type Level struct {
	value float64
	valid bool
}

// Reading returns a present Level, or a missing one when v is not finite.
func Reading(v float64) Level {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Level{}
	}
	return Level{value: v, valid: true}
}

// Missing returns a missing Level.
func Missing() Level {
	return Level{}
}

// Value returns the reading and whether it is present.
func (l Level) Value() (float64, bool) {
	return l.value, l.valid
}

func (l Level) IsMissing() bool {
	return !l.valid
}

// Shift subtracts offset from a present reading. Missing stays missing.
func (l Level) Shift(offset float64) Level {
	if !l.valid {
		return l
	}
	return Reading(l.value - offset)
}

func (l Level) String() string {
	if !l.valid {
		return "NaN"
	}
	return strconv.FormatFloat(l.value, 'f', 4, 64)
}

func (l Level) MarshalJSON() ([]byte, error) {
	if !l.valid {
		return []byte("null"), nil
	}
	return json.Marshal(l.value)
}

func (l *Level) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = Missing()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*l = Reading(v)
	return nil
}
