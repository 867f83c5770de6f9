package provider

import (
	"math"
	"strconv"
	"strings"
)

// ExtractValue normalizes a numeric value from the provider's loosely typed
// payloads. Understat quotes almost every number ("0.0761", "12"), while
// our own CSV round-trips produce plain strings and decoded JSON produces
// float64. This handles all of them.
//
// Returns the scalar float64 value, and ok=false if not extractable.
func ExtractValue(val interface{}) (float64, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return ExtractValue(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CoerceXG turns any expected-goal value into a non-negative float.
// Anything that cannot be read as a number becomes exactly 0.0.
func CoerceXG(val interface{}) float64 {
	f, ok := ExtractValue(val)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// ParseInt reads an integer field, falling back to 0. Values like "12.0"
// are truncated rather than rejected.
func ParseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, ok := ExtractValue(s); ok {
		return int(f)
	}
	return 0
}
