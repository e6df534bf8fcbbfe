// Package table builds the canonical in-memory marketing table: column
// resolution, numeric coercion, and the cleaned flat-table export.
package table

import (
	"math"
	"strconv"
	"strings"
)

// Numeric is a float64 that can also be missing. Missing is distinct from
// zero: a blank or unparsable cell stays missing so downstream ranking can
// tell "no data" from "measured zero".
type Numeric struct {
	value   float64
	present bool
}

// Value returns a present Numeric. NaN and infinities collapse to Missing.
func Value(f float64) Numeric {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing()
	}
	return Numeric{value: f, present: true}
}

// Missing returns the absent-value marker.
func Missing() Numeric {
	return Numeric{}
}

// Present reports whether the value is set.
func (n Numeric) Present() bool {
	return n.present
}

// Float returns the underlying value and whether it is present.
func (n Numeric) Float() (float64, bool) {
	return n.value, n.present
}

// Or returns the value, or def when missing.
func (n Numeric) Or(def float64) float64 {
	if !n.present {
		return def
	}
	return n.value
}

// Mul multiplies two Numerics. Missing propagates.
func (n Numeric) Mul(m Numeric) Numeric {
	if !n.present || !m.present {
		return Missing()
	}
	return Value(n.value * m.value)
}

// SafeDiv divides a by b. The result is missing when either operand is
// missing or when b is zero. It never returns an infinity.
func SafeDiv(a, b Numeric) Numeric {
	if !a.present || !b.present || b.value == 0 {
		return Missing()
	}
	return Value(a.value / b.value)
}

// magnitudeSuffixes maps trailing abbreviations to multipliers.
var magnitudeSuffixes = map[byte]float64{
	'K': 1_000,
	'M': 1_000_000,
	'B': 1_000_000_000,
}

// ParseNumeric coerces a raw cell value to a Numeric. It understands
// percent strings ("45%" -> 0.45), currency strings ("$1.99"), grouped
// digits ("1,000,000+"), and abbreviated magnitudes ("3.0M", "201k").
// Anything unparsable is missing, never an error.
func ParseNumeric(raw string) Numeric {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "n/a") || strings.EqualFold(s, "nan") {
		return Missing()
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "+")
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing()
	}

	mult := 1.0
	if m, ok := magnitudeSuffixes[s[len(s)-1]&^0x20]; ok && len(s) > 1 {
		mult = m
		s = s[:len(s)-1]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing()
	}
	if percent {
		f /= 100
	}
	return Value(f * mult)
}

// FormatNumeric renders a Numeric for the cleaned CSV. Missing renders as
// an empty cell.
func FormatNumeric(n Numeric) string {
	if !n.present {
		return ""
	}
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}
