package table

import (
	"bytes"
	"encoding/json"
	"strconv"
)

var nullLiteral = []byte("null")

// MarshalJSON renders a Numeric as a JSON number, or null when missing.
func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.present {
		return nullLiteral, nil
	}
	return []byte(strconv.FormatFloat(n.value, 'g', -1, 64)), nil
}

// UnmarshalJSON parses a JSON number or null.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		*n = Missing()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Value(f)
	return nil
}
