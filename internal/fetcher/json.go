package fetcher

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONArray decodes a JSON array of objects into a slice.
func DecodeJSONArray[T any](r io.Reader) ([]T, error) {
	var items []T
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, eris.Wrap(err, "json: decode array")
	}
	return items, nil
}

// DecodeJSONObject decodes a single JSON object from a reader.
func DecodeJSONObject[T any](r io.Reader) (*T, error) {
	var obj T
	if err := json.NewDecoder(r).Decode(&obj); err != nil {
		return nil, eris.Wrap(err, "json: decode object")
	}
	return &obj, nil
}
