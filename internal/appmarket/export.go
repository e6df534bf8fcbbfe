package appmarket

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// WriteCSV writes an app table in the canonical combined schema.
func WriteCSV(w io.Writer, apps []App) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(App{}); err != nil {
		return eris.Wrap(err, "appmarket: encode app header")
	}
	for _, a := range apps {
		if err := enc.Encode(a); err != nil {
			return eris.Wrap(err, "appmarket: encode app row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "appmarket: flush app csv")
	}
	return nil
}

// ReadCSV parses an app table previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]App, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, eris.Wrap(err, "appmarket: open app csv")
	}
	var apps []App
	for {
		var a App
		if err := dec.Decode(&a); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "appmarket: decode app row")
		}
		apps = append(apps, a)
	}
	return apps, nil
}
