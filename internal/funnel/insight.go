package funnel

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/market-intel/internal/table"
)

// CategoryMetrics is the aggregate metric block serialized per category.
type CategoryMetrics struct {
	MonthlySearchVolume float64       `json:"monthly_search_volume"`
	AvgPosition         table.Numeric `json:"avg_position"`
	ConversionRate      table.Numeric `json:"conversion_rate"`
	OpportunityScore    float64       `json:"opportunity_score"`
	TotalSpendUSD       float64       `json:"total_spend_usd"`
	TotalRevenueUSD     float64       `json:"total_revenue_usd"`
}

// CategoryInsight combines one category's aggregate metrics with its
// confidence entries. Missing upstream values pass through as null, never
// as a misleading zero.
type CategoryInsight struct {
	Category   string
	Metrics    CategoryMetrics
	Confidence map[string]ConfidenceEntry
}

// Insights is the final category-insight structure handed to rendering.
// Categories keep the aggregate sort order (opportunity score descending).
type Insights struct {
	Summary    map[string]Stats
	Categories []CategoryInsight
}

// Lookup returns the insight for a category label, if present.
func (ins *Insights) Lookup(category string) (CategoryInsight, bool) {
	for _, c := range ins.Categories {
		if c.Category == category {
			return c, true
		}
	}
	return CategoryInsight{}, false
}

type statsJSON struct {
	Mean table.Numeric `json:"mean"`
	Std  table.Numeric `json:"std"`
}

type confidenceJSON struct {
	Value      table.Numeric `json:"value"`
	Z          table.Numeric `json:"z"`
	Confidence float64       `json:"confidence"`
}

type categoryBodyJSON struct {
	Metrics    CategoryMetrics            `json:"metrics"`
	Confidence map[string]ConfidenceEntry `json:"confidence"`
}

// MarshalJSON serializes the documented insight shape. The categories object
// is written in slice order; JSON objects are unordered per spec, but the
// rendering layer depends on this iteration order, so it is preserved on the
// wire the way the aggregation produced it.
func (ins Insights) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"summary":{`)

	first := true
	for _, metric := range ConfidenceMetrics {
		st, ok := ins.Summary[metric]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeKeyed(&buf, metric, statsJSON{Mean: st.Mean, Std: st.Std}); err != nil {
			return nil, err
		}
	}

	buf.WriteString(`},"categories":{`)
	for i, cat := range ins.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		body := categoryBodyJSON{Metrics: cat.Metrics, Confidence: cat.Confidence}
		if err := writeKeyed(&buf, cat.Category, body); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}")

	return buf.Bytes(), nil
}

func writeKeyed(buf *bytes.Buffer, key string, v any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// MarshalJSON serializes a confidence entry with explicit nulls.
func (e ConfidenceEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(confidenceJSON{Value: e.Value, Z: e.Z, Confidence: e.Confidence})
}

// UnmarshalJSON parses a confidence entry.
func (e *ConfidenceEntry) UnmarshalJSON(data []byte) error {
	var c confidenceJSON
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	*e = ConfidenceEntry{Value: c.Value, Z: c.Z, Confidence: c.Confidence}
	return nil
}

// UnmarshalJSON parses the insight structure, preserving the on-wire
// category order by walking the token stream instead of decoding into a map.
func (ins *Insights) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return eris.Wrap(err, "funnel: insights object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "funnel: insights key")
		}
		key, _ := keyTok.(string)

		switch key {
		case "summary":
			var raw map[string]statsJSON
			if err := dec.Decode(&raw); err != nil {
				return eris.Wrap(err, "funnel: decode summary")
			}
			ins.Summary = make(map[string]Stats, len(raw))
			for k, v := range raw {
				ins.Summary[k] = Stats{Mean: v.Mean, Std: v.Std}
			}
		case "categories":
			if err := expectDelim(dec, '{'); err != nil {
				return eris.Wrap(err, "funnel: categories object")
			}
			ins.Categories = nil
			for dec.More() {
				catTok, err := dec.Token()
				if err != nil {
					return eris.Wrap(err, "funnel: category key")
				}
				cat, _ := catTok.(string)

				var body categoryBodyJSON
				if err := dec.Decode(&body); err != nil {
					return eris.Wrapf(err, "funnel: decode category %q", cat)
				}
				ins.Categories = append(ins.Categories, CategoryInsight{
					Category:   cat,
					Metrics:    body.Metrics,
					Confidence: body.Confidence,
				})
			}
			if err := expectDelim(dec, '}'); err != nil {
				return eris.Wrap(err, "funnel: close categories")
			}
		default:
			// Skip unknown sections.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return eris.Wrapf(err, "funnel: skip %q", key)
			}
		}
	}

	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return eris.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// WriteInsightsJSON writes the insight structure with two-space indentation.
func WriteInsightsJSON(w io.Writer, ins *Insights) error {
	compact, err := json.Marshal(ins)
	if err != nil {
		return eris.Wrap(err, "funnel: marshal insights")
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, compact, "", "  "); err != nil {
		return eris.Wrap(err, "funnel: indent insights")
	}
	pretty.WriteByte('\n')
	if _, err := w.Write(pretty.Bytes()); err != nil {
		return eris.Wrap(err, "funnel: write insights")
	}
	return nil
}
