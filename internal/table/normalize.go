package table

import (
	"strings"

	"go.uber.org/zap"
)

// Normalize converts raw string rows into Records using a column resolution.
// Coercion failures become missing values, then the default-fill policy
// applies: funnel counts fill to zero, everything else stays missing. A
// missing category column materializes as UnknownCategory for every row.
func Normalize(rows [][]string, res Resolution) []Record {
	records := make([]Record, 0, len(rows))
	coercionFailures := 0

	for _, row := range rows {
		var rec Record

		for _, field := range NumericFields {
			idx, ok := res[field]
			if !ok || idx >= len(row) {
				rec.setField(field, Missing())
				continue
			}
			raw := row[idx]
			v := ParseNumeric(raw)
			if !v.Present() && strings.TrimSpace(raw) != "" {
				coercionFailures++
			}
			rec.setField(field, v)
		}

		// Counts default missing -> 0.
		for _, field := range CountFields {
			if !rec.Field(field).Present() {
				rec.setField(field, Value(0))
			}
		}

		rec.Category = cellOr(row, res, FieldSEOCategory, UnknownCategory)
		rec.CampaignID = cellOr(row, res, FieldCampaignID, "")
		rec.Channel = cellOr(row, res, FieldChannel, "")

		records = append(records, rec)
	}

	if coercionFailures > 0 {
		zap.L().Warn("table: cells failed numeric coercion, treated as missing",
			zap.Int("cells", coercionFailures),
		)
	}

	return records
}

func cellOr(row []string, res Resolution, field, def string) string {
	idx, ok := res[field]
	if !ok || idx >= len(row) {
		return def
	}
	s := strings.TrimSpace(row[idx])
	if s == "" {
		return def
	}
	return s
}
