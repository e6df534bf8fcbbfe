package funnel

import (
	"math"

	"github.com/sells-group/market-intel/internal/table"
)

// ConfidenceMetrics are the per-record metrics tracked by the confidence
// engine, in summary output order.
var ConfidenceMetrics = []string{
	"opportunity_score",
	"roas",
	"cac_usd",
	"ltv_per_install",
	"repeat_rate",
}

// zCeiling caps |z| before mapping to confidence. Linear interpolation over
// [0, zCeiling] is preserved from the original scoring definition; changing
// the mapping would change what the number means.
const zCeiling = 6.0

// Stats holds dataset-wide distribution parameters for one metric. Both are
// missing when the metric has no non-missing values.
type Stats struct {
	Mean table.Numeric
	Std  table.Numeric
}

// ConfidenceEntry is the confidence result for one (category, metric) pair.
// Confidence is always in [0.5, 0.99]; 0.5 means the distribution was
// degenerate or the category value itself is missing.
type ConfidenceEntry struct {
	Value      table.Numeric
	Z          table.Numeric
	Confidence float64
}

// metricValue extracts one tracked metric from a scored record.
func metricValue(r table.ScoredRecord, metric string) table.Numeric {
	switch metric {
	case "opportunity_score":
		return r.OpportunityScore
	case "roas":
		return r.ROAS
	case "cac_usd":
		return r.CACUSD
	case "ltv_per_install":
		return r.LTVPerInstall
	case "repeat_rate":
		return r.RepeatRate
	default:
		return table.Missing()
	}
}

// DatasetStats computes the mean and population standard deviation (divide
// by N, not N-1) of a metric over all non-missing per-record values. The
// returned count is the number of values that contributed.
func DatasetStats(records []table.ScoredRecord, metric string) (Stats, int) {
	var sum float64
	var n int
	for _, r := range records {
		if v, ok := metricValue(r, metric).Float(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return Stats{Mean: table.Missing(), Std: table.Missing()}, 0
	}

	mean := sum / float64(n)
	var ss float64
	for _, r := range records {
		if v, ok := metricValue(r, metric).Float(); ok {
			d := v - mean
			ss += d * d
		}
	}
	std := math.Sqrt(ss / float64(n))

	return Stats{Mean: table.Value(mean), Std: table.Value(std)}, n
}

// categoryMean averages a metric over one category's records, ignoring
// missing values. Missing when the category has no non-missing value.
func categoryMean(records []table.ScoredRecord, category, metric string) table.Numeric {
	var sum float64
	var n int
	for _, r := range records {
		if r.Category != category {
			continue
		}
		if v, ok := metricValue(r, metric).Float(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return table.Missing()
	}
	return table.Value(sum / float64(n))
}

// CategoryConfidence scores one (category, metric) pair against the dataset
// distribution. The comparison is the category's mean of the per-record
// metric against the global per-record mean/std, never the category's own
// internal variance. Fewer than two dataset values pins confidence at 0.5.
func CategoryConfidence(records []table.ScoredRecord, category, metric string, stats Stats, n int) ConfidenceEntry {
	if n < 2 {
		return ConfidenceEntry{Value: table.Missing(), Z: table.Missing(), Confidence: 0.5}
	}

	mean, _ := stats.Mean.Float()
	std, _ := stats.Std.Float()
	if std == 0 {
		// Zero spread would divide by zero; treat as unit spread.
		std = 1.0
	}

	value := categoryMean(records, category, metric)
	z := table.Missing()
	if v, ok := value.Float(); ok {
		z = table.Value((v - mean) / std)
	}

	return ConfidenceEntry{Value: value, Z: z, Confidence: ZToConfidence(z)}
}

// ZToConfidence maps a z-score magnitude to a bounded confidence value.
// Missing z yields the 0.5 floor. Otherwise |z| is clamped to zCeiling and
// mapped linearly onto [0.5, 0.99], rounded to two decimals. The mapping is
// symmetric in sign: strong deviation in either direction is strong signal.
func ZToConfidence(z table.Numeric) float64 {
	v, ok := z.Float()
	if !ok {
		return 0.5
	}
	a := math.Min(zCeiling, math.Abs(v))
	return math.Round((0.5+(a/zCeiling)*0.49)*100) / 100
}
