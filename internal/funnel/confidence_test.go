package funnel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/market-intel/internal/table"
)

func TestZToConfidence(t *testing.T) {
	tests := []struct {
		z    table.Numeric
		want float64
	}{
		{table.Value(0), 0.5},
		{table.Value(2.4), 0.7},
		{table.Value(-2.4), 0.7},
		{table.Value(6), 0.99},
		{table.Value(-6), 0.99},
		{table.Value(100), 0.99},
		{table.Value(-100), 0.99},
		{table.Value(1.5), 0.62},
		{table.Missing(), 0.5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("z=%s", table.FormatNumeric(tt.z)), func(t *testing.T) {
			assert.InDelta(t, tt.want, ZToConfidence(tt.z), 1e-9)
		})
	}
}

func TestZToConfidenceBoundsAndSymmetry(t *testing.T) {
	for z := -12.0; z <= 12.0; z += 0.25 {
		c := ZToConfidence(table.Value(z))
		assert.GreaterOrEqual(t, c, 0.5, "z=%v", z)
		assert.LessOrEqual(t, c, 0.99, "z=%v", z)
		assert.InDelta(t, ZToConfidence(table.Value(-z)), c, 1e-9, "z=%v", z)
	}
}

func roasRow(category string, roas float64) table.ScoredRecord {
	return table.ScoredRecord{
		Record:  table.Record{Category: category},
		Metrics: table.Metrics{ROAS: table.Value(roas)},
	}
}

func TestDatasetStatsPopulationStd(t *testing.T) {
	records := []table.ScoredRecord{
		roasRow("A", 2), roasRow("A", 4), roasRow("B", 4), roasRow("B", 6),
	}

	stats, n := DatasetStats(records, "roas")
	assert.Equal(t, 4, n)
	assert.InDelta(t, 4.0, stats.Mean.Or(-1), 1e-9)
	// Population std divides by N: sqrt((4+0+0+4)/4).
	assert.InDelta(t, 1.4142135623, stats.Std.Or(-1), 1e-9)
}

func TestDatasetStatsSkipsMissing(t *testing.T) {
	records := []table.ScoredRecord{
		roasRow("A", 3),
		{Record: table.Record{Category: "B"}},
		roasRow("C", 5),
	}

	stats, n := DatasetStats(records, "roas")
	assert.Equal(t, 2, n)
	assert.InDelta(t, 4.0, stats.Mean.Or(-1), 1e-9)
}

func TestDatasetStatsEmpty(t *testing.T) {
	stats, n := DatasetStats(nil, "roas")
	assert.Zero(t, n)
	assert.False(t, stats.Mean.Present())
	assert.False(t, stats.Std.Present())
}

func TestCategoryConfidenceTooFewSamples(t *testing.T) {
	records := []table.ScoredRecord{roasRow("A", 3)}
	stats, n := DatasetStats(records, "roas")

	entry := CategoryConfidence(records, "A", "roas", stats, n)
	assert.InDelta(t, 0.5, entry.Confidence, 1e-9)
	assert.False(t, entry.Value.Present())
	assert.False(t, entry.Z.Present())
}

func TestCategoryConfidenceDegenerateDistribution(t *testing.T) {
	// Every value identical: std is zero, substituted with 1, so every
	// z-score is 0 and confidence bottoms out.
	records := []table.ScoredRecord{
		roasRow("A", 3), roasRow("B", 3), roasRow("C", 3),
	}
	stats, n := DatasetStats(records, "roas")
	require.InDelta(t, 0.0, stats.Std.Or(-1), 1e-9)

	for _, cat := range []string{"A", "B", "C"} {
		entry := CategoryConfidence(records, cat, "roas", stats, n)
		assert.InDelta(t, 0.5, entry.Confidence, 1e-9, cat)
		assert.InDelta(t, 0.0, entry.Z.Or(-1), 1e-9, cat)
	}
}

func TestCategoryConfidenceOutlier(t *testing.T) {
	records := []table.ScoredRecord{
		roasRow("A", 1), roasRow("B", 1), roasRow("C", 1), roasRow("Out", 10),
	}
	stats, n := DatasetStats(records, "roas")

	out := CategoryConfidence(records, "Out", "roas", stats, n)
	mid := CategoryConfidence(records, "A", "roas", stats, n)
	assert.Greater(t, out.Confidence, mid.Confidence)
	assert.InDelta(t, 10.0, out.Value.Or(-1), 1e-9)
}

func TestCategoryConfidenceScaleInvariant(t *testing.T) {
	// Multiplying revenue and spend together leaves ROAS untouched, so the
	// confidence computed from ROAS cannot move either.
	base := []table.Record{
		{Category: "A", RevenueUSD: table.Value(300), SpendUSD: table.Value(100)},
		{Category: "B", RevenueUSD: table.Value(500), SpendUSD: table.Value(100)},
		{Category: "C", RevenueUSD: table.Value(900), SpendUSD: table.Value(100)},
	}
	scaled := make([]table.Record, len(base))
	for i, r := range base {
		scaled[i] = r
		scaled[i].RevenueUSD = table.Value(r.RevenueUSD.Or(0) * 10)
		scaled[i].SpendUSD = table.Value(r.SpendUSD.Or(0) * 10)
	}

	baseScored := Score(base)
	scaledScored := Score(scaled)

	baseStats, bn := DatasetStats(baseScored, "roas")
	scaledStats, sn := DatasetStats(scaledScored, "roas")
	require.Equal(t, bn, sn)

	for _, cat := range []string{"A", "B", "C"} {
		b := CategoryConfidence(baseScored, cat, "roas", baseStats, bn)
		s := CategoryConfidence(scaledScored, cat, "roas", scaledStats, sn)
		assert.InDelta(t, b.Confidence, s.Confidence, 1e-9, cat)
		assert.InDelta(t, b.Z.Or(-1), s.Z.Or(-1), 1e-9, cat)
	}
}

func TestCategoryConfidenceMissingCategoryValue(t *testing.T) {
	records := []table.ScoredRecord{
		roasRow("A", 2), roasRow("B", 6),
		{Record: table.Record{Category: "NoData"}},
	}
	stats, n := DatasetStats(records, "roas")

	entry := CategoryConfidence(records, "NoData", "roas", stats, n)
	assert.False(t, entry.Value.Present())
	assert.False(t, entry.Z.Present())
	assert.InDelta(t, 0.5, entry.Confidence, 1e-9)
}
