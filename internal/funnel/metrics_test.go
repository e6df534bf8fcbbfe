package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/market-intel/internal/table"
)

func TestComputeMetricsZeroDenominators(t *testing.T) {
	// Zero impressions and clicks: the ratio metrics are missing, not zero
	// and not an error.
	r := table.Record{
		Impressions: table.Value(0),
		Clicks:      table.Value(0),
		Installs:    table.Value(0),
		SpendUSD:    table.Value(500),
	}

	m := ComputeMetrics(r)
	assert.False(t, m.CTR.Present())
	assert.False(t, m.CVRClickToInstall.Present())
	assert.False(t, m.CACUSD.Present())
}

func TestComputeMetricsCACFallback(t *testing.T) {
	// No first purchases: CAC divides spend by installs instead.
	r := table.Record{
		SpendUSD:      table.Value(100),
		Installs:      table.Value(50),
		FirstPurchase: table.Value(0),
	}

	m := ComputeMetrics(r)
	assert.InDelta(t, 2.0, m.CACUSD.Or(-1), 1e-9)
	assert.InDelta(t, 50.0, m.ConversionsForCAC.Or(-1), 1e-9)

	// With first purchases present, they take over entirely.
	r.FirstPurchase = table.Value(20)
	m = ComputeMetrics(r)
	assert.InDelta(t, 5.0, m.CACUSD.Or(-1), 1e-9)
	assert.InDelta(t, 20.0, m.ConversionsForCAC.Or(-1), 1e-9)
}

func TestComputeMetricsFullRow(t *testing.T) {
	r := table.Record{
		SpendUSD:       table.Value(1000),
		Impressions:    table.Value(100000),
		Clicks:         table.Value(2500),
		Installs:       table.Value(400),
		FirstPurchase:  table.Value(120),
		RepeatPurchase: table.Value(30),
		RevenueUSD:     table.Value(3600),
	}

	m := ComputeMetrics(r)
	assert.InDelta(t, 0.025, m.CTR.Or(-1), 1e-9)
	assert.InDelta(t, 0.16, m.CVRClickToInstall.Or(-1), 1e-9)
	assert.InDelta(t, 1000.0/120.0, m.CACUSD.Or(-1), 1e-9)
	assert.InDelta(t, 3.6, m.ROAS.Or(-1), 1e-9)
	assert.InDelta(t, 9.0, m.LTVPerInstall.Or(-1), 1e-9)
	assert.InDelta(t, 0.25, m.RepeatRate.Or(-1), 1e-9)
}

func TestComputeMetricsAllZeroRow(t *testing.T) {
	r := table.Record{
		SpendUSD:       table.Value(0),
		Impressions:    table.Value(0),
		Clicks:         table.Value(0),
		Installs:       table.Value(0),
		FirstPurchase:  table.Value(0),
		RepeatPurchase: table.Value(0),
		RevenueUSD:     table.Value(0),
	}

	m := ComputeMetrics(r)
	for name, v := range map[string]table.Numeric{
		"ctr":                  m.CTR,
		"cvr_click_to_install": m.CVRClickToInstall,
		"cac_usd":              m.CACUSD,
		"roas":                 m.ROAS,
		"ltv_per_install":      m.LTVPerInstall,
		"repeat_rate":          m.RepeatRate,
	} {
		assert.False(t, v.Present(), name)
	}
}

func TestOpportunityScoreMissingPolicy(t *testing.T) {
	// Missing avg_position defaults the denominator to 1.
	r := table.Record{
		MonthlySearchVolume: table.Value(1000),
		ConversionRate:      table.Value(0.05),
		AvgPosition:         table.Missing(),
	}
	m := ComputeMetrics(r)
	assert.InDelta(t, 50.0, m.OpportunityScore.Or(-1), 1e-9)

	// A real position shifts it: 1000 * 0.05 / (4 + 1).
	r.AvgPosition = table.Value(4)
	m = ComputeMetrics(r)
	assert.InDelta(t, 10.0, m.OpportunityScore.Or(-1), 1e-9)

	// Missing conversion rate zeroes the numerator rather than the result.
	r.ConversionRate = table.Missing()
	m = ComputeMetrics(r)
	assert.InDelta(t, 0.0, m.OpportunityScore.Or(-1), 1e-9)

	// Missing volume leaves the score missing.
	r = table.Record{
		MonthlySearchVolume: table.Missing(),
		ConversionRate:      table.Value(0.05),
	}
	m = ComputeMetrics(r)
	assert.False(t, m.OpportunityScore.Present())
}

func TestScorePreservesOrder(t *testing.T) {
	records := []table.Record{
		{CampaignID: "b", SpendUSD: table.Value(1)},
		{CampaignID: "a", SpendUSD: table.Value(2)},
		{CampaignID: "c", SpendUSD: table.Value(3)},
	}

	scored := Score(records)
	require.Len(t, scored, 3)
	assert.Equal(t, "b", scored[0].CampaignID)
	assert.Equal(t, "a", scored[1].CampaignID)
	assert.Equal(t, "c", scored[2].CampaignID)
}
