// Package funnel derives per-record funnel metrics, per-category SEO
// opportunity aggregates, and z-score based confidence values from a
// normalized marketing table.
package funnel

import (
	"github.com/sells-group/market-intel/internal/table"
)

// ComputeMetrics derives the funnel ratio metrics for one record. It is a
// pure function: an all-zero row yields all metrics missing, never an error.
func ComputeMetrics(r table.Record) table.Metrics {
	m := table.Metrics{
		CTR:               table.SafeDiv(r.Clicks, r.Impressions),
		CVRClickToInstall: table.SafeDiv(r.Installs, r.Clicks),
		ROAS:              table.SafeDiv(r.RevenueUSD, r.SpendUSD),
		LTVPerInstall:     table.SafeDiv(r.RevenueUSD, r.Installs),
		RepeatRate:        table.SafeDiv(r.RepeatPurchase, r.FirstPurchase),
	}

	// CAC counts first purchases, falling back to installs when there are
	// none. Substitution, not addition.
	m.ConversionsForCAC = r.Installs
	if fp, ok := r.FirstPurchase.Float(); ok && fp > 0 {
		m.ConversionsForCAC = r.FirstPurchase
	}
	m.CACUSD = table.SafeDiv(r.SpendUSD, m.ConversionsForCAC)

	m.OpportunityScore = opportunityScore(r)
	return m
}

// opportunityScore computes monthly_search_volume * conversion_rate divided
// by avg_position + 1. The missing-value policy is asymmetric and deliberate:
// a missing conversion rate contributes zero to the numerator, while a
// missing position defaults the denominator to 1 (best rank). An unranked
// category is neither punished nor rewarded.
func opportunityScore(r table.Record) table.Numeric {
	num := r.MonthlySearchVolume.Mul(table.Value(r.ConversionRate.Or(0)))

	denom := 1.0
	if pos, ok := r.AvgPosition.Float(); ok {
		denom = pos + 1
	}
	return table.SafeDiv(num, table.Value(denom))
}

// Score derives metrics for every record, preserving input order.
func Score(records []table.Record) []table.ScoredRecord {
	scored := make([]table.ScoredRecord, len(records))
	for i, r := range records {
		scored[i] = table.ScoredRecord{Record: r, Metrics: ComputeMetrics(r)}
	}
	return scored
}
