package funnel

import (
	"sort"

	"github.com/sells-group/market-intel/internal/table"
)

// CategoryAggregate holds per-category sums and means over the scored table.
// Sums treat missing as zero (a category with no measurable opportunity sums
// to 0); means are taken over non-missing values only and stay missing when
// no value exists.
type CategoryAggregate struct {
	Category            string
	MonthlySearchVolume float64
	SpendUSD            float64
	RevenueUSD          float64
	OpportunityScore    float64
	AvgPosition         table.Numeric
	ConversionRate      table.Numeric
}

// Aggregate groups scored records by category and sorts the result by
// opportunity score, descending. The sort is stable over a lexical base
// ordering of category labels, so ties resolve alphabetically; this ordering
// decides which categories count as "top" downstream.
func Aggregate(records []table.ScoredRecord) []CategoryAggregate {
	type accum struct {
		volume, spend, revenue, score float64
		posSum, posN                  float64
		convSum, convN                float64
	}

	byCategory := make(map[string]*accum)
	for _, r := range records {
		a, ok := byCategory[r.Category]
		if !ok {
			a = &accum{}
			byCategory[r.Category] = a
		}
		a.volume += r.MonthlySearchVolume.Or(0)
		a.spend += r.SpendUSD.Or(0)
		a.revenue += r.RevenueUSD.Or(0)
		a.score += r.OpportunityScore.Or(0)
		if pos, ok := r.AvgPosition.Float(); ok {
			a.posSum += pos
			a.posN++
		}
		if cr, ok := r.ConversionRate.Float(); ok {
			a.convSum += cr
			a.convN++
		}
	}

	aggs := make([]CategoryAggregate, 0, len(byCategory))
	for cat, a := range byCategory {
		agg := CategoryAggregate{
			Category:            cat,
			MonthlySearchVolume: a.volume,
			SpendUSD:            a.spend,
			RevenueUSD:          a.revenue,
			OpportunityScore:    a.score,
			AvgPosition:         table.Missing(),
			ConversionRate:      table.Missing(),
		}
		if a.posN > 0 {
			agg.AvgPosition = table.Value(a.posSum / a.posN)
		}
		if a.convN > 0 {
			agg.ConversionRate = table.Value(a.convSum / a.convN)
		}
		aggs = append(aggs, agg)
	}

	sort.Slice(aggs, func(i, j int) bool { return aggs[i].Category < aggs[j].Category })
	sort.SliceStable(aggs, func(i, j int) bool { return aggs[i].OpportunityScore > aggs[j].OpportunityScore })

	return aggs
}

// TopCategories returns the first k category labels in aggregate order.
func TopCategories(aggs []CategoryAggregate, k int) []string {
	if k > len(aggs) {
		k = len(aggs)
	}
	cats := make([]string, 0, k)
	for _, a := range aggs[:k] {
		cats = append(cats, a.Category)
	}
	return cats
}
