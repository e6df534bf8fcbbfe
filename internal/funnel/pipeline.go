package funnel

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/market-intel/internal/table"
)

// Result is the output of one analysis run over a static record table.
type Result struct {
	Records    []table.ScoredRecord
	Aggregates []CategoryAggregate
	Insights   *Insights
}

// Options tunes the analysis run.
type Options struct {
	// Concurrency bounds the parallel per-category confidence workers.
	// Zero means GOMAXPROCS.
	Concurrency int
}

// Analyze runs the full derivation pipeline over a normalized table:
// per-record metrics, per-category aggregation, and confidence scoring.
// Each stage produces a new derived view; nothing mutates its input.
func Analyze(ctx context.Context, records []table.Record, opts Options) (*Result, error) {
	scored := Score(records)
	aggs := Aggregate(scored)

	insights := &Insights{
		Summary: make(map[string]Stats, len(ConfidenceMetrics)),
	}

	// Dataset-wide distribution per metric, computed once and shared
	// read-only by every category worker.
	type distribution struct {
		stats Stats
		n     int
	}
	dists := make(map[string]distribution, len(ConfidenceMetrics))
	for _, metric := range ConfidenceMetrics {
		stats, n := DatasetStats(scored, metric)
		dists[metric] = distribution{stats: stats, n: n}
		insights.Summary[metric] = stats
	}

	// Categories are embarrassingly parallel here; results land at their
	// aggregate index so the final ordering never depends on scheduling.
	insights.Categories = make([]CategoryInsight, len(aggs))

	workers := opts.Concurrency
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, agg := range aggs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			conf := make(map[string]ConfidenceEntry, len(ConfidenceMetrics))
			for _, metric := range ConfidenceMetrics {
				d := dists[metric]
				conf[metric] = CategoryConfidence(scored, agg.Category, metric, d.stats, d.n)
			}

			insights.Categories[i] = CategoryInsight{
				Category: agg.Category,
				Metrics: CategoryMetrics{
					MonthlySearchVolume: agg.MonthlySearchVolume,
					AvgPosition:         agg.AvgPosition,
					ConversionRate:      agg.ConversionRate,
					OpportunityScore:    agg.OpportunityScore,
					TotalSpendUSD:       agg.SpendUSD,
					TotalRevenueUSD:     agg.RevenueUSD,
				},
				Confidence: conf,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("funnel: analysis complete",
		zap.Int("records", len(scored)),
		zap.Int("categories", len(aggs)),
	)

	return &Result{Records: scored, Aggregates: aggs, Insights: insights}, nil
}
