package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/market-intel/internal/funnel"
)

// topOpportunities caps the summary table in the executive report.
const topOpportunities = 10

// Artifacts lists the file paths produced by an analysis run, for the
// report's closing section.
type Artifacts struct {
	CleanedCSV   string
	InsightsJSON string
	CreativesTXT string
}

// BuildExecutiveReport renders the D2C funnel and SEO executive report as
// Markdown. Category order follows the aggregate ranking.
func BuildExecutiveReport(result *funnel.Result, topCategories []string, creatives []Creative, runID string, files Artifacts) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("# Executive Report: D2C Funnel & SEO Insights\n\n")

	b.WriteString("## Summary\n\n")
	p.Fprintf(&b, "- Rows processed: %d\n", len(result.Records))
	b.WriteString("- Top SEO opportunities (by computed opportunity score):\n")
	for i, agg := range result.Aggregates {
		if i == topOpportunities {
			break
		}
		pos := "n/a"
		if v, ok := agg.AvgPosition.Float(); ok {
			pos = fmt.Sprintf("%.2f", v)
		}
		p.Fprintf(&b, "- **%s**: opportunity_score %.1f, monthly_search_volume %.0f, avg_position %s\n",
			agg.Category, agg.OpportunityScore, agg.MonthlySearchVolume, pos)
	}

	b.WriteString("\n## Top category recommendations\n\n")
	for _, cat := range topCategories {
		b.WriteString("### " + cat + "\n")
		if ins, ok := result.Insights.Lookup(cat); ok {
			p.Fprintf(&b, "- Opportunity score: %.1f\n", ins.Metrics.OpportunityScore)
			if conf, ok := ins.Confidence["opportunity_score"]; ok {
				fmt.Fprintf(&b, "- Confidence (opportunity_score): %.2f\n", conf.Confidence)
			}
		}
		b.WriteString("\n")
	}

	if len(creatives) > 0 {
		b.WriteString("## Creatives (generated)\n\n")
		for _, c := range creatives {
			fmt.Fprintf(&b, "### %s\n```\n%s\n```\n", c.Category, strings.TrimSpace(c.RawOutput))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Files produced\n\n")
	fmt.Fprintf(&b, "- Cleaned CSV: `%s`\n", files.CleanedCSV)
	fmt.Fprintf(&b, "- Insights JSON: `%s`\n", files.InsightsJSON)
	if files.CreativesTXT != "" {
		fmt.Fprintf(&b, "- Creatives TXT: `%s`\n", files.CreativesTXT)
	}

	fmt.Fprintf(&b, "\nRun ID: %s\n", runID)

	return b.String()
}
