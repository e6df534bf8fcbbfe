package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/market-intel/internal/appmarket"
)

// BuildAppsReport renders the app-market insights report as Markdown:
// a ranking table followed by the generated insight bullets per app.
func BuildAppsReport(insights []appmarket.AppInsight, runID string) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("# AI-Powered Market Insights Report\n\n")

	b.WriteString("## Top Apps by Rating\n\n")
	b.WriteString("| App Name | Category | Rating | Reviews | Installs | Price |\n")
	b.WriteString("|----------|----------|--------|---------|----------|-------|\n")
	for _, ins := range insights {
		p.Fprintf(&b, "| %s | %s | %g | %d | %d | $%.2f |\n",
			ins.Name, ins.Category, ins.Rating, ins.Reviews, ins.Installs, ins.Price)
	}

	b.WriteString("\n## Detailed Insights\n\n")
	for _, ins := range insights {
		b.WriteString("### " + ins.Name + "\n")
		if len(ins.Insights) == 0 {
			b.WriteString("- No insights generated.\n")
		}
		for _, line := range ins.Insights {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		fmt.Fprintf(&b, "- Confidence: %.0f%%\n\n", ins.Confidence*100)
	}

	fmt.Fprintf(&b, "Run ID: %s\n", runID)

	return b.String()
}
