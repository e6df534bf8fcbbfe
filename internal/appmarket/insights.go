package appmarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/pkg/anthropic"
)

// maxBullets caps the insight bullets kept per app.
const maxBullets = 3

// AppInsight is the generated market-insight record for one app.
type AppInsight struct {
	App
	Insights   []string `json:"insights"`
	Confidence float64  `json:"confidence"`
}

// InsightPrompt builds the generation prompt for one app.
func InsightPrompt(a App) string {
	desc := a.Description
	if desc == "" {
		desc = "No description available."
	}
	return fmt.Sprintf(`App Name: %s
Category: %s
Rating: %g
Reviews: %d
Installs: %d
Price: %g
Description: %s

Generate exactly 3 concise bullet points of actionable market insights for this app.
Do not include URLs. Keep it professional and clear.`,
		a.Name, a.Category, a.Rating, a.Reviews, a.Installs, a.Price, desc)
}

// GenerateInsights produces market-insight bullets for each app in order.
// A failed generation logs a warning and yields an empty-insight entry with
// zero confidence rather than aborting the batch.
func GenerateInsights(ctx context.Context, gen anthropic.Generator, apps []App) ([]AppInsight, error) {
	insights := make([]AppInsight, 0, len(apps))
	for _, a := range apps {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "appmarket: generate insights")
		}

		text, err := gen.Generate(ctx, InsightPrompt(a))
		if err != nil {
			zap.L().Warn("appmarket: insight generation failed",
				zap.String("app", a.Name),
				zap.Error(err),
			)
			insights = append(insights, AppInsight{App: a})
			continue
		}

		insights = append(insights, AppInsight{
			App:        a,
			Insights:   parseBullets(text),
			Confidence: insightConfidence(a),
		})
	}
	return insights, nil
}

// parseBullets splits generated text into clean bullet lines, keeping at
// most maxBullets.
func parseBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(line, "-* \t")
		if line == "" {
			continue
		}
		bullets = append(bullets, line)
		if len(bullets) == maxBullets {
			break
		}
	}
	return bullets
}

// insightConfidence scores how well-grounded an insight can be from the
// app's data completeness: each of rating, reviews, installs, and a real
// description adds an equal share over a 0.55 base, topping out at 0.99.
func insightConfidence(a App) float64 {
	present := 0
	if a.Rating > 0 {
		present++
	}
	if a.Reviews > 0 {
		present++
	}
	if a.Installs > 0 {
		present++
	}
	if a.Description != "" {
		present++
	}
	return math.Round((0.55+float64(present)*0.11)*100) / 100
}

// WriteInsightsJSON writes the app insights as an indented JSON array,
// preserving ranking order.
func WriteInsightsJSON(w io.Writer, insights []AppInsight) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(insights); err != nil {
		return eris.Wrap(err, "appmarket: encode insights")
	}
	return nil
}

// ReadInsightsJSON parses a previously written insight artifact.
func ReadInsightsJSON(r io.Reader) ([]AppInsight, error) {
	var insights []AppInsight
	if err := json.NewDecoder(r).Decode(&insights); err != nil {
		return nil, eris.Wrap(err, "appmarket: decode insights")
	}
	return insights, nil
}
