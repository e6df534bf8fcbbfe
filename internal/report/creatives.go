// Package report renders executive Markdown reports and creative text
// artifacts from analysis output.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/pkg/anthropic"
)

// Creative holds the raw generated copy for one category. The model output
// is stored as-is; no strict JSON parsing is attempted.
type Creative struct {
	Category  string `json:"category"`
	RawOutput string `json:"raw_output"`
}

// CreativePrompt builds the copywriting prompt for one SEO category.
func CreativePrompt(category string) string {
	return fmt.Sprintf(
		"You are a marketing copywriter. Produce 3 short, distinct ad headlines (<= 12 words), "+
			"1 SEO meta description (max 160 chars), and 1 product page benefit sentence for a D2C brand in the category: %s. "+
			"Keep language action-oriented and customer-focused. Return JSON with fields: headlines (list), meta, pdp.",
		category)
}

// GenerateCreatives produces ad copy for each category in order. A failing
// generation fails the run; a partial creatives file would be silently wrong.
func GenerateCreatives(ctx context.Context, gen anthropic.Generator, categories []string) ([]Creative, error) {
	creatives := make([]Creative, 0, len(categories))
	for _, cat := range categories {
		out, err := gen.Generate(ctx, CreativePrompt(cat))
		if err != nil {
			return nil, eris.Wrapf(err, "report: generate creatives for %q", cat)
		}
		creatives = append(creatives, Creative{Category: cat, RawOutput: out})
		zap.L().Info("report: creatives generated", zap.String("category", cat))
	}
	return creatives, nil
}

// FormatCreatives renders the creatives text artifact, one block per
// category.
func FormatCreatives(creatives []Creative) string {
	var b strings.Builder
	for _, c := range creatives {
		fmt.Fprintf(&b, "=== Category: %s ===\n", c.Category)
		b.WriteString(strings.TrimSpace(c.RawOutput))
		b.WriteString("\n\n")
	}
	return b.String()
}

// ParseCreatives reads a creatives artifact back into blocks.
func ParseCreatives(text string) []Creative {
	var creatives []Creative
	for _, block := range strings.Split(text, "=== Category:")[1:] {
		head, body, _ := strings.Cut(block, "===")
		creatives = append(creatives, Creative{
			Category:  strings.TrimSpace(head),
			RawOutput: strings.TrimSpace(body),
		})
	}
	return creatives
}
