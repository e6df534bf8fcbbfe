package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAliases(t *testing.T) {
	aliases, err := DefaultAliases()
	require.NoError(t, err)

	// Every logical field the pipeline reads must have an alias list.
	for _, f := range RequiredFields {
		assert.NotEmpty(t, aliases[f], "missing aliases for %s", f)
	}
	assert.Equal(t, []string{"spend_usd", "spend", "ad_spend", "cost_usd"}, aliases[FieldSpendUSD])
}

func TestResolvePrefersFirstAlias(t *testing.T) {
	aliases := AliasTable{
		"spend_usd": {"spend_usd", "spend", "ad_spend"},
	}

	// Both a lower- and a higher-priority alias present: the first listed wins.
	res := Resolve([]string{"ad_spend", "spend"}, aliases)
	require.Contains(t, res, "spend_usd")
	assert.Equal(t, 1, res["spend_usd"])
}

func TestResolveCaseInsensitiveAndTrimmed(t *testing.T) {
	aliases := AliasTable{
		"revenue_usd":  {"revenue_usd", "revenue"},
		"seo_category": {"seo_category", "category"},
	}

	res := Resolve([]string{" Revenue ", "CATEGORY"}, aliases)
	assert.Equal(t, 0, res["revenue_usd"])
	assert.Equal(t, 1, res["seo_category"])
}

func TestResolveAbsentFieldStaysUnresolved(t *testing.T) {
	aliases := AliasTable{
		"clicks":      {"clicks"},
		"impressions": {"impressions", "imps"},
	}

	res := Resolve([]string{"clicks"}, aliases)
	assert.Contains(t, res, "clicks")
	assert.NotContains(t, res, "impressions")
}

func TestMissingRequired(t *testing.T) {
	aliases, err := DefaultAliases()
	require.NoError(t, err)

	res := Resolve([]string{"spend_usd", "clicks", "impressions", "revenue_usd", "seo_category"}, aliases)
	missing := res.MissingRequired()

	assert.ElementsMatch(t, []string{
		FieldFirstPurchase, FieldRepeatPurchase, FieldMonthlySearchVolume,
		FieldAvgPosition, FieldConversionRate,
	}, missing)
}
