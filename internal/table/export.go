package table

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// MarshalCSV renders a Numeric for csvutil. Missing becomes an empty cell.
func (n Numeric) MarshalCSV() ([]byte, error) {
	return []byte(FormatNumeric(n)), nil
}

// UnmarshalCSV parses a cell back into a Numeric. Empty or unparsable cells
// are missing.
func (n *Numeric) UnmarshalCSV(data []byte) error {
	*n = ParseNumeric(string(data))
	return nil
}

// cleanedRow is the cleaned flat-table CSV schema: canonical input columns
// followed by every derived metric column.
type cleanedRow struct {
	CampaignID          string  `csv:"campaign_id"`
	Channel             string  `csv:"channel"`
	SEOCategory         string  `csv:"seo_category"`
	SpendUSD            Numeric `csv:"spend_usd"`
	Impressions         Numeric `csv:"impressions"`
	Clicks              Numeric `csv:"clicks"`
	Installs            Numeric `csv:"installs"`
	Signups             Numeric `csv:"signups"`
	FirstPurchase       Numeric `csv:"first_purchase"`
	RepeatPurchase      Numeric `csv:"repeat_purchase"`
	RevenueUSD          Numeric `csv:"revenue_usd"`
	AvgPosition         Numeric `csv:"avg_position"`
	MonthlySearchVolume Numeric `csv:"monthly_search_volume"`
	ConversionRate      Numeric `csv:"conversion_rate"`
	CTR                 Numeric `csv:"ctr"`
	CVRClickToInstall   Numeric `csv:"cvr_click_to_install"`
	ConversionsForCAC   Numeric `csv:"conversions_for_cac"`
	CACUSD              Numeric `csv:"cac_usd"`
	ROAS                Numeric `csv:"roas"`
	LTVPerInstall       Numeric `csv:"ltv_per_install"`
	RepeatRate          Numeric `csv:"repeat_rate"`
	OpportunityScore    Numeric `csv:"opportunity_score"`
}

// WriteCleanedCSV writes the cleaned flat table, one row per scored record.
func WriteCleanedCSV(w io.Writer, records []ScoredRecord) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	// The header goes out even for an empty table so readers still see the
	// schema.
	if err := enc.EncodeHeader(cleanedRow{}); err != nil {
		return eris.Wrap(err, "table: encode cleaned header")
	}

	for _, r := range records {
		row := cleanedRow{
			CampaignID:          r.CampaignID,
			Channel:             r.Channel,
			SEOCategory:         r.Category,
			SpendUSD:            r.SpendUSD,
			Impressions:         r.Impressions,
			Clicks:              r.Clicks,
			Installs:            r.Installs,
			Signups:             r.Signups,
			FirstPurchase:       r.FirstPurchase,
			RepeatPurchase:      r.RepeatPurchase,
			RevenueUSD:          r.RevenueUSD,
			AvgPosition:         r.AvgPosition,
			MonthlySearchVolume: r.MonthlySearchVolume,
			ConversionRate:      r.ConversionRate,
			CTR:                 r.CTR,
			CVRClickToInstall:   r.CVRClickToInstall,
			ConversionsForCAC:   r.ConversionsForCAC,
			CACUSD:              r.CACUSD,
			ROAS:                r.ROAS,
			LTVPerInstall:       r.LTVPerInstall,
			RepeatRate:          r.RepeatRate,
			OpportunityScore:    r.OpportunityScore,
		}
		if err := enc.Encode(row); err != nil {
			return eris.Wrap(err, "table: encode cleaned row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "table: flush cleaned csv")
	}
	return nil
}
