package table

// Field keys for the canonical D2C funnel schema. These are the logical
// column names every input table is resolved to.
const (
	FieldSpendUSD            = "spend_usd"
	FieldImpressions         = "impressions"
	FieldClicks              = "clicks"
	FieldInstalls            = "installs"
	FieldSignups             = "signups"
	FieldFirstPurchase       = "first_purchase"
	FieldRepeatPurchase      = "repeat_purchase"
	FieldRevenueUSD          = "revenue_usd"
	FieldSEOCategory         = "seo_category"
	FieldAvgPosition         = "avg_position"
	FieldMonthlySearchVolume = "monthly_search_volume"
	FieldConversionRate      = "conversion_rate"
	FieldCampaignID          = "campaign_id"
	FieldChannel             = "channel"
)

// NumericFields lists every numeric logical field in canonical column order.
var NumericFields = []string{
	FieldSpendUSD,
	FieldImpressions,
	FieldClicks,
	FieldInstalls,
	FieldSignups,
	FieldFirstPurchase,
	FieldRepeatPurchase,
	FieldRevenueUSD,
	FieldAvgPosition,
	FieldMonthlySearchVolume,
	FieldConversionRate,
}

// CountFields are the funnel counts whose missing values fill to zero after
// coercion. Everything else stays missing so "no data" is distinguishable
// from zero.
var CountFields = []string{
	FieldImpressions,
	FieldClicks,
	FieldInstalls,
	FieldFirstPurchase,
	FieldRepeatPurchase,
}

// RequiredFields is the minimal logical set the analysis expects. Absence
// is a soft warning, not a fatal error.
var RequiredFields = []string{
	FieldSpendUSD,
	FieldClicks,
	FieldImpressions,
	FieldRevenueUSD,
	FieldFirstPurchase,
	FieldRepeatPurchase,
	FieldMonthlySearchVolume,
	FieldAvgPosition,
	FieldConversionRate,
	FieldSEOCategory,
}

// UnknownCategory is assigned when the input carries no category column.
const UnknownCategory = "Unknown"

// Record is one normalized row of marketing funnel data.
type Record struct {
	CampaignID string
	Channel    string
	Category   string

	SpendUSD            Numeric
	Impressions         Numeric
	Clicks              Numeric
	Installs            Numeric
	Signups             Numeric
	FirstPurchase       Numeric
	RepeatPurchase      Numeric
	RevenueUSD          Numeric
	AvgPosition         Numeric
	MonthlySearchVolume Numeric
	ConversionRate      Numeric
}

// Metrics holds the derived per-record funnel and SEO metrics. Each value
// may be missing; a zero or missing denominator never produces a silent zero.
type Metrics struct {
	CTR               Numeric
	CVRClickToInstall Numeric
	ConversionsForCAC Numeric
	CACUSD            Numeric
	ROAS              Numeric
	LTVPerInstall     Numeric
	RepeatRate        Numeric
	OpportunityScore  Numeric
}

// ScoredRecord pairs a record with its derived metrics. Metrics are
// immutable once computed.
type ScoredRecord struct {
	Record
	Metrics
}

// Field returns the named numeric field of a record.
func (r Record) Field(name string) Numeric {
	switch name {
	case FieldSpendUSD:
		return r.SpendUSD
	case FieldImpressions:
		return r.Impressions
	case FieldClicks:
		return r.Clicks
	case FieldInstalls:
		return r.Installs
	case FieldSignups:
		return r.Signups
	case FieldFirstPurchase:
		return r.FirstPurchase
	case FieldRepeatPurchase:
		return r.RepeatPurchase
	case FieldRevenueUSD:
		return r.RevenueUSD
	case FieldAvgPosition:
		return r.AvgPosition
	case FieldMonthlySearchVolume:
		return r.MonthlySearchVolume
	case FieldConversionRate:
		return r.ConversionRate
	default:
		return Missing()
	}
}

// setField assigns the named numeric field on a record.
func (r *Record) setField(name string, v Numeric) {
	switch name {
	case FieldSpendUSD:
		r.SpendUSD = v
	case FieldImpressions:
		r.Impressions = v
	case FieldClicks:
		r.Clicks = v
	case FieldInstalls:
		r.Installs = v
	case FieldSignups:
		r.Signups = v
	case FieldFirstPurchase:
		r.FirstPurchase = v
	case FieldRepeatPurchase:
		r.RepeatPurchase = v
	case FieldRevenueUSD:
		r.RevenueUSD = v
	case FieldAvgPosition:
		r.AvgPosition = v
	case FieldMonthlySearchVolume:
		r.MonthlySearchVolume = v
	case FieldConversionRate:
		r.ConversionRate = v
	}
}
