// Package appmarket cleans and combines mobile-app marketplace metadata
// (Kaggle Google Play export, scraped App Store JSON) and generates per-app
// market insights.
package appmarket

import (
	"sort"

	"github.com/sells-group/market-intel/internal/table"
)

// Platform labels for the combined app table.
const (
	PlatformGooglePlay = "google_play"
	PlatformAppStore   = "app_store"
)

// App is one row of the combined marketplace table.
type App struct {
	Name        string        `csv:"app" json:"app"`
	Category    string        `csv:"category" json:"category"`
	Rating      float64       `csv:"rating" json:"rating"`
	Reviews     int64         `csv:"reviews" json:"reviews"`
	Installs    int64         `csv:"installs" json:"installs"`
	SizeMB      table.Numeric `csv:"size_mb" json:"size_mb"`
	Price       float64       `csv:"price" json:"price"`
	Type        string        `csv:"type" json:"type"`
	Platform    string        `csv:"platform" json:"platform"`
	Description string        `csv:"description,omitempty" json:"description,omitempty"`
}

// priceType labels an app Free or Paid from its price.
func priceType(price float64) string {
	if price > 0 {
		return "Paid"
	}
	return "Free"
}

// Combine concatenates app tables, dropping later duplicates by app name.
func Combine(tables ...[]App) []App {
	var combined []App
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, a := range t {
			if a.Name == "" || seen[a.Name] {
				continue
			}
			seen[a.Name] = true
			combined = append(combined, a)
		}
	}
	return combined
}

// TopByRating returns the n best apps ranked by rating, ties broken by
// install count. The input is not reordered.
func TopByRating(apps []App, n int) []App {
	ranked := make([]App, len(apps))
	copy(ranked, apps)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].Installs > ranked[j].Installs
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
