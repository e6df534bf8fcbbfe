package appmarket

import (
	"strings"

	"github.com/sells-group/market-intel/pkg/appstore"
)

// FromAppStore maps scraped App Store details onto the shared app schema.
// Entries without a name are dropped; numeric fields already arrive typed.
func FromAppStore(details []appstore.AppDetail) []App {
	var apps []App
	for _, d := range details {
		name := strings.TrimSpace(d.DisplayName())
		if name == "" {
			continue
		}
		category := strings.TrimSpace(d.DisplayCategory())
		if category == "" {
			category = "Unknown"
		}

		apps = append(apps, App{
			Name:        name,
			Category:    category,
			Rating:      d.DisplayRating(),
			Reviews:     d.Reviews,
			Price:       d.Price,
			Type:        priceType(d.Price),
			Platform:    PlatformAppStore,
			Description: d.Description,
		})
	}
	return apps
}
