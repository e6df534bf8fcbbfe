package appmarket

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/table"
)

// CleanKaggle normalizes the Kaggle Google Play export: drops rows without
// an app name or category, dedupes by app name, extracts digits from install
// strings like "1,000,000+", strips currency from prices, converts sizes to
// MB, and fills unparsable ratings and reviews with zero.
func CleanKaggle(header []string, rows [][]string) []App {
	col := kaggleColumns(header)

	var apps []App
	seen := make(map[string]bool)
	dropped := 0

	for _, row := range rows {
		name := strings.TrimSpace(cell(row, col["app"]))
		category := strings.TrimSpace(cell(row, col["category"]))
		if name == "" || category == "" || seen[name] {
			dropped++
			continue
		}
		seen[name] = true

		apps = append(apps, App{
			Name:     name,
			Category: category,
			Rating:   table.ParseNumeric(cell(row, col["rating"])).Or(0),
			Reviews:  int64(table.ParseNumeric(cell(row, col["reviews"])).Or(0)),
			Installs: int64(table.ParseNumeric(cell(row, col["installs"])).Or(0)),
			SizeMB:   sizeToMB(cell(row, col["size"])),
			Price:    table.ParseNumeric(cell(row, col["price"])).Or(0),
			Type:     priceType(table.ParseNumeric(cell(row, col["price"])).Or(0)),
			Platform: PlatformGooglePlay,
		})
	}

	zap.L().Info("appmarket: kaggle data cleaned",
		zap.Int("apps", len(apps)),
		zap.Int("dropped", dropped),
	)
	return apps
}

// kaggleColumns indexes the export's headers by lowercase name. Missing
// columns map to -1 and read as empty cells.
func kaggleColumns(header []string) map[string]int {
	col := map[string]int{
		"app": -1, "category": -1, "rating": -1, "reviews": -1,
		"size": -1, "installs": -1, "price": -1,
	}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, want := col[name]; want {
			col[name] = i
		}
	}
	return col
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// sizeToMB converts sizes like "19M" or "201k" to megabytes. Anything else
// ("Varies with device") is missing.
func sizeToMB(raw string) table.Numeric {
	s := strings.TrimSpace(raw)
	if s == "" {
		return table.Missing()
	}
	switch {
	case strings.HasSuffix(s, "M"):
		return table.ParseNumeric(strings.TrimSuffix(s, "M"))
	case strings.HasSuffix(s, "k"), strings.HasSuffix(s, "K"):
		n := table.ParseNumeric(strings.TrimRight(s, "kK"))
		if v, ok := n.Float(); ok {
			return table.Value(v / 1024)
		}
		return table.Missing()
	default:
		return table.Missing()
	}
}
