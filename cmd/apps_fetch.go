package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/market-intel/internal/appmarket"
	"github.com/sells-group/market-intel/pkg/appstore"
)

// fetchWorkers bounds concurrent App Store requests; the client's rate
// limiter governs the actual request rate.
const fetchWorkers = 4

var appsFetchIDs string

var appsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch App Store metadata via the RapidAPI scraper",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		start := time.Now()
		if cfg.AppStore.Key == "" {
			return eris.New("apps: appstore.key is not configured")
		}

		ids := splitIDs(appsFetchIDs)
		if len(ids) == 0 {
			return eris.New("apps: --ids requires at least one app ID")
		}

		client := appstore.NewClient(cfg.AppStore.Key,
			appstore.WithBaseURL(cfg.AppStore.BaseURL),
			appstore.WithHost(cfg.AppStore.Host),
			appstore.WithLimiter(rate.NewLimiter(rate.Limit(cfg.AppStore.RatePerSec), 2)),
		)

		// Fetch concurrently but keep results in request order.
		details := make([]*appstore.AppDetail, len(ids))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(fetchWorkers)
		for i, id := range ids {
			g.Go(func() error {
				d, err := client.AppDetail(gctx, id)
				if err != nil {
					return err
				}
				details[i] = d
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "apps: fetch app details")
		}

		fetched := make([]appstore.AppDetail, 0, len(details))
		for _, d := range details {
			fetched = append(fetched, *d)
		}

		rawPath := filepath.Join(cfg.Apps.DataDir, "appstore_raw.json")
		if err := writeArtifact(rawPath, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(fetched)
		}); err != nil {
			return err
		}

		apps := appmarket.FromAppStore(fetched)
		cleanPath := filepath.Join(cfg.Apps.DataDir, "appstore_clean.csv")
		if err := writeArtifact(cleanPath, func(w io.Writer) error {
			return appmarket.WriteCSV(w, apps)
		}); err != nil {
			return err
		}

		zap.L().Info("apps: app store fetch complete",
			zap.Int("requested", len(ids)),
			zap.Int("cleaned", len(apps)),
			zap.Duration("elapsed", time.Since(start)),
		)
		fmt.Printf("Raw App Store JSON saved at %s\n", rawPath)
		fmt.Printf("Clean App Store CSV saved at %s (%d apps)\n", cleanPath, len(apps))
		return nil
	},
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func init() {
	appsFetchCmd.Flags().StringVar(&appsFetchIDs, "ids", "", "comma-separated App Store app IDs (required)")
	_ = appsFetchCmd.MarkFlagRequired("ids")
	appsCmd.AddCommand(appsFetchCmd)
}
