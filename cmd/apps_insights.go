package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/appmarket"
	"github.com/sells-group/market-intel/internal/fetcher"
	"github.com/sells-group/market-intel/internal/report"
	"github.com/sells-group/market-intel/pkg/anthropic"
	"github.com/sells-group/market-intel/pkg/appstore"
)

var appsInsightsTop int

var appsInsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Combine cleaned app tables and generate per-app market insights",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Anthropic.Key == "" {
			return eris.New("apps: anthropic.key is required for insight generation")
		}

		top := appsInsightsTop
		if top <= 0 {
			top = cfg.Apps.TopApps
		}

		runID := uuid.NewString()
		log := zap.L().With(zap.String("command", "apps insights"), zap.String("run_id", runID))

		google := readAppTable(filepath.Join(cfg.Apps.DataDir, "googleplaystore_clean.csv"))
		ios := readAppTable(filepath.Join(cfg.Apps.DataDir, "appstore_clean.csv"))
		if ios == nil {
			ios = readRawAppStore(filepath.Join(cfg.Apps.DataDir, "appstore_raw.json"))
		}
		combined := appmarket.Combine(google, ios)
		if len(combined) == 0 {
			return eris.New("apps: no cleaned app tables found, run clean-kaggle or fetch first")
		}
		log.Info("apps: tables combined",
			zap.Int("google_play", len(google)),
			zap.Int("app_store", len(ios)),
			zap.Int("combined", len(combined)),
		)

		ranked := appmarket.TopByRating(combined, top)

		gen := anthropic.NewClient(cfg.Anthropic.Key,
			anthropic.WithModel(cfg.Anthropic.Model),
			anthropic.WithMaxTokens(cfg.Anthropic.MaxTokens),
			anthropic.WithTimeout(time.Duration(cfg.Anthropic.TimeoutSecs)*time.Second),
		)
		insights, err := appmarket.GenerateInsights(ctx, gen, ranked)
		if err != nil {
			return err
		}

		jsonPath := filepath.Join(cfg.Analyze.OutputDir, "app_insights.json")
		if err := writeArtifact(jsonPath, func(w io.Writer) error {
			return appmarket.WriteInsightsJSON(w, insights)
		}); err != nil {
			return err
		}

		mdPath := filepath.Join(cfg.Analyze.OutputDir, "app_report.md")
		if err := writeArtifactString(mdPath, report.BuildAppsReport(insights, runID)); err != nil {
			return err
		}

		fmt.Printf("App insights JSON saved at %s (%d apps)\n", jsonPath, len(insights))
		fmt.Printf("App report saved at %s\n", mdPath)
		return nil
	},
}

// readAppTable loads a cleaned app CSV if present. A missing table is a
// soft condition: the other marketplace may still have data.
func readAppTable(path string) []appmarket.App {
	f, err := os.Open(path)
	if err != nil {
		zap.L().Warn("apps: cleaned table missing, skipping", zap.String("path", path))
		return nil
	}
	defer f.Close()

	apps, err := appmarket.ReadCSV(f)
	if err != nil {
		zap.L().Warn("apps: cleaned table unreadable, skipping",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil
	}
	return apps
}

// readRawAppStore falls back to the raw fetch artifact when the cleaned
// App Store CSV does not exist.
func readRawAppStore(path string) []appmarket.App {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	details, err := fetcher.DecodeJSONArray[appstore.AppDetail](f)
	if err != nil {
		zap.L().Warn("apps: raw app store artifact unreadable, skipping",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil
	}
	return appmarket.FromAppStore(details)
}

func init() {
	appsInsightsCmd.Flags().IntVar(&appsInsightsTop, "top", 0, "number of top apps (default from config)")
	appsCmd.AddCommand(appsInsightsCmd)
}
