package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/appmarket"
	"github.com/sells-group/market-intel/internal/fetcher"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "App-market ingestion and insight pipeline",
}

var appsCleanInput string

var appsCleanCmd = &cobra.Command{
	Use:   "clean-kaggle",
	Short: "Clean the Kaggle Google Play export into the canonical app table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := appsCleanInput
		if input == "" {
			input = cfg.Apps.KaggleCSV
		}

		f, err := os.Open(input)
		if err != nil {
			return eris.Wrapf(err, "apps: kaggle export not found: %s", input)
		}
		defer f.Close()

		header, rows, err := fetcher.ReadCSV(f, fetcher.CSVOptions{LazyQuotes: true})
		if err != nil {
			return err
		}

		apps := appmarket.CleanKaggle(header, rows)

		out := filepath.Join(cfg.Apps.DataDir, "googleplaystore_clean.csv")
		if err := writeArtifact(out, func(w io.Writer) error {
			return appmarket.WriteCSV(w, apps)
		}); err != nil {
			return err
		}

		zap.L().Info("apps: kaggle table written",
			zap.String("path", out),
			zap.Int("apps", len(apps)),
		)
		fmt.Printf("Cleaned Google Play CSV saved at %s (%d apps)\n", out, len(apps))
		return nil
	},
}

func init() {
	appsCleanCmd.Flags().StringVar(&appsCleanInput, "input", "", "Kaggle CSV path (default from config)")
	appsCmd.AddCommand(appsCleanCmd)
	rootCmd.AddCommand(appsCmd)
}
