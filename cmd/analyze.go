package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/fetcher"
	"github.com/sells-group/market-intel/internal/funnel"
	"github.com/sells-group/market-intel/internal/report"
	"github.com/sells-group/market-intel/internal/table"
	"github.com/sells-group/market-intel/pkg/anthropic"
)

var (
	analyzeInput       string
	analyzeSheet       string
	analyzeTop         int
	analyzeOut         string
	analyzeNoCreatives bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the D2C funnel and SEO opportunity analysis",
	Long: `Loads the D2C funnel dataset (XLSX or CSV), resolves and normalizes its
columns, derives funnel and SEO opportunity metrics with per-category
confidence scores, and writes the cleaned table, insight JSON, generated
creatives, and an executive Markdown report.`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeInput, "input", "", "dataset path (default from config)")
	f.StringVar(&analyzeSheet, "sheet", "", "XLSX sheet name (default from config)")
	f.IntVar(&analyzeTop, "top", 0, "top categories for creatives (default from config)")
	f.StringVar(&analyzeOut, "out", "", "output directory (default from config)")
	f.BoolVar(&analyzeNoCreatives, "no-creatives", false, "skip creative generation")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	input := analyzeInput
	if input == "" {
		input = cfg.Analyze.Input
	}
	sheet := analyzeSheet
	if sheet == "" {
		sheet = cfg.Analyze.Sheet
	}
	top := analyzeTop
	if top <= 0 {
		top = cfg.Analyze.TopCategories
	}
	outDir := analyzeOut
	if outDir == "" {
		outDir = cfg.Analyze.OutputDir
	}

	runID := uuid.NewString()
	log := zap.L().With(zap.String("command", "analyze"), zap.String("run_id", runID))
	start := time.Now()

	records, err := loadFunnelTable(input, sheet)
	if err != nil {
		return err
	}
	log.Info("analyze: dataset loaded",
		zap.String("input", input),
		zap.Int("rows", len(records)),
	)

	result, err := funnel.Analyze(ctx, records, funnel.Options{Concurrency: cfg.Analyze.Concurrency})
	if err != nil {
		return eris.Wrap(err, "analyze: derive metrics")
	}

	topCats := funnel.TopCategories(result.Aggregates, top)

	var creatives []report.Creative
	switch {
	case analyzeNoCreatives:
		log.Info("analyze: creative generation disabled by flag")
	case cfg.Anthropic.Key == "":
		log.Warn("analyze: no anthropic key configured, skipping creatives")
	default:
		gen := anthropic.NewClient(cfg.Anthropic.Key,
			anthropic.WithModel(cfg.Anthropic.Model),
			anthropic.WithMaxTokens(cfg.Anthropic.MaxTokens),
			anthropic.WithTimeout(time.Duration(cfg.Anthropic.TimeoutSecs)*time.Second),
		)
		creatives, err = report.GenerateCreatives(ctx, gen, topCats)
		if err != nil {
			return err
		}
	}

	files := report.Artifacts{
		CleanedCSV:   filepath.Join(outDir, "d2c_cleaned.csv"),
		InsightsJSON: filepath.Join(outDir, "d2c_insights.json"),
	}
	if len(creatives) > 0 {
		files.CreativesTXT = filepath.Join(outDir, "d2c_creatives.txt")
	}

	if err := writeArtifact(files.CleanedCSV, func(w io.Writer) error {
		return table.WriteCleanedCSV(w, result.Records)
	}); err != nil {
		return err
	}
	if err := writeArtifact(files.InsightsJSON, func(w io.Writer) error {
		return funnel.WriteInsightsJSON(w, result.Insights)
	}); err != nil {
		return err
	}
	if files.CreativesTXT != "" {
		if err := writeArtifactString(files.CreativesTXT, report.FormatCreatives(creatives)); err != nil {
			return err
		}
	}

	md := report.BuildExecutiveReport(result, topCats, creatives, runID, files)
	reportPath := filepath.Join(outDir, "executive_report.md")
	if err := writeArtifactString(reportPath, md); err != nil {
		return err
	}

	log.Info("analyze: run complete",
		zap.Int("categories", len(result.Aggregates)),
		zap.Strings("top_categories", topCats),
		zap.Duration("elapsed", time.Since(start)),
	)

	fmt.Printf("Cleaned data saved:  %s\n", files.CleanedCSV)
	fmt.Printf("Insights JSON saved: %s\n", files.InsightsJSON)
	if files.CreativesTXT != "" {
		fmt.Printf("Creatives saved:     %s\n", files.CreativesTXT)
	}
	fmt.Printf("Executive report:    %s\n\n", reportPath)

	printTopOpportunities(result.Aggregates)
	return nil
}

// loadFunnelTable reads the D2C dataset, resolves its columns against the
// alias table, and normalizes it into records. An absent file is fatal;
// absent columns are soft warnings.
func loadFunnelTable(input, sheet string) ([]table.Record, error) {
	if _, err := os.Stat(input); err != nil {
		return nil, eris.Wrapf(err, "analyze: dataset not found: %s", input)
	}

	var header []string
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(input)) {
	case ".xlsx":
		header, rows, err = fetcher.ReadXLSX(input, fetcher.XLSXOptions{SheetName: sheet})
	case ".csv":
		var f *os.File
		f, err = os.Open(input)
		if err != nil {
			return nil, eris.Wrapf(err, "analyze: open %s", input)
		}
		defer f.Close()
		header, rows, err = fetcher.ReadCSV(f, fetcher.CSVOptions{TrimSpace: true})
	default:
		return nil, eris.Errorf("analyze: unsupported dataset format %q", filepath.Ext(input))
	}
	if err != nil {
		return nil, err
	}

	aliases, err := table.DefaultAliases()
	if err != nil {
		return nil, err
	}
	res := table.Resolve(header, aliases)
	if missing := res.MissingRequired(); len(missing) > 0 {
		zap.L().Warn("analyze: expected columns not found, values treated as missing",
			zap.Strings("fields", missing),
		)
	}

	return table.Normalize(rows, res), nil
}

func printTopOpportunities(aggs []funnel.CategoryAggregate) {
	fmt.Println("Top 5 SEO opportunities:")
	fmt.Printf("%-24s %14s %12s %12s\n", "category", "search_volume", "avg_pos", "opp_score")
	for i, a := range aggs {
		if i == 5 {
			break
		}
		pos := "n/a"
		if v, ok := a.AvgPosition.Float(); ok {
			pos = fmt.Sprintf("%.2f", v)
		}
		fmt.Printf("%-24s %14.0f %12s %12.1f\n", a.Category, a.MonthlySearchVolume, pos, a.OpportunityScore)
	}
}
