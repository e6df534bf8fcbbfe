package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/market-intel/internal/funnel"
	"github.com/sells-group/market-intel/internal/report"
	"github.com/sells-group/market-intel/internal/table"
)

func serveFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	records := []table.Record{
		{
			Category:            "Fitness",
			SpendUSD:            table.Value(100),
			RevenueUSD:          table.Value(300),
			Installs:            table.Value(40),
			MonthlySearchVolume: table.Value(1000),
			ConversionRate:      table.Value(0.05),
		},
		{
			Category:            "Beauty",
			SpendUSD:            table.Value(50),
			RevenueUSD:          table.Value(60),
			Installs:            table.Value(10),
			MonthlySearchVolume: table.Value(400),
			ConversionRate:      table.Value(0.02),
		},
	}
	result, err := funnel.Analyze(context.Background(), records, funnel.Options{})
	require.NoError(t, err)

	insightsPath := filepath.Join(dir, "d2c_insights.json")
	require.NoError(t, writeArtifact(insightsPath, func(w io.Writer) error {
		return funnel.WriteInsightsJSON(w, result.Insights)
	}))

	creatives := report.FormatCreatives([]report.Creative{
		{Category: "Fitness", RawOutput: `{"headlines":["Go"]}`},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d2c_creatives.txt"), []byte(creatives), 0o644))

	return dir
}

func TestServeMuxHealth(t *testing.T) {
	srv := httptest.NewServer(newServeMux(t.TempDir()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServeMuxInsights(t *testing.T) {
	srv := httptest.NewServer(newServeMux(serveFixtureDir(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/insights")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ins funnel.Insights
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ins))
	require.Len(t, ins.Categories, 2)
	assert.Equal(t, "Fitness", ins.Categories[0].Category)
}

func TestServeMuxInsightsMissing(t *testing.T) {
	srv := httptest.NewServer(newServeMux(t.TempDir()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/insights")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeMuxCreatives(t *testing.T) {
	srv := httptest.NewServer(newServeMux(serveFixtureDir(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/creatives")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var creatives []report.Creative
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&creatives))
	require.Len(t, creatives, 1)
	assert.Equal(t, "Fitness", creatives[0].Category)
}

func TestServeMuxStaticFiles(t *testing.T) {
	dir := serveFixtureDir(t)
	srv := httptest.NewServer(newServeMux(dir))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/files/d2c_creatives.txt")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
