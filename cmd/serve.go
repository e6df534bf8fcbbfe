package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/appmarket"
	"github.com/sells-group/market-intel/internal/funnel"
	"github.com/sells-group/market-intel/internal/report"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generated analysis artifacts over HTTP",
	Long: `Exposes the output of previous analyze and apps runs as a small
read-only JSON API for dashboards. Nothing is recomputed; the server only
reads the artifact files on each request.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		outDir := cfg.Analyze.OutputDir
		r := newServeMux(outDir)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting artifact server",
			zap.Int("port", port),
			zap.String("output_dir", outDir),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newServeMux builds the read-only artifact API over a run's output
// directory.
func newServeMux(outDir string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Get("/api/insights", func(w http.ResponseWriter, _ *http.Request) {
		data, err := os.ReadFile(filepath.Join(outDir, "d2c_insights.json"))
		if err != nil {
			httpNotFound(w, "insights not generated yet")
			return
		}
		var ins funnel.Insights
		if err := json.Unmarshal(data, &ins); err != nil {
			httpServerError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	r.Get("/api/apps", func(w http.ResponseWriter, _ *http.Request) {
		f, err := os.Open(filepath.Join(outDir, "app_insights.json"))
		if err != nil {
			httpNotFound(w, "app insights not generated yet")
			return
		}
		defer f.Close()
		insights, err := appmarket.ReadInsightsJSON(f)
		if err != nil {
			httpServerError(w, err)
			return
		}
		writeJSON(w, insights)
	})

	r.Get("/api/creatives", func(w http.ResponseWriter, _ *http.Request) {
		data, err := os.ReadFile(filepath.Join(outDir, "d2c_creatives.txt"))
		if err != nil {
			httpNotFound(w, "creatives not generated yet")
			return
		}
		writeJSON(w, report.ParseCreatives(string(data)))
	})

	fileServer := http.StripPrefix("/files/", http.FileServer(http.Dir(outDir)))
	r.Get("/files/*", fileServer.ServeHTTP)

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("serve: encode response", zap.Error(err))
	}
}

func httpNotFound(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func httpServerError(w http.ResponseWriter, err error) {
	zap.L().Error("serve: request failed", zap.Error(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
