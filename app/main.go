package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/partnerai/intel-digest/app/api"
	"github.com/partnerai/intel-digest/app/cfg"
	"github.com/partnerai/intel-digest/app/database"
	"github.com/partnerai/intel-digest/app/feed"
	"github.com/partnerai/intel-digest/app/intel"
	"github.com/partnerai/intel-digest/app/report"
	"github.com/partnerai/intel-digest/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("Starting Intel Digest", "version", appCfg.Version)

	if appCfg.Serve {
		runServer(appCfg)
		return
	}

	os.Exit(runOneShot(appCfg))
}

// runOneShot generates a single digest from an event payload and writes
// the report files to disk.
func runOneShot(appCfg *cfg.Cfg) int {
	payload, err := loadPayload(appCfg)
	if err != nil {
		slog.Error("Failed to load payload", "error", err)
		return 1
	}

	if appCfg.SavePayloadPath != "" {
		if err := savePayload(appCfg.SavePayloadPath, payload); err != nil {
			slog.Warn("Failed to save payload copy", "path", appCfg.SavePayloadPath, "error", err)
		}
	}

	reportCfg := report.DefaultConfig()
	if appCfg.ReportConfigPath != "" {
		reportCfg, err = report.LoadConfig(appCfg.ReportConfigPath)
		if err != nil {
			slog.Error("Failed to load report configuration", "path", appCfg.ReportConfigPath, "error", err)
			return 1
		}
	}

	now := time.Now().UTC()
	reportDate := now.Format("2006-01-02")

	records := intel.ExtractRecords(payload)
	slog.Info("Extracted records", "count", len(records))

	pipeline := intel.NewPipeline()
	result := pipeline.Run(records, now)
	slog.Info("Pipeline completed",
		"raw", result.RawCount,
		"published", len(result.Items),
		"sources", len(result.Coverage))

	generator := report.NewHTMLGenerator(reportCfg)
	html := generator.Run(reportDate, result.Items)

	reportPath, err := writeReport(appCfg, reportDate, html)
	if err != nil {
		slog.Error("Failed to write report", "error", err)
		return 1
	}
	slog.Info("Report written", "path", reportPath)

	if appCfg.MarkdownPath != "" {
		markdown := report.NewMarkdownGenerator(reportCfg).Run(reportDate, result.Items, result.Coverage)
		if err := os.WriteFile(appCfg.MarkdownPath, []byte(markdown), 0644); err != nil {
			slog.Error("Failed to write markdown digest", "path", appCfg.MarkdownPath, "error", err)
			return 1
		}
		slog.Info("Markdown digest written", "path", appCfg.MarkdownPath)
	}

	if appCfg.DBPath != "" {
		if err := persistReport(appCfg.DBPath, now, result, html); err != nil {
			slog.Error("Failed to persist report", "error", err)
			return 1
		}
	}

	if appCfg.CheckLinks {
		broken := checkLinks(appCfg, reportDate, result.Items)
		if appCfg.FailOnBrokenLinks && broken > 0 {
			slog.Error("Broken links found", "count", broken)
			return 1
		}
	}

	return 0
}

// loadPayload reads the event payload from the inline JSON flag or the
// event file. A client_payload wrapper is unwrapped here so the saved
// payload mirror matches what the pipeline consumes.
func loadPayload(appCfg *cfg.Cfg) (any, error) {
	var data []byte
	if appCfg.PayloadJSON != "" {
		data = []byte(appCfg.PayloadJSON)
	} else {
		raw, err := os.ReadFile(appCfg.EventPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read event file: %w", err)
		}
		data = raw
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse payload JSON: %w", err)
	}

	if envelope, ok := payload.(map[string]any); ok {
		if inner, ok := envelope["client_payload"]; ok {
			payload = inner
		}
	}

	return payload, nil
}

func savePayload(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// writeReport writes the dated HTML report, a latest-report marker, and
// a copy at the index path.
func writeReport(appCfg *cfg.Cfg, reportDate, html string) (string, error) {
	if err := os.MkdirAll(appCfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	fileName := fmt.Sprintf("partnerai-intel-report-%s.html", reportDate)
	reportPath := filepath.Join(appCfg.OutputDir, fileName)
	if err := os.WriteFile(reportPath, []byte(html), 0644); err != nil {
		return "", err
	}

	markerPath := filepath.Join(appCfg.OutputDir, "latest-report.txt")
	if err := os.WriteFile(markerPath, []byte(fileName+"\n"), 0644); err != nil {
		slog.Warn("Failed to write latest-report marker", "path", markerPath, "error", err)
	}

	if appCfg.IndexPath != "" {
		if err := os.WriteFile(appCfg.IndexPath, []byte(html), 0644); err != nil {
			slog.Warn("Failed to update index", "path", appCfg.IndexPath, "error", err)
		}
	}

	return reportPath, nil
}

func persistReport(dbPath string, now time.Time, result intel.Result, html string) error {
	db, err := database.NewConnection(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Migrations applied", "version", version, "dirty", dirty)

	reportRepo := database.NewReportRepository(db)
	reportID, err := reportRepo.SaveReport(now, result.RawCount, html, result.Items)
	if err != nil {
		return err
	}

	slog.Info("Report persisted", "report_id", reportID)
	return nil
}

// checkLinks validates every distinct item URL and returns the number of
// broken links.
func checkLinks(appCfg *cfg.Cfg, reportDate string, items []intel.ScoredItem) int {
	client := &http.Client{Timeout: time.Duration(appCfg.LinkTimeout) * time.Second}
	checker := intel.NewLinkChecker(client)

	results := checker.Run(items)
	broken := intel.Broken(results)
	slog.Info("Link check completed", "checked", len(results), "broken", len(broken))

	for _, entry := range broken {
		slog.Warn("Broken link", "url", entry.URL, "status", entry.StatusCode, "detail", entry.Detail)
	}

	if appCfg.LinkReportPath != "" {
		text := report.RenderLinkReport(reportDate, len(results), broken)
		if err := os.WriteFile(appCfg.LinkReportPath, []byte(text), 0644); err != nil {
			slog.Warn("Failed to write link report", "path", appCfg.LinkReportPath, "error", err)
		}
	}

	return len(broken)
}

// runServer starts the HTTP server with a background scheduler that
// refreshes the digest from the configured feed sources.
func runServer(appCfg *cfg.Cfg) {
	dbPath := appCfg.DBPath
	if dbPath == "" {
		dbPath = "intel-digest.db"
	}
	slog.Info("Connecting to database", "path", dbPath)
	db, err := database.NewConnection(dbPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	loader := feed.NewLoader(appCfg.SourcesDir)
	sources, err := loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded source configurations", "count", len(sources))

	reportCfg := report.DefaultConfig()
	if appCfg.ReportConfigPath != "" {
		reportCfg, err = report.LoadConfig(appCfg.ReportConfigPath)
		if err != nil {
			slog.Error("Failed to load report configuration", "path", appCfg.ReportConfigPath, "error", err)
			os.Exit(1)
		}
	}

	reportRepo := database.NewReportRepository(db)
	generator := report.NewHTMLGenerator(reportCfg)
	fetcher := feed.NewFetcher(&http.Client{}, appCfg.UserAgent)

	slog.Info("Starting background scheduler",
		"workers", appCfg.WorkerCount,
		"interval", appCfg.RefreshInterval)
	scheduler := tasks.NewScheduler(sources, fetcher, generator, reportRepo,
		time.Duration(appCfg.RefreshInterval)*time.Second, appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(reportRepo, generator)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Intel Digest server started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
