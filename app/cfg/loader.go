package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// One-shot digest generation
	EventPath         string `long:"event-path" env:"EVENT_PATH" description:"Path to the event payload JSON file"`
	PayloadJSON       string `long:"payload-json" env:"PAYLOAD_JSON" description:"Inline JSON payload overriding the event file"`
	OutputDir         string `long:"output-dir" env:"OUTPUT_DIR" default:"reports" description:"Output directory for generated reports"`
	SavePayloadPath   string `long:"save-payload-path" env:"SAVE_PAYLOAD_PATH" description:"Optional path for saving the normalized payload JSON"`
	IndexPath         string `long:"index-path" env:"INDEX_PATH" default:"index.html" description:"Path updated with the latest report"`
	MarkdownPath      string `long:"markdown-path" env:"MARKDOWN_PATH" description:"Optional path for the markdown digest"`
	ReportConfigPath  string `long:"report-config" env:"REPORT_CONFIG" description:"Optional YAML report configuration file"`
	DBPath            string `long:"db-path" env:"DB_PATH" description:"SQLite database path (one-shot runs persist only when set)"`
	CheckLinks        bool   `long:"check-links" env:"CHECK_LINKS" description:"Validate outbound links after ranking"`
	FailOnBrokenLinks bool   `long:"fail-on-broken-links" env:"FAIL_ON_BROKEN_LINKS" description:"Exit with code 1 when broken links are found"`
	LinkTimeout       int    `long:"link-timeout" env:"LINK_TIMEOUT" default:"10" description:"Per-request link check timeout in seconds"`
	LinkReportPath    string `long:"link-report-path" env:"LINK_REPORT_PATH" description:"Optional path for the plain-text link report"`

	// Server mode
	Serve           bool   `long:"serve" env:"SERVE" description:"Run the HTTP server with background digest refresh"`
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SourcesDir      string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing feed source configuration files"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"900" description:"Digest refresh interval in seconds"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`
	APIAccessKey    string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Intel Digest/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		EventPath:         raw.EventPath,
		PayloadJSON:       raw.PayloadJSON,
		OutputDir:         raw.OutputDir,
		SavePayloadPath:   raw.SavePayloadPath,
		IndexPath:         raw.IndexPath,
		MarkdownPath:      raw.MarkdownPath,
		ReportConfigPath:  raw.ReportConfigPath,
		DBPath:            raw.DBPath,
		CheckLinks:        raw.CheckLinks,
		FailOnBrokenLinks: raw.FailOnBrokenLinks,
		LinkTimeout:       raw.LinkTimeout,
		LinkReportPath:    raw.LinkReportPath,
		Serve:             raw.Serve,
		Port:              raw.Port,
		SourcesDir:        raw.SourcesDir,
		RefreshInterval:   raw.RefreshInterval,
		WorkerCount:       raw.WorkerCount,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if !cfg.Serve && cfg.EventPath == "" && cfg.PayloadJSON == "" {
		return nil, fmt.Errorf("either --event-path, --payload-json, or --serve is required")
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
