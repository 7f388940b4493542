// # cmd/driftwatch/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"driftwatch/internal/config"
	"driftwatch/internal/drift"
	"driftwatch/internal/observability"
	"driftwatch/internal/report"
)

type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

var (
	configPath    = flag.String("config", "./driftwatch.toml", "Path to config file")
	format        = flag.String("format", "", "Report format: markdown, json, github, pr")
	output        = flag.String("o", "", "Write report to file instead of stdout")
	minSeverity   = flag.String("min-severity", "", "Minimum severity to report: info, warning, critical")
	failOn        = flag.String("fail-on", "", "Exit non-zero when issues at or above this severity exist")
	noSuggestions = flag.Bool("no-suggestions", false, "Omit fix suggestions from the report")
	noDocstrings  = flag.Bool("no-docstrings", false, "Do not flag functions without docstrings")
	once          = flag.Bool("once", false, "Run single scan and exit")
	watch         = flag.Bool("watch", false, "Rescan on file changes")
	ui            = flag.Bool("ui", false, "Enable terminal UI mode")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	version       = flag.Bool("version", false, "Print version and exit")

	excludes stringList
)

const VERSION = "1.0.0"

func main() {
	flag.Var(&excludes, "exclude", "Path pattern to exclude (repeatable)")
	flag.Parse()

	if *version {
		fmt.Printf("driftwatch v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	logOutput := os.Stderr
	if *ui {
		// In UI mode, avoid terminal logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err == nil {
			if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
				logOutput = f
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	failSeverity, failSet := drift.Severity(0), false
	if *failOn != "" {
		sev, ok := drift.ParseSeverity(*failOn)
		if !ok {
			fmt.Fprintf(os.Stderr, "invalid -fail-on severity %q: must be info, warning or critical\n", *failOn)
			os.Exit(1)
		}
		failSeverity, failSet = sev, true
	}

	reportOpts := reportOptions(cfg)

	ctx := context.Background()

	if cfg.Observability.OTLPEndpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, VERSION)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(shutdownCtx)
			}()
		}
	}

	var metricsServer *observability.Server
	if cfg.Observability.MetricsAddr != "" {
		metricsServer = observability.NewServer(cfg.Observability.MetricsAddr)
		metricsServer.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Stop(stopCtx)
		}()
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	start := time.Now()
	result, err := app.Scan(ctx)
	if err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(1)
	}

	// In UI mode stdout belongs to the TUI, so only file output runs.
	if !*ui || cfg.Report.Output != "" {
		if err := app.Report(result, reportOpts); err != nil {
			slog.Error("failed to generate report", "error", err)
			os.Exit(1)
		}
	}

	if !*ui && cfg.Report.Output != "" {
		app.PrintSummary(result, time.Since(start))
	}

	if *once || (!*watch && !*ui) {
		os.Exit(exitCode(result, failSeverity, failSet))
	}

	if err := app.StartWatcher(func(r *drift.ComparisonResult) {
		if !*ui || cfg.Report.Output != "" {
			if err := app.Report(r, reportOpts); err != nil {
				slog.Error("failed to generate report", "error", err)
			}
		}
		app.NotifyUI(r)
	}); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := app.RunUI(); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		select {}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./driftwatch.toml" {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// applyFlags overlays command line flags on the loaded config. Flags
// win over file values.
func applyFlags(cfg *config.Config) {
	if flag.NArg() > 0 {
		cfg.Paths.Code = flag.Arg(0)
	}
	if flag.NArg() > 1 {
		cfg.Paths.Docs = flag.Arg(1)
	}
	if *format != "" {
		cfg.Report.Format = *format
	}
	if *output != "" {
		cfg.Report.Output = *output
	}
	if *minSeverity != "" {
		cfg.Report.MinSeverity = *minSeverity
	}
	if len(excludes) > 0 {
		cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, excludes...)
	}
	if *noDocstrings {
		disabled := false
		cfg.Comparator.RequireDocstrings = &disabled
	}
}

func reportOptions(cfg *config.Config) report.Options {
	opts := report.DefaultOptions()
	if *noSuggestions {
		opts.IncludeSuggestions = false
	}
	if cfg.Report.MaxIssues > 0 {
		opts.MaxIssues = cfg.Report.MaxIssues
	}
	sev, ok := drift.ParseSeverity(cfg.Report.MinSeverity)
	if !ok {
		fmt.Fprintf(os.Stderr, "invalid -min-severity %q: must be info, warning or critical\n", cfg.Report.MinSeverity)
		os.Exit(1)
	}
	opts.MinSeverity = sev
	return opts
}

func exitCode(result *drift.ComparisonResult, failSeverity drift.Severity, failSet bool) int {
	if !failSet {
		return 0
	}
	for _, issue := range result.Issues {
		if issue.Severity >= failSeverity {
			return 1
		}
	}
	return 0
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "driftwatch", "driftwatch.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "driftwatch", "driftwatch.log")
	}

	return "driftwatch.log"
}
