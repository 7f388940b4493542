// # cmd/driftwatch/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/attribute"

	"driftwatch/internal/config"
	"driftwatch/internal/docs"
	"driftwatch/internal/drift"
	"driftwatch/internal/extract"
	"driftwatch/internal/observability"
	"driftwatch/internal/report"
	"driftwatch/internal/semantic"
	"driftwatch/internal/watcher"
)

type App struct {
	Config        *config.Config
	codeExtractor *extract.Extractor
	docExtractor  *docs.Extractor
	matcher       *semantic.Matcher
	cache         *semantic.Cache
	fsWatcher     *watcher.Watcher
	teaProgram    *tea.Program

	mu          sync.Mutex
	lastResult  *drift.ComparisonResult
	lastCode    []*extract.ParseResult
	lastScanned time.Time
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		Config:        cfg,
		codeExtractor: extract.NewExtractor(extract.NewGrammarLoader()),
		docExtractor:  docs.NewExtractor(),
	}

	if cfg.Semantic.Enabled {
		provider, err := buildProvider(cfg.Semantic)
		if err != nil {
			return nil, err
		}
		cache, err := semantic.OpenCache(cfg.Semantic.CachePath)
		if err != nil {
			return nil, err
		}
		a.cache = cache
		a.matcher = semantic.NewMatcher(provider, cache, cfg.Semantic.Threshold)
	}

	return a, nil
}

func buildProvider(cfg config.Semantic) (semantic.Provider, error) {
	switch cfg.Provider {
	case "remote":
		apiKey := ""
		if cfg.APIKeyEnv != "" {
			apiKey = os.Getenv(cfg.APIKeyEnv)
			if apiKey == "" {
				return nil, fmt.Errorf("environment variable %s named by semantic.api_key_env is empty", cfg.APIKeyEnv)
			}
		}
		return semantic.NewRemoteProvider(semantic.RemoteOptions{
			Endpoint: cfg.Endpoint,
			Model:    cfg.Model,
			APIKey:   apiKey,
		})
	default:
		return semantic.NewHashProvider(), nil
	}
}

func (a *App) comparatorOptions() drift.Options {
	opts := drift.DefaultOptions()
	cmp := a.Config.Comparator
	if len(cmp.IgnorePatterns) > 0 {
		opts.IgnorePatterns = cmp.IgnorePatterns
	}
	if cmp.RequireDocstrings != nil {
		opts.RequireDocstrings = *cmp.RequireDocstrings
	}
	if cmp.CheckParameters != nil {
		opts.CheckParameters = *cmp.CheckParameters
	}
	opts.CheckReturnTypes = cmp.CheckReturnTypes
	return opts
}

// Scan walks both trees concurrently, waits for both extractions, then
// runs the comparison on the complete snapshots.
func (a *App) Scan(ctx context.Context) (*drift.ComparisonResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "scan")
	defer span.End()

	var (
		wg          sync.WaitGroup
		codeResults []*extract.ParseResult
		docResults  []*docs.DocParseResult
		codeErr     error
		docErr      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, codeSpan := observability.Tracer.Start(ctx, "extract.code")
		defer codeSpan.End()
		codeResults, codeErr = a.codeExtractor.ExtractDirectory(a.Config.Paths.Code, a.Config.Exclude.Patterns)
		codeSpan.SetAttributes(attribute.Int("files", len(codeResults)))
	}()
	go func() {
		defer wg.Done()
		_, docSpan := observability.Tracer.Start(ctx, "extract.docs")
		defer docSpan.End()
		docResults, docErr = a.docExtractor.ExtractDirectory(a.Config.Paths.Docs, a.Config.Exclude.Patterns)
		docSpan.SetAttributes(attribute.Int("files", len(docResults)))
	}()
	wg.Wait()

	if codeErr != nil {
		return nil, fmt.Errorf("scan code tree %q: %w", a.Config.Paths.Code, codeErr)
	}
	if docErr != nil {
		return nil, fmt.Errorf("scan docs tree %q: %w", a.Config.Paths.Docs, docErr)
	}

	for _, r := range codeResults {
		for _, e := range r.Errors {
			slog.Warn("extraction issue", "file", r.Filepath, "error", e)
		}
	}
	for _, r := range docResults {
		for _, e := range r.Errors {
			slog.Warn("doc extraction issue", "file", r.Filepath, "error", e)
		}
	}

	_, compareSpan := observability.Tracer.Start(ctx, "compare")
	result := drift.Compare(codeResults, docResults, a.comparatorOptions())
	compareSpan.SetAttributes(attribute.Int("issues", len(result.Issues)))
	compareSpan.End()

	if a.matcher != nil {
		a.suggestMatches(ctx, result, codeResults)
	}

	a.mu.Lock()
	a.lastResult = result
	a.lastCode = codeResults
	a.lastScanned = time.Now()
	a.mu.Unlock()

	return result, nil
}

// suggestMatches runs semantic matching over doc items flagged as
// missing from code, to surface likely renames. Suggestions are logged
// only and never change the comparison result.
func (a *App) suggestMatches(ctx context.Context, result *drift.ComparisonResult, codeResults []*extract.ParseResult) {
	var candidates []string
	for _, r := range codeResults {
		for _, fn := range r.Functions {
			candidates = append(candidates, fn.FullName())
		}
		for _, cls := range r.Classes {
			candidates = append(candidates, cls.Name)
			for _, m := range cls.Methods {
				candidates = append(candidates, m.FullName())
			}
		}
	}
	if len(candidates) == 0 {
		return
	}

	for _, issue := range result.Issues {
		if issue.Type != drift.MissingFromCode {
			continue
		}
		match, ok, err := a.matcher.BestMatch(ctx, issue.ItemName, candidates)
		if err != nil {
			slog.Warn("semantic match failed", "item", issue.ItemName, "error", err)
			continue
		}
		if ok && !strings.EqualFold(match.Text, issue.ItemName) {
			slog.Info("documented item may have been renamed",
				"documented", issue.ItemName,
				"closest_code_item", match.Text,
				"similarity", fmt.Sprintf("%.2f", match.Score))
		}
	}
}

// Report renders the result to the configured output file, or stdout
// when no output path is set.
func (a *App) Report(result *drift.ComparisonResult, opts report.Options) error {
	if a.Config.Report.Output != "" {
		return report.Write(result, a.Config.Report.Output, a.Config.Report.Format, opts)
	}
	content, err := report.Generate(result, a.Config.Report.Format, opts)
	if err != nil {
		return err
	}
	fmt.Print(content)
	return nil
}

func (a *App) PrintSummary(result *drift.ComparisonResult, duration time.Duration) {
	fmt.Print(summaryText(result, duration))
}

func summaryText(result *drift.ComparisonResult, duration time.Duration) string {
	summary := result.Summary()

	var b strings.Builder
	b.WriteString(strings.Repeat("-", 40) + "\n")
	total := result.Stats["total_functions"] + result.Stats["total_classes"]
	fmt.Fprintf(&b, "Scan: %d items checked in %v\n", total, duration.Round(time.Millisecond))

	if summary["total"] == 0 {
		b.WriteString("✅ No documentation drift found.\n")
	} else {
		fmt.Fprintf(&b, "Found %d issues: %d critical, %d warnings, %d info\n",
			summary["total"], summary["critical"], summary["warning"], summary["info"])
	}

	if total > 0 {
		fmt.Fprintf(&b, "📊 Coverage: %d/%d items documented\n", result.Stats["matched"], total)
	}
	b.WriteString(strings.Repeat("-", 40) + "\n")
	return b.String()
}

// StartWatcher begins watch mode: changed files are logged and the
// whole pair of trees is rescanned after the debounce window.
func (a *App) StartWatcher(onRescan func(*drift.ComparisonResult)) error {
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Exclude.Patterns, func(paths []string) {
		slog.Info("detected changes", "count", len(paths))
		start := time.Now()
		result, err := a.Scan(context.Background())
		if err != nil {
			slog.Error("rescan failed", "error", err)
			return
		}
		slog.Info("rescan complete", "issues", len(result.Issues), "duration", time.Since(start).Round(time.Millisecond))
		if onRescan != nil {
			onRescan(result)
		}
	})
	if err != nil {
		return err
	}
	a.fsWatcher = w
	return w.Watch([]string{a.Config.Paths.Code, a.Config.Paths.Docs})
}

func (a *App) RunUI() error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.mu.Lock()
		result := a.lastResult
		a.mu.Unlock()
		if result != nil {
			p.Send(resultMsg{result: result})
		}
	}()

	_, err := p.Run()
	return err
}

func (a *App) NotifyUI(result *drift.ComparisonResult) {
	if a.teaProgram != nil {
		a.teaProgram.Send(resultMsg{result: result})
	}
}

func (a *App) Close() error {
	if a.fsWatcher != nil {
		_ = a.fsWatcher.Close()
	}
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}
