// # cmd/driftwatch/app_test.go
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"driftwatch/internal/config"
	"driftwatch/internal/drift"
	"driftwatch/internal/report"
)

func writeTree(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()

	codeDir := filepath.Join(tmpDir, "src")
	docsDir := filepath.Join(tmpDir, "docs")
	os.MkdirAll(codeDir, 0o755)
	os.MkdirAll(docsDir, 0o755)

	os.WriteFile(filepath.Join(codeDir, "users.py"), []byte(`def get_user(user_id):
    """Fetch a user by id."""
    return None

def delete_user(user_id):
    return None
`), 0o644)

	os.WriteFile(filepath.Join(docsDir, "api.md"), []byte(`# API

## get_user(user_id)

Fetch a user by id.

## remove_account(account_id)

Removes an account permanently.
`), 0o644)

	cfg := config.Default()
	cfg.Paths.Code = codeDir
	cfg.Paths.Docs = docsDir
	return cfg
}

func TestAppScan(t *testing.T) {
	app, err := NewApp(writeTree(t))
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	result, err := app.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Stats["total_functions"] != 2 {
		t.Errorf("Expected 2 functions scanned, got %d", result.Stats["total_functions"])
	}

	var ghost, undocumented bool
	for _, issue := range result.Issues {
		switch {
		case issue.Type == drift.MissingFromCode && issue.ItemName == "remove_account":
			ghost = true
		case issue.Type == drift.UndocumentedFunction && issue.ItemName == "delete_user":
			undocumented = true
		}
	}
	if !ghost {
		t.Error("Expected remove_account to be flagged as missing from code")
	}
	if !undocumented {
		t.Error("Expected delete_user to be flagged as undocumented")
	}
}

func TestAppScanWithSemanticSuggestions(t *testing.T) {
	cfg := writeTree(t)
	cfg.Semantic.Enabled = true
	cfg.Semantic.CachePath = filepath.Join(t.TempDir(), "embeddings.db")

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	// Suggestions are log-only; the scan must succeed and leave the
	// comparison result unchanged.
	result, err := app.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Summary()["critical"] == 0 {
		t.Error("Expected the ghost doc to stay critical with semantic matching on")
	}
}

func TestAppReportToFile(t *testing.T) {
	cfg := writeTree(t)
	cfg.Report.Output = filepath.Join(t.TempDir(), "drift.md")

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	result, err := app.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Report(result, report.DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(cfg.Report.Output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "remove_account") {
		t.Error("Report file should mention the ghost documentation item")
	}
}

func TestSummaryText(t *testing.T) {
	app, err := NewApp(writeTree(t))
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	result, err := app.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// get_user is documented, delete_user is not.
	out := summaryText(result, 0)
	if !strings.Contains(out, "Scan: 2 items checked") {
		t.Errorf("Summary should count both functions, got:\n%s", out)
	}
	if !strings.Contains(out, "📊 Coverage: 1/2 items documented") {
		t.Errorf("Coverage line should use the matched count, got:\n%s", out)
	}
	if !strings.Contains(out, "critical") {
		t.Errorf("Summary should report issue counts, got:\n%s", out)
	}
}

func TestExitCode(t *testing.T) {
	result := &drift.ComparisonResult{
		Issues: []drift.DriftIssue{
			{Type: drift.UndocumentedFunction, Severity: drift.SeverityWarning},
		},
	}

	if got := exitCode(result, drift.SeverityCritical, true); got != 0 {
		t.Errorf("Expected exit 0 below fail threshold, got %d", got)
	}
	if got := exitCode(result, drift.SeverityWarning, true); got != 1 {
		t.Errorf("Expected exit 1 at fail threshold, got %d", got)
	}
	if got := exitCode(result, drift.SeverityWarning, false); got != 0 {
		t.Errorf("Expected exit 0 when no fail threshold set, got %d", got)
	}
	if got := exitCode(&drift.ComparisonResult{}, drift.SeverityInfo, true); got != 0 {
		t.Errorf("Expected exit 0 for clean result, got %d", got)
	}
}
