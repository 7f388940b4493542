// # internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "driftwatch.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := `
[paths]
code = "./src"
docs = "./documentation"

[exclude]
patterns = ["vendor", "*.generated.py"]

[comparator]
ignore_patterns = ["_*", "test_*"]
require_docstrings = false
check_return_types = true

[report]
format = "json"
output = "drift.json"
min_severity = "warning"
max_issues = 50

[semantic]
enabled = true
provider = "remote"
endpoint = "https://api.openai.com/v1"
api_key_env = "OPENAI_API_KEY"
threshold = 0.7

[watch]
debounce = "1s"

[observability]
metrics_addr = ":9090"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Paths.Code != "./src" || cfg.Paths.Docs != "./documentation" {
		t.Errorf("Unexpected paths: %+v", cfg.Paths)
	}
	if len(cfg.Exclude.Patterns) != 2 || cfg.Exclude.Patterns[1] != "*.generated.py" {
		t.Errorf("Unexpected exclude patterns: %v", cfg.Exclude.Patterns)
	}
	if cfg.Comparator.RequireDocstrings == nil || *cfg.Comparator.RequireDocstrings {
		t.Error("Expected require_docstrings false")
	}
	if !cfg.Comparator.CheckReturnTypes {
		t.Error("Expected check_return_types true")
	}
	if cfg.Report.Format != "json" || cfg.Report.MinSeverity != "warning" || cfg.Report.MaxIssues != 50 {
		t.Errorf("Unexpected report config: %+v", cfg.Report)
	}
	if cfg.Semantic.Provider != "remote" || cfg.Semantic.Threshold != 0.7 {
		t.Errorf("Unexpected semantic config: %+v", cfg.Semantic)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Observability.MetricsAddr != ":9090" {
		t.Errorf("Unexpected metrics_addr: %s", cfg.Observability.MetricsAddr)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `[paths]
code = "./src"
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Paths.Docs != "docs" {
		t.Errorf("Expected default docs path, got %s", cfg.Paths.Docs)
	}
	if len(cfg.Exclude.Patterns) == 0 {
		t.Error("Expected default exclude patterns")
	}
	if cfg.Comparator.RequireDocstrings == nil || !*cfg.Comparator.RequireDocstrings {
		t.Error("Expected require_docstrings to default to true")
	}
	if cfg.Comparator.CheckParameters == nil || !*cfg.Comparator.CheckParameters {
		t.Error("Expected check_parameters to default to true")
	}
	if cfg.Report.Format != "markdown" || cfg.Report.MinSeverity != "info" {
		t.Errorf("Unexpected report defaults: %+v", cfg.Report)
	}
	if cfg.Semantic.Provider != "hash" || cfg.Semantic.Threshold != 0.5 {
		t.Errorf("Unexpected semantic defaults: %+v", cfg.Semantic)
	}
	if cfg.Semantic.CachePath != ".driftwatch/embeddings.db" {
		t.Errorf("Unexpected cache path: %s", cfg.Semantic.CachePath)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
}

func TestDefaultMatchesEmptyLoad(t *testing.T) {
	cfg := Default()
	if cfg.Paths.Code != "." || cfg.Paths.Docs != "docs" {
		t.Errorf("Unexpected default paths: %+v", cfg.Paths)
	}
	if cfg.Report.Format != "markdown" {
		t.Errorf("Unexpected default format: %s", cfg.Report.Format)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad format",
			content: "[report]\nformat = \"xml\"\n",
			wantErr: "report.format",
		},
		{
			name:    "bad severity",
			content: "[report]\nmin_severity = \"fatal\"\n",
			wantErr: "report.min_severity",
		},
		{
			name:    "negative max issues",
			content: "[report]\nmax_issues = -1\n",
			wantErr: "report.max_issues",
		},
		{
			name:    "unknown provider",
			content: "[semantic]\nprovider = \"llama\"\n",
			wantErr: "semantic.provider",
		},
		{
			name:    "remote without endpoint",
			content: "[semantic]\nprovider = \"remote\"\n",
			wantErr: "semantic.endpoint",
		},
		{
			name:    "threshold out of range",
			content: "[semantic]\nthreshold = 1.5\n",
			wantErr: "semantic.threshold",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error mentioning %q, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadError(t *testing.T) {
	if _, err := Load("nonexistent.toml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}

	if _, err := Load(writeConfig(t, "bad = toml = format")); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}
