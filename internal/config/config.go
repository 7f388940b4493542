// # internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"driftwatch/internal/drift"
)

type Config struct {
	Paths         Paths         `toml:"paths"`
	Exclude       Exclude       `toml:"exclude"`
	Comparator    Comparator    `toml:"comparator"`
	Report        Report        `toml:"report"`
	Semantic      Semantic      `toml:"semantic"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Paths struct {
	Code string `toml:"code"`
	Docs string `toml:"docs"`
}

type Exclude struct {
	Patterns []string `toml:"patterns"`
}

type Comparator struct {
	IgnorePatterns    []string `toml:"ignore_patterns"`
	RequireDocstrings *bool    `toml:"require_docstrings"`
	CheckParameters   *bool    `toml:"check_parameters"`
	CheckReturnTypes  bool     `toml:"check_return_types"`
}

type Report struct {
	Format      string `toml:"format"`
	Output      string `toml:"output"`
	MinSeverity string `toml:"min_severity"`
	MaxIssues   int    `toml:"max_issues"`
}

type Semantic struct {
	Enabled   bool    `toml:"enabled"`
	Provider  string  `toml:"provider"`
	Endpoint  string  `toml:"endpoint"`
	Model     string  `toml:"model"`
	APIKeyEnv string  `toml:"api_key_env"`
	Threshold float64 `toml:"threshold"`
	CachePath string  `toml:"cache_path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Paths.Code) == "" {
		cfg.Paths.Code = "."
	}
	if strings.TrimSpace(cfg.Paths.Docs) == "" {
		cfg.Paths.Docs = "docs"
	}

	if len(cfg.Exclude.Patterns) == 0 {
		cfg.Exclude.Patterns = []string{
			"node_modules", ".git", "__pycache__", ".venv", "venv", "dist", "build",
		}
	}

	if cfg.Comparator.RequireDocstrings == nil {
		enabled := true
		cfg.Comparator.RequireDocstrings = &enabled
	}
	if cfg.Comparator.CheckParameters == nil {
		enabled := true
		cfg.Comparator.CheckParameters = &enabled
	}

	if strings.TrimSpace(cfg.Report.Format) == "" {
		cfg.Report.Format = "markdown"
	}
	if strings.TrimSpace(cfg.Report.MinSeverity) == "" {
		cfg.Report.MinSeverity = "info"
	}

	if strings.TrimSpace(cfg.Semantic.Provider) == "" {
		cfg.Semantic.Provider = "hash"
	}
	if cfg.Semantic.Threshold == 0 {
		cfg.Semantic.Threshold = 0.5
	}
	if strings.TrimSpace(cfg.Semantic.CachePath) == "" {
		cfg.Semantic.CachePath = ".driftwatch/embeddings.db"
	}

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}

func validate(cfg *Config) error {
	switch cfg.Report.Format {
	case "markdown", "json", "github", "pr":
	default:
		return fmt.Errorf("report.format %q is not one of markdown, json, github, pr", cfg.Report.Format)
	}

	if _, ok := drift.ParseSeverity(cfg.Report.MinSeverity); !ok {
		return fmt.Errorf("report.min_severity %q is not one of info, warning, critical", cfg.Report.MinSeverity)
	}

	if cfg.Report.MaxIssues < 0 {
		return fmt.Errorf("report.max_issues must not be negative, got %d", cfg.Report.MaxIssues)
	}

	switch cfg.Semantic.Provider {
	case "hash", "remote":
	default:
		return fmt.Errorf("semantic.provider %q is not one of hash, remote", cfg.Semantic.Provider)
	}
	if cfg.Semantic.Provider == "remote" && strings.TrimSpace(cfg.Semantic.Endpoint) == "" {
		return fmt.Errorf("semantic.endpoint is required when semantic.provider is 'remote'")
	}
	if cfg.Semantic.Threshold < 0 || cfg.Semantic.Threshold > 1 {
		return fmt.Errorf("semantic.threshold must be in [0, 1], got %v", cfg.Semantic.Threshold)
	}

	return nil
}
