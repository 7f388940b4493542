// # internal/report/report.go
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"driftwatch/internal/drift"
)

// Options controls how issues are rendered.
type Options struct {
	IncludeSuggestions bool
	IncludeDetails     bool
	MinSeverity        drift.Severity
	GroupByFile        bool
	ShowStats          bool
	MaxIssues          int // 0 means unlimited
}

func DefaultOptions() Options {
	return Options{
		IncludeSuggestions: true,
		IncludeDetails:     true,
		MinSeverity:        drift.SeverityInfo,
		GroupByFile:        true,
		ShowStats:          true,
	}
}

// Generate renders a comparison result in the named format. An unknown
// format is a configuration error and the only fatal error class here.
func Generate(result *drift.ComparisonResult, format string, opts Options) (string, error) {
	switch format {
	case "markdown":
		return generateMarkdown(result, opts), nil
	case "json":
		return generateJSON(result, opts)
	case "github":
		return generateGitHub(result, opts), nil
	case "pr":
		return generatePRComment(result, opts), nil
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
}

// Write renders to a file, inferring the format from the extension
// when none is given (.json is JSON, everything else Markdown).
func Write(result *drift.ComparisonResult, output, format string, opts Options) error {
	if format == "" {
		if filepath.Ext(output) == ".json" {
			format = "json"
		} else {
			format = "markdown"
		}
	}
	content, err := Generate(result, format, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(output, []byte(content), 0o644)
}

// filterIssues drops issues below the minimum severity and caps the
// list when MaxIssues is set.
func filterIssues(issues []drift.DriftIssue, opts Options) []drift.DriftIssue {
	var out []drift.DriftIssue
	for _, issue := range issues {
		if issue.Severity >= opts.MinSeverity {
			out = append(out, issue)
		}
	}
	if opts.MaxIssues > 0 && len(out) > opts.MaxIssues {
		out = out[:opts.MaxIssues]
	}
	return out
}

func issueLocation(issue drift.DriftIssue) (string, int) {
	if issue.CodeLocation != "" {
		return issue.CodeLocation, issue.CodeLine
	}
	if issue.DocLocation != "" {
		return issue.DocLocation, issue.DocLine
	}
	return "", 0
}

func severityIcon(severity drift.Severity) string {
	switch severity {
	case drift.SeverityCritical:
		return "🔴"
	case drift.SeverityWarning:
		return "🟡"
	default:
		return "🔵"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
