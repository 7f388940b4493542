// # internal/report/markdown.go
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"driftwatch/internal/drift"
)

func generateMarkdown(result *drift.ComparisonResult, opts Options) string {
	var b strings.Builder

	b.WriteString("# Documentation Drift Report\n\n")
	b.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().UTC().Format("2006-01-02 15:04:05")))

	summary := result.Summary()
	b.WriteString("## Summary\n\n")
	b.WriteString("| Severity | Count |\n")
	b.WriteString("|----------|-------|\n")
	b.WriteString(fmt.Sprintf("| 🔴 Critical | %d |\n", summary["critical"]))
	b.WriteString(fmt.Sprintf("| 🟡 Warning | %d |\n", summary["warning"]))
	b.WriteString(fmt.Sprintf("| 🔵 Info | %d |\n", summary["info"]))
	b.WriteString(fmt.Sprintf("| **Total** | **%d** |\n\n", summary["total"]))

	if opts.ShowStats && len(result.Stats) > 0 {
		b.WriteString("### Coverage Stats\n\n")
		b.WriteString(fmt.Sprintf("- Total functions: %d\n", result.Stats["total_functions"]))
		b.WriteString(fmt.Sprintf("- Total classes: %d\n", result.Stats["total_classes"]))
		b.WriteString(fmt.Sprintf("- Documented items: %d\n", result.Stats["total_documented"]))
		b.WriteString(fmt.Sprintf("- Matched: %d\n", result.Stats["matched"]))
		b.WriteString(fmt.Sprintf("- Undocumented: %d\n\n", result.Stats["undocumented"]))
	}

	issues := filterIssues(result.Issues, opts)
	if len(issues) == 0 {
		b.WriteString("## ✅ No Issues Found\n\n")
		b.WriteString("Code and documentation are in sync!\n")
		return b.String()
	}

	b.WriteString("## Issues\n\n")

	if opts.GroupByFile {
		grouped := make(map[string][]drift.DriftIssue)
		for _, issue := range issues {
			file, _ := issueLocation(issue)
			if file == "" {
				file = "unknown"
			}
			grouped[file] = append(grouped[file], issue)
		}
		files := make([]string, 0, len(grouped))
		for file := range grouped {
			files = append(files, file)
		}
		sort.Strings(files)

		for _, file := range files {
			b.WriteString(fmt.Sprintf("### 📁 `%s`\n\n", file))
			for _, issue := range grouped[file] {
				writeIssue(&b, issue, opts)
			}
			b.WriteString("\n")
		}
	} else {
		for _, severity := range []drift.Severity{drift.SeverityCritical, drift.SeverityWarning, drift.SeverityInfo} {
			var tier []drift.DriftIssue
			for _, issue := range issues {
				if issue.Severity == severity {
					tier = append(tier, issue)
				}
			}
			if len(tier) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("### %s %s\n\n", severityIcon(severity), titleCase(severity.String())))
			for _, issue := range tier {
				writeIssue(&b, issue, opts)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeIssue(b *strings.Builder, issue drift.DriftIssue, opts Options) {
	b.WriteString(fmt.Sprintf("- %s **%s**: %s\n", severityIcon(issue.Severity), issue.ItemName, issue.Message))

	var locations []string
	if issue.CodeLocation != "" && issue.CodeLine > 0 {
		locations = append(locations, fmt.Sprintf("Code: `%s:%d`", issue.CodeLocation, issue.CodeLine))
	}
	if issue.DocLocation != "" && issue.DocLine > 0 {
		locations = append(locations, fmt.Sprintf("Doc: `%s:%d`", issue.DocLocation, issue.DocLine))
	}
	if len(locations) > 0 {
		b.WriteString(fmt.Sprintf("  - Location: %s\n", strings.Join(locations, ", ")))
	}

	if opts.IncludeSuggestions && issue.Suggestion != "" {
		b.WriteString(fmt.Sprintf("  - 💡 *%s*\n", issue.Suggestion))
	}
}
