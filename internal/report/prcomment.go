// # internal/report/prcomment.go
package report

import (
	"fmt"
	"strings"

	"driftwatch/internal/drift"
)

const (
	prCriticalLimit = 10
	prWarningLimit  = 20
)

// generatePRComment renders a pull-request comment body: status
// header, collapsible summary, critical issues first, warnings folded.
func generatePRComment(result *drift.ComparisonResult, opts Options) string {
	var b strings.Builder
	summary := result.Summary()

	switch {
	case summary["critical"] > 0:
		b.WriteString("## ❌ Documentation Drift Detected\n\n")
	case summary["warning"] > 0:
		b.WriteString("## ⚠️ Documentation Drift Warnings\n\n")
	default:
		b.WriteString("## ✅ Documentation Up to Date\n\n")
	}

	b.WriteString("<details>\n")
	b.WriteString("<summary>📊 Summary</summary>\n\n")
	b.WriteString("| Category | Count |\n")
	b.WriteString("|----------|-------|\n")
	b.WriteString(fmt.Sprintf("| ❌ Critical | %d |\n", summary["critical"]))
	b.WriteString(fmt.Sprintf("| ⚠️ Warning | %d |\n", summary["warning"]))
	b.WriteString(fmt.Sprintf("| ℹ️ Info | %d |\n\n", summary["info"]))
	b.WriteString("</details>\n\n")

	if len(result.Issues) == 0 {
		b.WriteString("No documentation drift detected. Great job! 🎉\n")
		return b.String()
	}

	critical := result.FilterBySeverity(drift.SeverityCritical)
	if len(critical) > 0 {
		b.WriteString("### ❌ Critical Issues\n\n")
		for i, issue := range critical {
			if i >= prCriticalLimit {
				b.WriteString(fmt.Sprintf("*...and %d more*\n", len(critical)-prCriticalLimit))
				break
			}
			b.WriteString(compactIssue(issue, "❌"))
		}
		b.WriteString("\n")
	}

	warnings := result.FilterBySeverity(drift.SeverityWarning)
	if len(warnings) > 0 {
		b.WriteString("<details>\n")
		b.WriteString(fmt.Sprintf("<summary>⚠️ Warnings (%d)</summary>\n\n", len(warnings)))
		for i, issue := range warnings {
			if i >= prWarningLimit {
				b.WriteString(fmt.Sprintf("*...and %d more*\n", len(warnings)-prWarningLimit))
				break
			}
			b.WriteString(compactIssue(issue, "⚠️"))
		}
		b.WriteString("\n</details>\n\n")
	}

	b.WriteString("---\n")
	b.WriteString("*Generated by driftwatch*\n")

	return b.String()
}

func compactIssue(issue drift.DriftIssue, icon string) string {
	fileRef := ""
	if issue.CodeLocation != "" {
		line := issue.CodeLine
		if line == 0 {
			line = 1
		}
		fileRef = fmt.Sprintf(" (`%s:%d`)", issue.CodeLocation, line)
	}
	return fmt.Sprintf("- %s **%s**: %s%s\n", icon, issue.ItemName, issue.Message, fileRef)
}
