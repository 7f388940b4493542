// # internal/report/github.go
package report

import (
	"fmt"
	"strings"

	"driftwatch/internal/drift"
)

// generateGitHub emits GitHub Actions workflow commands, one
// annotation per issue plus a grouped summary block.
func generateGitHub(result *drift.ComparisonResult, opts Options) string {
	var b strings.Builder

	for _, issue := range filterIssues(result.Issues, opts) {
		level := "notice"
		switch issue.Severity {
		case drift.SeverityCritical:
			level = "error"
		case drift.SeverityWarning:
			level = "warning"
		}

		file, line := issueLocation(issue)
		if line == 0 {
			line = 1
		}

		// Newlines must be escaped in annotation messages.
		message := strings.ReplaceAll(issue.Message, "\n", "%0A")
		b.WriteString(fmt.Sprintf("::%s file=%s,line=%d::%s\n", level, file, line, message))
	}

	summary := result.Summary()
	b.WriteString("\n")
	b.WriteString("::group::Documentation Drift Summary\n")
	b.WriteString(fmt.Sprintf("Total issues: %d\n", summary["total"]))
	b.WriteString(fmt.Sprintf("Critical: %d\n", summary["critical"]))
	b.WriteString(fmt.Sprintf("Warnings: %d\n", summary["warning"]))
	b.WriteString(fmt.Sprintf("Info: %d\n", summary["info"]))
	b.WriteString("::endgroup::\n")

	return b.String()
}
