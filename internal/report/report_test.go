// # internal/report/report_test.go
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftwatch/internal/drift"
)

func sampleResult() *drift.ComparisonResult {
	return &drift.ComparisonResult{
		Issues: []drift.DriftIssue{
			{
				Type:         drift.MissingFromCode,
				Severity:     drift.SeverityCritical,
				SeverityName: "critical",
				Message:      `Documented item "ghost_func" not found in code`,
				DocLocation:  "docs/api.md",
				DocLine:      12,
				ItemName:     "ghost_func",
				Suggestion:   "Remove or update documentation",
			},
			{
				Type:         drift.ParameterMismatch,
				Severity:     drift.SeverityWarning,
				SeverityName: "warning",
				Message:      `Parameters [limit] not documented for "list_users"`,
				CodeLocation: "src/users.py",
				CodeLine:     40,
				ItemName:     "list_users",
			},
			{
				Type:         drift.UndocumentedFunction,
				Severity:     drift.SeverityInfo,
				SeverityName: "info",
				Message:      `Function "_helper" is not documented`,
				CodeLocation: "src/users.py",
				CodeLine:     77,
				ItemName:     "_helper",
			},
		},
		Stats: map[string]int{
			"total_functions":  3,
			"total_classes":    0,
			"total_documented": 2,
			"matched":          1,
			"undocumented":     2,
		},
	}
}

func TestGenerateMarkdown(t *testing.T) {
	out, err := Generate(sampleResult(), "markdown", DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, out, "# Documentation Drift Report")
	assert.Contains(t, out, "| 🔴 Critical | 1 |")
	assert.Contains(t, out, "| 🟡 Warning | 1 |")
	assert.Contains(t, out, "ghost_func")
	assert.Contains(t, out, "src/users.py")
	assert.Contains(t, out, "💡")
}

func TestGenerateMarkdownMinSeverity(t *testing.T) {
	opts := DefaultOptions()
	opts.MinSeverity = drift.SeverityWarning

	out, err := Generate(sampleResult(), "markdown", opts)
	require.NoError(t, err)

	assert.Contains(t, out, "ghost_func")
	assert.Contains(t, out, "list_users")
	assert.NotContains(t, out, "_helper")
}

func TestGenerateJSON(t *testing.T) {
	out, err := Generate(sampleResult(), "json", DefaultOptions())
	require.NoError(t, err)

	var doc struct {
		RunID       string             `json:"run_id"`
		GeneratedAt string             `json:"generated_at"`
		Summary     map[string]int     `json:"summary"`
		Issues      []drift.DriftIssue `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.NotEmpty(t, doc.RunID)
	assert.NotEmpty(t, doc.GeneratedAt)
	assert.Equal(t, 3, doc.Summary["total"])
	require.Len(t, doc.Issues, 3)
	assert.Equal(t, "critical", doc.Issues[0].SeverityName)
}

func TestGenerateGitHub(t *testing.T) {
	out, err := Generate(sampleResult(), "github", DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, out, "::error file=docs/api.md,line=12::")
	assert.Contains(t, out, "::warning file=src/users.py,line=40::")
	assert.Contains(t, out, "::notice file=src/users.py,line=77::")
}

func TestGeneratePRComment(t *testing.T) {
	out, err := Generate(sampleResult(), "pr", DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, out, "## ❌ Documentation Drift Detected")
	assert.Contains(t, out, "<details>")
	assert.Contains(t, out, "ghost_func")

	clean := &drift.ComparisonResult{Stats: map[string]int{}}
	out, err = Generate(clean, "pr", DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "## ✅ Documentation Up to Date")
}

func TestPRCommentCapsCriticalList(t *testing.T) {
	result := &drift.ComparisonResult{Stats: map[string]int{}}
	for i := 0; i < 15; i++ {
		result.Issues = append(result.Issues, drift.DriftIssue{
			Type:         drift.MissingFromCode,
			Severity:     drift.SeverityCritical,
			SeverityName: "critical",
			ItemName:     "ghost",
			Message:      "not found in code",
		})
	}

	out, err := Generate(result, "pr", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, prCriticalLimit, strings.Count(out, "- ❌"))
	assert.Contains(t, out, "*...and 5 more*")
}

func TestGenerateUnknownFormat(t *testing.T) {
	_, err := Generate(sampleResult(), "yaml", DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"yaml"`)
}

func TestWriteInfersFormat(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "report.json")
	require.NoError(t, Write(sampleResult(), jsonPath, "", DefaultOptions()))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data), "expected valid JSON for .json extension")

	mdPath := filepath.Join(dir, "report.md")
	require.NoError(t, Write(sampleResult(), mdPath, "", DefaultOptions()))
	data, err = os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Documentation Drift Report")
}

func TestMaxIssuesCap(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIssues = 1

	out, err := Generate(sampleResult(), "github", opts)
	require.NoError(t, err)

	assert.Contains(t, out, "ghost_func")
	assert.NotContains(t, out, "list_users")
}
