// # internal/report/json.go
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"driftwatch/internal/drift"
)

type jsonReport struct {
	RunID       string             `json:"run_id"`
	GeneratedAt string             `json:"generated_at"`
	Summary     map[string]int     `json:"summary"`
	Stats       map[string]int     `json:"stats"`
	Issues      []drift.DriftIssue `json:"issues"`
}

func generateJSON(result *drift.ComparisonResult, opts Options) (string, error) {
	issues := filterIssues(result.Issues, opts)
	if issues == nil {
		issues = []drift.DriftIssue{}
	}

	doc := jsonReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Summary:     result.Summary(),
		Stats:       result.Stats,
		Issues:      issues,
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json report: %w", err)
	}
	return string(out), nil
}
