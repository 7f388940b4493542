// # internal/drift/types.go
package drift

// Severity is ordinal drift importance: CRITICAL > WARNING > INFO.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// ParseSeverity maps a config/CLI value to a Severity. Unknown values
// are a configuration error and fatal to the invocation.
func ParseSeverity(value string) (Severity, bool) {
	switch value {
	case "info":
		return SeverityInfo, true
	case "warning":
		return SeverityWarning, true
	case "critical":
		return SeverityCritical, true
	default:
		return SeverityInfo, false
	}
}

// DriftType is the closed set of drift classifications.
type DriftType string

const (
	UndocumentedFunction      DriftType = "undocumented_function"
	UndocumentedClass         DriftType = "undocumented_class"
	MissingFromCode           DriftType = "missing_from_code"
	SignatureMismatch         DriftType = "signature_mismatch"
	ParameterMismatch         DriftType = "parameter_mismatch"
	ReturnTypeMismatch        DriftType = "return_type_mismatch"
	DeprecatedStillDocumented DriftType = "deprecated_still_documented"
	MissingDeprecationNotice  DriftType = "missing_deprecation_notice"
	DocstringMissing          DriftType = "docstring_missing"
	StaleExample              DriftType = "stale_example"
)

// DriftIssue is a single detected inconsistency between code and docs.
type DriftIssue struct {
	Type         DriftType      `json:"drift_type"`
	Severity     Severity       `json:"-"`
	SeverityName string         `json:"severity"`
	Message      string         `json:"message"`
	CodeLocation string         `json:"code_location,omitempty"`
	CodeLine     int            `json:"code_line,omitempty"`
	DocLocation  string         `json:"doc_location,omitempty"`
	DocLine      int            `json:"doc_line,omitempty"`
	ItemName     string         `json:"item_name"`
	Details      map[string]any `json:"details,omitempty"`
	Suggestion   string         `json:"suggestion,omitempty"`
}

// ComparisonResult holds issues in discovery order (code functions,
// code classes, then orphan doc items) plus coverage stats.
type ComparisonResult struct {
	Issues []DriftIssue   `json:"issues"`
	Stats  map[string]int `json:"stats"`
}

func (r *ComparisonResult) add(issue DriftIssue) {
	issue.SeverityName = issue.Severity.String()
	r.Issues = append(r.Issues, issue)
}

func (r *ComparisonResult) HasCritical() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

func (r *ComparisonResult) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

func (r *ComparisonResult) FilterBySeverity(severity Severity) []DriftIssue {
	var out []DriftIssue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

// Summary counts issues per severity tier.
func (r *ComparisonResult) Summary() map[string]int {
	return map[string]int{
		"total":    len(r.Issues),
		"critical": len(r.FilterBySeverity(SeverityCritical)),
		"warning":  len(r.FilterBySeverity(SeverityWarning)),
		"info":     len(r.FilterBySeverity(SeverityInfo)),
	}
}
