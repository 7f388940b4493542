// # internal/drift/comparator.go
package drift

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"driftwatch/internal/docs"
	"driftwatch/internal/extract"
	"driftwatch/internal/observability"
)

// Options configures a comparison run.
type Options struct {
	IgnorePatterns    []string
	RequireDocstrings bool
	CheckParameters   bool
	// CheckReturnTypes is accepted for config compatibility; no return
	// type check is implemented yet.
	CheckReturnTypes bool
}

// DefaultOptions mirrors the ignore set for constructor and dunder
// methods plus the underscore "private" prefix rule.
func DefaultOptions() Options {
	return Options{
		IgnorePatterns: []string{
			"__init__", "__str__", "__repr__", "__eq__", "__hash__",
			"_*",
		},
		RequireDocstrings: true,
		CheckParameters:   true,
		CheckReturnTypes:  true,
	}
}

// externalHints mark documented items that intentionally have no code
// counterpart.
var externalHints = []string{"external", "third-party", "library", "package"}

// functionIndex keeps insertion order alongside the name map so that
// comparison output and the short-name last-write-wins rule are
// deterministic.
type functionIndex struct {
	byName    map[string]*extract.FunctionSignature
	qualified []string // distinct qualified names, discovery order
}

func (idx *functionIndex) put(fn *extract.FunctionSignature) {
	full := fn.FullName()
	if _, exists := idx.byName[full]; !exists {
		idx.qualified = append(idx.qualified, full)
	}
	idx.byName[full] = fn
	if fn.ClassName != "" {
		// Methods are reachable by bare name too; when two classes
		// share a method name the last one processed wins.
		idx.byName[fn.Name] = fn
	}
}

type docIndex struct {
	byName map[string]*docs.DocumentedItem
	order  []string
}

func (idx *docIndex) put(item *docs.DocumentedItem) {
	if _, exists := idx.byName[item.Name]; !exists {
		idx.order = append(idx.order, item.Name)
	}
	idx.byName[item.Name] = item
}

// Compare aligns extracted code signatures with documented items and
// emits drift issues. It is a pure function of its inputs: indices are
// rebuilt per call and the input records are never mutated.
func Compare(codeResults []*extract.ParseResult, docResults []*docs.DocParseResult, opts Options) *ComparisonResult {
	start := time.Now()
	defer func() {
		observability.CompareDuration.Observe(time.Since(start).Seconds())
	}()

	result := &ComparisonResult{}

	functions := &functionIndex{byName: make(map[string]*extract.FunctionSignature)}
	classes := make(map[string]*extract.ClassSignature)
	var classOrder []string
	for _, parsed := range codeResults {
		for i := range parsed.Functions {
			functions.put(&parsed.Functions[i])
		}
		for i := range parsed.Classes {
			cls := &parsed.Classes[i]
			if _, exists := classes[cls.Name]; !exists {
				classOrder = append(classOrder, cls.Name)
			}
			classes[cls.Name] = cls
			for j := range cls.Methods {
				functions.put(&cls.Methods[j])
			}
		}
	}

	documented := &docIndex{byName: make(map[string]*docs.DocumentedItem)}
	for _, parsed := range docResults {
		for i := range parsed.Items {
			documented.put(&parsed.Items[i])
		}
	}

	matched := make(map[string]bool)

	for _, name := range functions.qualified {
		fn := functions.byName[name]
		if ShouldIgnore(name, opts.IgnorePatterns) {
			continue
		}
		if item := findDocItem(name, documented); item != nil {
			matched[item.Name] = true
			checkFunctionDrift(fn, item, opts, result)
			continue
		}
		if fn.Docstring == "" && opts.RequireDocstrings {
			result.add(DriftIssue{
				Type:         UndocumentedFunction,
				Severity:     undocumentedSeverity(fn),
				Message:      fmt.Sprintf("Function %q is not documented", name),
				CodeLocation: fn.Filepath,
				CodeLine:     fn.LineNumber,
				ItemName:     name,
				Suggestion:   fmt.Sprintf("Add documentation for %s() in your docs", name),
			})
		}
	}

	for _, name := range classOrder {
		cls := classes[name]
		if ShouldIgnore(name, opts.IgnorePatterns) {
			continue
		}
		if item := findDocItem(name, documented); item != nil {
			matched[item.Name] = true
			checkClassDrift(cls, item, result)
			continue
		}
		if cls.Docstring == "" && opts.RequireDocstrings {
			result.add(DriftIssue{
				Type:         UndocumentedClass,
				Severity:     SeverityWarning,
				Message:      fmt.Sprintf("Class %q is not documented", name),
				CodeLocation: cls.Filepath,
				CodeLine:     cls.LineNumber,
				ItemName:     name,
				Suggestion:   fmt.Sprintf("Add documentation for class %s", name),
			})
		}
	}

	for _, name := range documented.order {
		if matched[name] {
			continue
		}
		if _, inCode := functions.byName[name]; inCode {
			continue
		}
		if _, inCode := classes[name]; inCode {
			continue
		}
		item := documented.byName[name]
		if isExternalReference(item) {
			continue
		}
		result.add(DriftIssue{
			Type:        MissingFromCode,
			Severity:    SeverityCritical,
			Message:     fmt.Sprintf("Documented item %q not found in code", name),
			DocLocation: item.Filepath,
			DocLine:     item.LineNumber,
			ItemName:    name,
			Suggestion:  fmt.Sprintf("Remove or update documentation for %q - it may have been renamed or deleted", name),
		})
	}

	result.Stats = map[string]int{
		"total_functions":  len(functions.qualified),
		"total_classes":    len(classOrder),
		"total_documented": len(documented.order),
		"matched":          len(matched),
		"undocumented":     len(functions.qualified) + len(classOrder) - len(matched),
	}

	for severity, count := range map[Severity]int{
		SeverityCritical: len(result.FilterBySeverity(SeverityCritical)),
		SeverityWarning:  len(result.FilterBySeverity(SeverityWarning)),
		SeverityInfo:     len(result.FilterBySeverity(SeverityInfo)),
	} {
		observability.DriftIssues.WithLabelValues(severity.String()).Set(float64(count))
	}

	return result
}

// findDocItem resolves a code name against the doc index: exact match,
// unqualified suffix for dotted names, then a case-insensitive scan.
// The first successful step wins. The case-insensitive step picks the
// lexicographically smallest doc name so the result does not depend on
// iteration order.
func findDocItem(name string, documented *docIndex) *docs.DocumentedItem {
	if item, ok := documented.byName[name]; ok {
		return item
	}

	if idx := strings.LastIndex(name, "."); idx >= 0 {
		if item, ok := documented.byName[name[idx+1:]]; ok {
			return item
		}
	}

	lower := strings.ToLower(name)
	best := ""
	for docName := range documented.byName {
		if strings.ToLower(docName) == lower && (best == "" || docName < best) {
			best = docName
		}
	}
	if best != "" {
		return documented.byName[best]
	}
	return nil
}

// ShouldIgnore reports whether any pattern matches the name: trailing
// "*" is a prefix rule, leading "*" a suffix rule, anything else exact
// equality.
func ShouldIgnore(name string, patterns []string) bool {
	for _, pattern := range patterns {
		switch {
		case strings.HasSuffix(pattern, "*"):
			if strings.HasPrefix(name, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		case strings.HasPrefix(pattern, "*"):
			if strings.HasSuffix(name, strings.TrimPrefix(pattern, "*")) {
				return true
			}
		case name == pattern:
			return true
		}
	}
	return false
}

// undocumentedSeverity escalates by exposure: private names are INFO,
// public names WARNING, and anything decorated as an api/public surface
// CRITICAL.
func undocumentedSeverity(fn *extract.FunctionSignature) Severity {
	if strings.HasPrefix(fn.Name, "_") {
		return SeverityInfo
	}
	for _, decorator := range fn.Decorators {
		lower := strings.ToLower(decorator)
		if strings.Contains(lower, "api") || strings.Contains(lower, "public") {
			return SeverityCritical
		}
	}
	return SeverityWarning
}

func checkFunctionDrift(fn *extract.FunctionSignature, item *docs.DocumentedItem, opts Options, result *ComparisonResult) {
	if opts.CheckParameters && len(item.Parameters) > 0 {
		docParams := make(map[string]bool, len(item.Parameters))
		for _, p := range item.Parameters {
			docParams[p.Name] = true
		}
		codeParams := make(map[string]bool, len(fn.Parameters))
		for _, p := range fn.Parameters {
			if p.Name != "self" {
				codeParams[p.Name] = true
			}
		}

		missingInDocs := setDifference(codeParams, docParams)
		if len(missingInDocs) > 0 {
			result.add(DriftIssue{
				Type:         ParameterMismatch,
				Severity:     SeverityWarning,
				Message:      fmt.Sprintf("Parameters %v not documented for %q", missingInDocs, fn.FullName()),
				CodeLocation: fn.Filepath,
				CodeLine:     fn.LineNumber,
				DocLocation:  item.Filepath,
				DocLine:      item.LineNumber,
				ItemName:     fn.FullName(),
				Details:      map[string]any{"missing_params": missingInDocs},
				Suggestion:   fmt.Sprintf("Add documentation for parameters: %s", strings.Join(missingInDocs, ", ")),
			})
		}

		// Documentation naming a parameter the code no longer has is
		// the stronger signal: someone removed it and nobody noticed.
		extraInDocs := setDifference(docParams, codeParams)
		if len(extraInDocs) > 0 {
			result.add(DriftIssue{
				Type:         ParameterMismatch,
				Severity:     SeverityCritical,
				Message:      fmt.Sprintf("Documented parameters %v don't exist in %q", extraInDocs, fn.FullName()),
				CodeLocation: fn.Filepath,
				CodeLine:     fn.LineNumber,
				DocLocation:  item.Filepath,
				DocLine:      item.LineNumber,
				ItemName:     fn.FullName(),
				Details:      map[string]any{"extra_params": extraInDocs},
				Suggestion:   fmt.Sprintf("Remove documentation for deleted parameters: %s", strings.Join(extraInDocs, ", ")),
			})
		}
	}

	if item.Deprecated && !hasDeprecationDecorator(fn.Decorators) {
		result.add(DriftIssue{
			Type:         MissingDeprecationNotice,
			Severity:     SeverityInfo,
			Message:      fmt.Sprintf("%q is marked deprecated in docs but not in code", fn.FullName()),
			CodeLocation: fn.Filepath,
			CodeLine:     fn.LineNumber,
			ItemName:     fn.FullName(),
			Suggestion:   "Add a deprecation decorator to the function",
		})
	}
}

func checkClassDrift(cls *extract.ClassSignature, item *docs.DocumentedItem, result *ComparisonResult) {
	if item.Deprecated && !hasDeprecationDecorator(cls.Decorators) {
		result.add(DriftIssue{
			Type:         MissingDeprecationNotice,
			Severity:     SeverityInfo,
			Message:      fmt.Sprintf("Class %q is marked deprecated in docs but not in code", cls.Name),
			CodeLocation: cls.Filepath,
			CodeLine:     cls.LineNumber,
			ItemName:     cls.Name,
		})
	}
}

func hasDeprecationDecorator(decorators []string) bool {
	for _, decorator := range decorators {
		if strings.Contains(strings.ToLower(decorator), "deprecat") {
			return true
		}
	}
	return false
}

// isExternalReference: API endpoints and items whose description hints
// at an external dependency are not expected in the scanned code.
func isExternalReference(item *docs.DocumentedItem) bool {
	if item.DocType == docs.DocEndpoint {
		return true
	}
	description := strings.ToLower(item.Description)
	for _, hint := range externalHints {
		if strings.Contains(description, hint) {
			return true
		}
	}
	return false
}

func setDifference(a, b map[string]bool) []string {
	var out []string
	for name := range a {
		if !b[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
