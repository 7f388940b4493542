// # internal/docs/rst.go
package docs

import (
	"regexp"
	"strings"
)

// RSTExtractor recovers documented items from reStructuredText
// directive blocks.
type RSTExtractor struct{}

func NewRSTExtractor() *RSTExtractor {
	return &RSTExtractor{}
}

var (
	directivePattern = regexp.MustCompile(`(?m)^\.\.\s+(function|class|method|py:function|py:class|py:method)::\s+(.+)$`)
	rstDeprecated    = regexp.MustCompile(`(?m)^\.\.\s+deprecated::`)
	rstVersionAdded  = regexp.MustCompile(`(?m)^\.\.\s+versionadded::\s+(.+)$`)

	// Title line followed by an underline of = - ~ ^ at least as long
	// as the title.
	rstSectionPattern = regexp.MustCompile(`(?m)^(.+)\n([=\-~^]+)$`)

	leadingIdentifier = regexp.MustCompile(`^(\w+(?:\.\w+)?)`)
)

func (e *RSTExtractor) Extract(path string, source []byte) *DocParseResult {
	result := &DocParseResult{Filepath: path, Format: "rst"}
	content := string(source)
	lines := strings.Split(content, "\n")

	for _, m := range rstSectionPattern.FindAllStringSubmatch(content, -1) {
		title := strings.TrimSpace(m[1])
		if len(m[2]) >= len(title) {
			result.Sections = append(result.Sections, title)
		}
	}

	for _, m := range directivePattern.FindAllStringSubmatchIndex(content, -1) {
		line := strings.Count(content[:m[0]], "\n") + 1
		directive := strings.TrimPrefix(content[m[2]:m[3]], "py:")
		signature := strings.TrimSpace(content[m[4]:m[5]])

		name := signature
		if id := leadingIdentifier.FindString(signature); id != "" {
			name = id
		}

		window := markerWindow(content, m[0])
		since := ""
		if vm := rstVersionAdded.FindStringSubmatch(window); vm != nil {
			since = strings.TrimSpace(vm[1])
		}

		result.Items = append(result.Items, DocumentedItem{
			Name:         name,
			Filepath:     path,
			LineNumber:   line,
			DocType:      DocType(directive),
			Description:  indentedBlock(lines, line),
			Deprecated:   rstDeprecated.MatchString(window),
			SinceVersion: since,
		})
	}

	return result
}

// indentedBlock collects the indented description lines after a
// directive: up to 20 lines, blank lines inside the block are allowed,
// a dedented non-blank line ends it. Field lines (":param x:") are not
// description text.
func indentedBlock(lines []string, directiveLine int) string {
	var collected []string
	for i := directiveLine; i < directiveLine+20 && i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "   ") || strings.HasPrefix(line, "\t") {
			text := strings.TrimSpace(line)
			if text != "" && !strings.HasPrefix(text, ":") {
				collected = append(collected, text)
			}
		} else if len(collected) > 0 && strings.TrimSpace(line) == "" {
			continue
		} else if len(collected) > 0 {
			break
		}
	}
	return strings.Join(collected, " ")
}
