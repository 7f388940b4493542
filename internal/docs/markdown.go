// # internal/docs/markdown.go
package docs

import (
	"regexp"
	"strings"
)

// MarkdownExtractor recovers documented items from Markdown files in
// three independent passes: function headings, API-endpoint headings,
// and fenced code blocks.
type MarkdownExtractor struct{}

func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{}
}

var (
	// A level 1-4 heading whose text is `name(args)`, backticks optional.
	funcHeadingPattern = regexp.MustCompile("(?m)^#{1,4}\\s+`?(\\w+(?:\\.\\w+)?)\\s*\\(([^)]*)\\)`?")

	// A heading whose text is an HTTP verb followed by a path.
	apiHeadingPattern = regexp.MustCompile("(?m)^#{1,4}\\s+(GET|POST|PUT|DELETE|PATCH)\\s+`?([/\\w{}:-]+)`?")

	sectionPattern   = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	codeBlockPattern = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")
	paramBulletRe    = regexp.MustCompile("[-*]\\s+`?(\\w+)`?\\s*(?:\\(([^)]+)\\))?\\s*[-:]\\s*(.+)")
	nextHeadingRe    = regexp.MustCompile(`\n#{1,6}\s`)

	deprecatedMarker = regexp.MustCompile(`(?i)\*?\*?deprecated\*?\*?`)
	sinceMarker      = regexp.MustCompile(`@since\s+v?([\d.]+)`)

	pyDefPattern   = regexp.MustCompile(`def\s+(\w+)\s*\(([^)]*)\)`)
	jsFuncPattern  = regexp.MustCompile(`(?:function\s+(\w+)|const\s+(\w+)\s*=)`)
	pyFenceLangs   = map[string]bool{"python": true, "py": true}
	jsFenceLangs   = map[string]bool{"javascript": true, "js": true, "typescript": true, "ts": true}
)

// markerWindowSz is how far past a heading or directive the deprecation
// and version markers are searched for.
const markerWindowSz = 500

func (e *MarkdownExtractor) Extract(path string, source []byte) *DocParseResult {
	result := &DocParseResult{Filepath: path, Format: "markdown"}
	content := string(source)
	lines := strings.Split(content, "\n")

	for _, m := range sectionPattern.FindAllStringSubmatch(content, -1) {
		result.Sections = append(result.Sections, strings.TrimSpace(m[2]))
	}

	for _, m := range funcHeadingPattern.FindAllStringSubmatchIndex(content, -1) {
		line := strings.Count(content[:m[0]], "\n") + 1
		window := markerWindow(content, m[0])

		item := DocumentedItem{
			Name:         content[m[2]:m[3]],
			Filepath:     path,
			LineNumber:   line,
			DocType:      DocFunction,
			Description:  followingDescription(lines, line),
			Parameters:   paramsAfter(content, m[1]),
			Deprecated:   deprecatedMarker.MatchString(window),
			SinceVersion: sinceVersion(window),
		}
		result.Items = append(result.Items, item)
	}

	for _, m := range apiHeadingPattern.FindAllStringSubmatchIndex(content, -1) {
		line := strings.Count(content[:m[0]], "\n") + 1
		verb := content[m[2]:m[3]]
		endpoint := content[m[4]:m[5]]

		result.Items = append(result.Items, DocumentedItem{
			Name:        verb + " " + endpoint,
			Filepath:    path,
			LineNumber:  line,
			DocType:     DocEndpoint,
			Description: followingDescription(lines, line),
		})
	}

	for _, m := range codeBlockPattern.FindAllStringSubmatchIndex(content, -1) {
		lang := ""
		if m[2] >= 0 {
			lang = content[m[2]:m[3]]
		}
		code := content[m[4]:m[5]]
		line := strings.Count(content[:m[0]], "\n") + 1
		e.extractFromFence(code, lang, line, path, result)
	}

	return result
}

// followingDescription collects the run of non-empty, non-fence lines
// after a heading: at most 10 lines, stopping at the next heading, or
// at a blank line once something has been captured.
func followingDescription(lines []string, headingLine int) string {
	var collected []string
	for i := headingLine; i < headingLine+10 && i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "#") {
			break
		}
		if line != "" && !strings.HasPrefix(line, "```") {
			collected = append(collected, line)
		} else if len(collected) > 0 {
			break
		}
	}
	return strings.Join(collected, " ")
}

// paramsAfter scans the bullet list between the heading and the next
// heading (or end of document) for parameter entries.
func paramsAfter(content string, start int) []ParamRef {
	section := content[start:]
	if loc := nextHeadingRe.FindStringIndex(section); loc != nil {
		section = section[:loc[0]]
	}

	var params []ParamRef
	for _, m := range paramBulletRe.FindAllStringSubmatch(section, -1) {
		params = append(params, ParamRef{
			Name:        m[1],
			Type:        m[2],
			Description: strings.TrimSpace(m[3]),
		})
	}
	return params
}

// extractFromFence adds lightly-documented items for function-like
// constructs inside recognized code fences. Items extracted from prose
// always win: a fence never overrides an existing name.
func (e *MarkdownExtractor) extractFromFence(code, lang string, line int, path string, result *DocParseResult) {
	var names []string
	switch {
	case pyFenceLangs[lang]:
		for _, m := range pyDefPattern.FindAllStringSubmatch(code, -1) {
			names = append(names, m[1])
		}
	case jsFenceLangs[lang]:
		for _, m := range jsFuncPattern.FindAllStringSubmatch(code, -1) {
			if m[1] != "" {
				names = append(names, m[1])
			} else if m[2] != "" {
				names = append(names, m[2])
			}
		}
	default:
		return
	}

	for _, name := range names {
		if hasItem(result, name) {
			continue
		}
		result.Items = append(result.Items, DocumentedItem{
			Name:        name,
			Filepath:    path,
			LineNumber:  line,
			DocType:     DocFunction,
			Description: "Documented in code example",
		})
	}
}

func hasItem(result *DocParseResult, name string) bool {
	for _, item := range result.Items {
		if item.Name == name {
			return true
		}
	}
	return false
}

func markerWindow(content string, start int) string {
	end := start + markerWindowSz
	if end > len(content) {
		end = len(content)
	}
	return content[start:end]
}

func sinceVersion(window string) string {
	if m := sinceMarker.FindStringSubmatch(window); m != nil {
		return m[1]
	}
	return ""
}
