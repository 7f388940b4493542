// # internal/extract/pattern.go
package extract

import (
	"regexp"
	"strings"
)

// PatternExtractor is the best-effort strategy for bracket-family
// languages (JavaScript, TypeScript). It runs ordered regex passes over
// the raw text instead of a grammar; results are deduplicated by
// (name, line) so a later pass never re-adds an earlier find.
type PatternExtractor struct{}

func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// functionPatterns are tried in order: named declarations, arrow
// assignments, then method shorthand (indentation-sensitive).
var functionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(([^)]*)\)(?:\s*:\s*([^{\n]+))?`),
	regexp.MustCompile(`(?m)^(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?\(([^)]*)\)(?:\s*:\s*([^=\n]+))?\s*=>`),
	regexp.MustCompile(`(?m)^\s+(?:async\s+)?(\w+)\s*\(([^)]*)\)(?:\s*:\s*([^{\n]+))?\s*\{`),
}

var (
	classPattern  = regexp.MustCompile(`(?m)^(?:export\s+)?class\s+(\w+)(?:\s+extends\s+(\w+))?`)
	blockComment  = regexp.MustCompile(`(?s)/\*\*\s*(.*?)\s*\*/`)
	exportPattern = regexp.MustCompile(`export\s+(?:default\s+)?(?:const|let|var|function|class)\s+(\w+)`)
)

// asyncWindowLen bounds the lookback used to spot an "async" keyword
// directly before a pattern match.
const asyncWindowLen = 20

func (e *PatternExtractor) Extract(path, language string, source []byte) *ParseResult {
	result := &ParseResult{Filepath: path, Language: language}
	text := string(source)

	// Map each block comment to the line it ends on, before any
	// signature scan; declarations look one line back for a docstring.
	comments := make(map[int]string)
	for _, m := range blockComment.FindAllStringSubmatchIndex(text, -1) {
		endLine := strings.Count(text[:m[1]], "\n") + 1
		comments[endLine] = strings.TrimSpace(text[m[2]:m[3]])
	}

	type key struct {
		name string
		line int
	}
	seen := make(map[key]bool)

	for _, pattern := range functionPatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[2]:m[3]]
			line := strings.Count(text[:m[0]], "\n") + 1
			if seen[key{name, line}] {
				continue
			}
			seen[key{name, line}] = true

			fn := FunctionSignature{
				Name:       name,
				Filepath:   path,
				LineNumber: line,
				Parameters: splitParams(text[m[4]:m[5]]),
			}
			if len(m) > 7 && m[6] >= 0 {
				fn.ReturnType = strings.TrimSpace(text[m[6]:m[7]])
			}
			if doc, ok := comments[line-1]; ok {
				fn.Docstring = doc
			} else if doc, ok := comments[line]; ok {
				fn.Docstring = doc
			}

			windowStart := m[0] - asyncWindowLen
			if windowStart < 0 {
				windowStart = 0
			}
			fn.IsAsync = strings.Contains(text[windowStart:m[0]], "async")

			result.Functions = append(result.Functions, fn)
		}
	}

	for _, m := range classPattern.FindAllStringSubmatchIndex(text, -1) {
		line := strings.Count(text[:m[0]], "\n") + 1
		cls := ClassSignature{
			Name:       text[m[2]:m[3]],
			Filepath:   path,
			LineNumber: line,
		}
		if m[4] >= 0 {
			cls.Bases = []string{text[m[4]:m[5]]}
		}
		if doc, ok := comments[line-1]; ok {
			cls.Docstring = doc
		}
		result.Classes = append(result.Classes, cls)
	}

	for _, m := range exportPattern.FindAllStringSubmatch(text, -1) {
		result.Exports = append(result.Exports, m[1])
	}

	return result
}

// splitParams breaks a raw parameter list on top-level commas only,
// tracking bracket depth so generics and default literals survive, then
// splits each token into name, ": type" and "= default" parts.
func splitParams(raw string) []Parameter {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var tokens []string
	depth := 0
	var current strings.Builder
	for _, ch := range raw {
		switch ch {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case ',':
			if depth == 0 {
				tokens = append(tokens, strings.TrimSpace(current.String()))
				current.Reset()
				continue
			}
		}
		current.WriteRune(ch)
	}
	if current.Len() > 0 {
		tokens = append(tokens, strings.TrimSpace(current.String()))
	}

	var params []Parameter
	for _, token := range tokens {
		if token == "" {
			continue
		}
		var p Parameter
		rest := token
		if idx := topLevelIndex(rest, '='); idx >= 0 {
			p.Default = strings.TrimSpace(rest[idx+1:])
			rest = strings.TrimSpace(rest[:idx])
		}
		if idx := topLevelIndex(rest, ':'); idx >= 0 {
			p.TypeHint = strings.TrimSpace(rest[idx+1:])
			rest = strings.TrimSpace(rest[:idx])
		}
		p.Name = rest
		params = append(params, p)
	}
	return params
}

// topLevelIndex finds the first occurrence of sep outside any brackets.
func topLevelIndex(s string, sep rune) int {
	depth := 0
	for i, ch := range s {
		switch ch {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		default:
			if ch == sep && depth == 0 {
				return i
			}
		}
	}
	return -1
}
