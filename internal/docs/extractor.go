// # internal/docs/extractor.go
package docs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"driftwatch/internal/observability"
)

// Extractor dispatches documentation files to a per-format strategy by
// extension. The contract mirrors the code extractor: unsupported
// files are skipped, read failures degrade to Errors entries.
type Extractor struct {
	markdown *MarkdownExtractor
	rst      *RSTExtractor
}

func NewExtractor() *Extractor {
	return &Extractor{
		markdown: NewMarkdownExtractor(),
		rst:      NewRSTExtractor(),
	}
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown"
	case ".rst":
		return "rst"
	default:
		return ""
	}
}

func (e *Extractor) ExtractFile(path string) *DocParseResult {
	format := formatForPath(path)
	if format == "" {
		return nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return &DocParseResult{
			Filepath: path,
			Format:   format,
			Errors:   []string{fmt.Sprintf("read error: %v", err)},
		}
	}

	observability.DocFilesExtracted.WithLabelValues(format).Inc()

	if format == "markdown" {
		return e.markdown.Extract(path, source)
	}
	return e.rst.Extract(path, source)
}

// ExtractDirectory walks root recursively with the same
// substring-containment exclude semantics as code extraction.
func (e *Extractor) ExtractDirectory(root string, excludePatterns []string) ([]*DocParseResult, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, pattern := range excludePatterns {
			if pattern != "" && strings.Contains(path, pattern) {
				return nil
			}
		}
		if formatForPath(path) != "" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var results []*DocParseResult

	var wg sync.WaitGroup
	workers := runtime.NumCPU()
	if workers > len(paths) {
		workers = len(paths)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				result := e.ExtractFile(path)
				if result == nil {
					continue
				}
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}
		}()
	}
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Filepath < results[j].Filepath })
	return results, nil
}
