// # internal/extract/extractor.go
package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"driftwatch/internal/observability"
)

// Extractor dispatches files to a per-language strategy by extension.
type Extractor struct {
	python  *PythonExtractor
	pattern *PatternExtractor
}

func NewExtractor(loader *GrammarLoader) *Extractor {
	return &Extractor{
		python:  NewPythonExtractor(loader),
		pattern: NewPatternExtractor(),
	}
}

// languageForPath maps a file extension to a language tag, or "" for
// unsupported files (which directory extraction silently skips).
func languageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return "python"
	case ".js", ".jsx", ".mjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	default:
		return ""
	}
}

// ExtractFile parses a single file. Unsupported extensions return
// (nil, nil). Read failures degrade to an Errors entry on the result so
// the file still shows up in the aggregate.
func (e *Extractor) ExtractFile(path string) *ParseResult {
	language := languageForPath(path)
	if language == "" {
		return nil
	}

	start := time.Now()
	defer func() {
		observability.ExtractionDuration.WithLabelValues(language).Observe(time.Since(start).Seconds())
	}()

	source, err := os.ReadFile(path)
	if err != nil {
		return &ParseResult{
			Filepath: path,
			Language: language,
			Errors:   []string{fmt.Sprintf("read error: %v", err)},
		}
	}

	observability.FilesExtracted.WithLabelValues(language).Inc()

	if language == "python" {
		return e.python.Extract(path, source)
	}
	return e.pattern.Extract(path, language, source)
}

// ExtractDirectory walks root recursively and extracts every supported
// file whose full path contains none of the exclude patterns (plain
// substring containment, not glob). Files are parsed on a bounded
// worker pool; results never interact, so merge order is irrelevant and
// the output is sorted by path for stable downstream consumption.
func (e *Extractor) ExtractDirectory(root string, excludePatterns []string) ([]*ParseResult, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if pathExcluded(path, excludePatterns) {
			return nil
		}
		if languageForPath(path) != "" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var results []*ParseResult

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

func pathExcluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}
