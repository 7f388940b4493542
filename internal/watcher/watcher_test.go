// # internal/watcher/watcher_test.go
package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, []string{"node_modules", "*.generated.md"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.Watch([]string{tmpDir})
	if err != nil {
		t.Fatal(err)
	}

	// Create a source file
	testFile := filepath.Join(tmpDir, "service.py")
	os.WriteFile(testFile, []byte("def get_user(): pass"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Irrelevant extensions and excluded globs stay quiet
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("not watched"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "api.generated.md"), []byte("# generated"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			if base == "notes.txt" || base == "api.generated.md" {
				t.Errorf("Irrelevant file %s triggered event", base)
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "newdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "nested.md")
	if err := os.WriteFile(subFile, []byte("# Nested docs"), 0644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
					break
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event in newly created directory")
		}
	}
}

func TestWatcherRelevant(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, []string{"vendor"}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	cases := []struct {
		path string
		want bool
	}{
		{"src/app.py", true},
		{"src/app.ts", true},
		{"docs/api.md", true},
		{"docs/api.rst", true},
		{"src/app.go", false},
		{"README", false},
		{"vendor", false},
	}
	for _, tc := range cases {
		if got := w.relevant(tc.path); got != tc.want {
			t.Errorf("relevant(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
