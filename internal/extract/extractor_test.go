// # internal/extract/extractor_test.go
package extract

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLanguageForPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"src/app.py", "python"},
		{"src/App.PY", "python"},
		{"src/index.js", "javascript"},
		{"src/hook.jsx", "javascript"},
		{"src/mod.mjs", "javascript"},
		{"src/api.ts", "typescript"},
		{"src/view.tsx", "typescript"},
		{"src/main.go", ""},
		{"README.md", ""},
	}
	for _, tc := range cases {
		if got := languageForPath(tc.path); got != tc.want {
			t.Errorf("languageForPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestExtractDirectory(t *testing.T) {
	root := t.TempDir()

	write := func(rel, content string) {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	write("service.py", "def handler(event):\n    \"\"\"Handle.\"\"\"\n    pass\n")
	write("web/app.js", "export function render(view) {\n}\n")
	write("node_modules/lib/index.js", "export function hidden() {\n}\n")
	write("notes.txt", "not source code")

	e := NewExtractor(NewGrammarLoader())
	results, err := e.ExtractDirectory(root, []string{"node_modules"})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Sorted by path, so service.py comes after web/app.js only if the
	// temp dir ordering says so; check by filename instead.
	byBase := map[string]*ParseResult{}
	for _, r := range results {
		byBase[filepath.Base(r.Filepath)] = r
	}
	if byBase["service.py"] == nil || byBase["app.js"] == nil {
		t.Fatalf("missing expected results: %v", byBase)
	}
	if len(byBase["service.py"].Functions) != 1 || byBase["service.py"].Functions[0].Name != "handler" {
		t.Errorf("unexpected python result %+v", byBase["service.py"])
	}
	if len(byBase["app.js"].Functions) != 1 || byBase["app.js"].Functions[0].Name != "render" {
		t.Errorf("unexpected js result %+v", byBase["app.js"])
	}
}

func TestExtractDirectorySortedOutput(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.py", "a.py", "c.py"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("def f():\n    pass\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	e := NewExtractor(NewGrammarLoader())
	results, err := e.ExtractDirectory(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Filepath >= results[i].Filepath {
			t.Errorf("results not sorted: %s before %s", results[i-1].Filepath, results[i].Filepath)
		}
	}
}

func TestExtractDirectoryIdempotent(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	write("users.py", `class UserService:
    """Service."""

    def create(self, name):
        """Create a user."""
        pass

def get_user(user_id, verbose=False):
    return None
`)
	write("web/app.ts", "export async function render(view: View, depth = 2) {\n}\n")

	e := NewExtractor(NewGrammarLoader())
	first, err := e.ExtractDirectory(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.ExtractDirectory(root, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExtractFileUnsupported(t *testing.T) {
	e := NewExtractor(NewGrammarLoader())
	if result := e.ExtractFile("config.yaml"); result != nil {
		t.Errorf("expected nil for unsupported extension, got %+v", result)
	}
}

func TestExtractFileReadError(t *testing.T) {
	e := NewExtractor(NewGrammarLoader())
	result := e.ExtractFile(filepath.Join(t.TempDir(), "missing.py"))
	if result == nil {
		t.Fatal("expected a result with errors for an unreadable file")
	}
	if len(result.Errors) == 0 {
		t.Error("expected a read error entry")
	}
	if len(result.Functions) != 0 {
		t.Error("expected empty function list")
	}
}
