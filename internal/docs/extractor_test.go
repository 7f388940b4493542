// # internal/docs/extractor_test.go
package docs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFormatForPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"docs/api.md", "markdown"},
		{"docs/API.MD", "markdown"},
		{"docs/guide.markdown", "markdown"},
		{"docs/reference.rst", "rst"},
		{"docs/reference.txt", ""},
		{"src/app.py", ""},
	}
	for _, tc := range cases {
		if got := formatForPath(tc.path); got != tc.want {
			t.Errorf("formatForPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestDocsExtractDirectory(t *testing.T) {
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

	write("api.md", "## get_user(id)\n\nFetch a user.\n")
	write("ref/core.rst", ".. function:: save(record)\n\n   Persist a record.\n")
	write("drafts/wip.md", "## draft_func(x)\n")
	write("README.txt", "plain text")

	e := NewExtractor()
	results, err := e.ExtractDirectory(root, []string{"drafts"})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	byBase := map[string]*DocParseResult{}
	for _, r := range results {
		byBase[filepath.Base(r.Filepath)] = r
	}
	md := byBase["api.md"]
	if md == nil || len(md.Items) != 1 || md.Items[0].Name != "get_user" {
		t.Errorf("unexpected markdown result %+v", md)
	}
	rst := byBase["core.rst"]
	if rst == nil || len(rst.Items) != 1 || rst.Items[0].Name != "save" {
		t.Errorf("unexpected rst result %+v", rst)
	}
}

func TestDocsExtractDirectoryIdempotent(t *testing.T) {
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

	write("api.md", `# API

## get_user(user_id)

Fetch a user by id.

- user_id (int): The user identifier.

## GET /users/{id}

Return a single user.
`)
	write("ref/core.rst", `.. py:method:: UserService.create(name)

   Create a user.

.. deprecated:: 2.0
`)

	e := NewExtractor()
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

func TestDocsExtractFileReadError(t *testing.T) {
	e := NewExtractor()
	result := e.ExtractFile(filepath.Join(t.TempDir(), "missing.md"))
	if result == nil {
		t.Fatal("expected a result with errors")
	}
	if len(result.Errors) == 0 {
		t.Error("expected a read error entry")
	}
}
