// # internal/extract/loader.go
package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// GrammarLoader owns the compiled tree-sitter grammars used by the
// structural strategy. Only Python ships a grammar; the bracket-family
// languages are handled by the regex strategy and need none.
type GrammarLoader struct {
	languages map[string]*sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
	}

	gl.languages["python"] = sitter.NewLanguage(tree_sitter_python.Language())

	return gl
}

func (gl *GrammarLoader) Language(name string) *sitter.Language {
	return gl.languages[name]
}
