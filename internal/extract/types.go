// # internal/extract/types.go
package extract

// Parameter is a single formal parameter of a function or method.
// Order within the owning signature is significant.
type Parameter struct {
	Name     string `json:"name"`
	TypeHint string `json:"type_hint,omitempty"`
	Default  string `json:"default,omitempty"`
}

// FunctionSignature describes a function or method recovered from source.
type FunctionSignature struct {
	Name       string      `json:"name"`
	Filepath   string      `json:"filepath"`
	LineNumber int         `json:"line_number"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"return_type,omitempty"`
	Docstring  string      `json:"docstring,omitempty"`
	IsAsync    bool        `json:"is_async"`
	IsMethod   bool        `json:"is_method"`
	ClassName  string      `json:"class_name,omitempty"`
	Decorators []string    `json:"decorators,omitempty"`
}

// FullName is the canonical matching key: "Class.method" for methods,
// the bare name otherwise.
func (f *FunctionSignature) FullName() string {
	if f.ClassName != "" {
		return f.ClassName + "." + f.Name
	}
	return f.Name
}

// ClassSignature describes a class definition and its methods.
type ClassSignature struct {
	Name       string              `json:"name"`
	Filepath   string              `json:"filepath"`
	LineNumber int                 `json:"line_number"`
	Bases      []string            `json:"bases,omitempty"`
	Docstring  string              `json:"docstring,omitempty"`
	Methods    []FunctionSignature `json:"methods,omitempty"`
	Decorators []string            `json:"decorators,omitempty"`
}

// ParseResult is the per-file extraction output. Functions holds only
// top-level definitions; methods live under their owning class.
// Errors records non-fatal per-file failures (unreadable file, syntax
// error) without aborting a directory walk.
type ParseResult struct {
	Filepath  string              `json:"filepath"`
	Language  string              `json:"language"`
	Functions []FunctionSignature `json:"functions"`
	Classes   []ClassSignature    `json:"classes"`
	Exports   []string            `json:"exports,omitempty"`
	Errors    []string            `json:"errors,omitempty"`
}
