// # internal/docs/types.go
package docs

// DocType classifies what a documented item describes.
type DocType string

const (
	DocFunction DocType = "function"
	DocClass    DocType = "class"
	DocMethod   DocType = "method"
	DocEndpoint DocType = "api_endpoint"
)

// ParamRef is a parameter as described in prose documentation.
type ParamRef struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// DocumentedItem is a function, class, method or API endpoint recovered
// from a documentation file.
type DocumentedItem struct {
	Name         string     `json:"name"`
	Filepath     string     `json:"filepath"`
	LineNumber   int        `json:"line_number"`
	DocType      DocType    `json:"doc_type"`
	Description  string     `json:"description,omitempty"`
	Parameters   []ParamRef `json:"parameters,omitempty"`
	ReturnType   string     `json:"return_type,omitempty"`
	Examples     []string   `json:"examples,omitempty"`
	Deprecated   bool       `json:"deprecated"`
	SinceVersion string     `json:"since_version,omitempty"`
}

// DocParseResult is the per-file documentation extraction output.
// Sections records heading structure only; it is never matched against
// code.
type DocParseResult struct {
	Filepath string           `json:"filepath"`
	Format   string           `json:"format"`
	Items    []DocumentedItem `json:"items"`
	Sections []string         `json:"sections,omitempty"`
	Errors   []string         `json:"errors,omitempty"`
}
