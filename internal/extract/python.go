// # internal/extract/python.go
package extract

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// PythonExtractor is the structural strategy: it parses the whole file
// with the tree-sitter Python grammar and walks the resulting tree.
type PythonExtractor struct {
	loader *GrammarLoader
}

func NewPythonExtractor(loader *GrammarLoader) *PythonExtractor {
	return &PythonExtractor{loader: loader}
}

func (e *PythonExtractor) Extract(path string, source []byte) *ParseResult {
	result := &ParseResult{Filepath: path, Language: "python"}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(e.loader.Language("python")); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("grammar error: %v", err))
		return result
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		result.Errors = append(result.Errors, "parse failed")
		return result
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		result.Errors = append(result.Errors, fmt.Sprintf("syntax error in %s", path))
		return result
	}

	e.walk(root, source, result)
	return result
}

// walk visits every node with an explicit worklist. Functions are
// collected only when they are direct children of the module node;
// classes are collected at any nesting depth.
func (e *PythonExtractor) walk(root *sitter.Node, source []byte, result *ParseResult) {
	type workItem struct {
		node     *sitter.Node
		topLevel bool
	}

	stack := []workItem{{node: root, topLevel: false}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := item.node

		target := node
		var decorators []string
		if node.Kind() == "decorated_definition" {
			target = node.ChildByFieldName("definition")
			decorators = e.collectDecorators(node, source)
			if target == nil {
				continue
			}
		}

		switch target.Kind() {
		case "function_definition":
			if item.topLevel {
				fn := e.parseFunction(target, source, result.Filepath, "")
				fn.Decorators = decorators
				result.Functions = append(result.Functions, fn)
			}
			// Nested functions are intentionally not collected, and
			// classes inside functions still are: keep walking the body.
			if body := target.ChildByFieldName("body"); body != nil {
				stack = append(stack, workItem{node: body})
			}
			continue
		case "class_definition":
			cls := e.parseClass(target, source, result.Filepath)
			cls.Decorators = decorators
			result.Classes = append(result.Classes, cls)
			if body := target.ChildByFieldName("body"); body != nil {
				stack = append(stack, workItem{node: body})
			}
			continue
		}

		atRoot := node.Kind() == "module"
		for i := node.ChildCount(); i > 0; i-- {
			stack = append(stack, workItem{node: node.Child(i - 1), topLevel: atRoot})
		}
	}
}

func (e *PythonExtractor) parseFunction(node *sitter.Node, source []byte, path, className string) FunctionSignature {
	fn := FunctionSignature{
		Name:       text(node.ChildByFieldName("name"), source),
		Filepath:   path,
		LineNumber: int(node.StartPosition().Row) + 1,
		IsMethod:   className != "",
		ClassName:  className,
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == "async" {
			fn.IsAsync = true
			break
		}
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Parameters = e.parseParameters(params, source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = text(ret, source)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		fn.Docstring = leadingDocstring(body, source)
	}

	return fn
}

func (e *PythonExtractor) parseParameters(params *sitter.Node, source []byte) []Parameter {
	var out []Parameter
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "identifier":
			out = append(out, Parameter{Name: text(child, source)})
		case "typed_parameter":
			p := Parameter{TypeHint: text(child.ChildByFieldName("type"), source)}
			for j := uint(0); j < child.ChildCount(); j++ {
				if sub := child.Child(j); sub.Kind() == "identifier" {
					p.Name = text(sub, source)
					break
				}
			}
			out = append(out, p)
		case "default_parameter":
			out = append(out, Parameter{
				Name:    text(child.ChildByFieldName("name"), source),
				Default: text(child.ChildByFieldName("value"), source),
			})
		case "typed_default_parameter":
			out = append(out, Parameter{
				Name:     text(child.ChildByFieldName("name"), source),
				TypeHint: text(child.ChildByFieldName("type"), source),
				Default:  text(child.ChildByFieldName("value"), source),
			})
		}
	}
	return out
}

func (e *PythonExtractor) parseClass(node *sitter.Node, source []byte, path string) ClassSignature {
	cls := ClassSignature{
		Name:       text(node.ChildByFieldName("name"), source),
		Filepath:   path,
		LineNumber: int(node.StartPosition().Row) + 1,
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := uint(0); i < supers.NamedChildCount(); i++ {
			base := supers.NamedChild(i)
			if base.Kind() == "keyword_argument" {
				continue // metaclass= and friends are not bases
			}
			cls.Bases = append(cls.Bases, text(base, source))
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	cls.Docstring = leadingDocstring(body, source)

	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		method := child
		var decorators []string
		if child.Kind() == "decorated_definition" {
			method = child.ChildByFieldName("definition")
			decorators = e.collectDecorators(child, source)
			if method == nil {
				continue
			}
		}
		if method.Kind() != "function_definition" {
			continue
		}
		fn := e.parseFunction(method, source, path, cls.Name)
		fn.Decorators = decorators
		cls.Methods = append(cls.Methods, fn)
	}

	return cls
}

func (e *PythonExtractor) collectDecorators(node *sitter.Node, source []byte) []string {
	var out []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "decorator" {
			out = append(out, strings.TrimPrefix(text(child, source), "@"))
		}
	}
	return out
}

// leadingDocstring returns the string literal when the first statement
// of a block is a bare string expression, else "". No heuristics beyond
// that: comments and later strings never count.
func leadingDocstring(body *sitter.Node, source []byte) string {
	if body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first.Kind() != "expression_statement" || first.ChildCount() == 0 {
		return ""
	}
	str := first.Child(0)
	if str.Kind() != "string" {
		return ""
	}
	for i := uint(0); i < str.ChildCount(); i++ {
		if sub := str.Child(i); sub.Kind() == "string_content" {
			return strings.TrimSpace(text(sub, source))
		}
	}
	return ""
}

func text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}
