package promptfmt

import (
	"fmt"

	"github.com/aymerick/raymond/ast"
	"github.com/aymerick/raymond/parser"
)

// Schema names the placeholders a template references.
type Schema struct {
	Items map[string]struct{}
}

// AnalyzeReferencedPartials parses a template body and collects every
// placeholder it references, including those inside role blocks. A syntax
// error in the template is returned as a parse error.
func AnalyzeReferencedPartials(body string) (*Schema, error) {
	program, err := parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("promptfmt: template parse: %w", err)
	}
	schema := &Schema{Items: make(map[string]struct{})}
	collectPlaceholders(program, schema)
	return schema, nil
}

// collectPlaceholders walks a program, recording the root name of each
// mustache path. Block helper names (the role markers) are not placeholders,
// but their bodies are walked.
func collectPlaceholders(program *ast.Program, schema *Schema) {
	if program == nil {
		return
	}
	for _, node := range program.Body {
		switch n := node.(type) {
		case *ast.MustacheStatement:
			if name, ok := expressionRoot(n.Expression); ok {
				schema.Items[name] = struct{}{}
			}
		case *ast.BlockStatement:
			collectPlaceholders(n.Program, schema)
			collectPlaceholders(n.Inverse, schema)
		}
	}
}

// expressionRoot returns the root identifier of a mustache expression's path,
// skipping @data references and empty paths.
func expressionRoot(expr *ast.Expression) (string, bool) {
	if expr == nil {
		return "", false
	}
	path, ok := expr.Path.(*ast.PathExpression)
	if !ok || path.Data || len(path.Parts) == 0 {
		return "", false
	}
	return path.Parts[0], true
}
