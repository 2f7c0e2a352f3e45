package analysis

import (
	"fmt"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

// JavaScriptAnalyzer derives a dependency report from JavaScript source by
// parsing it and walking the resulting syntax tree. Top-level bindings become
// exposed values, top-level function declarations become triggerable
// functions, and identifiers referenced without a binding anywhere in the
// source become depended values.
type JavaScriptAnalyzer struct{}

// NewJavaScriptAnalyzer creates the JavaScript static-analysis collaborator.
func NewJavaScriptAnalyzer() *JavaScriptAnalyzer {
	return &JavaScriptAnalyzer{}
}

// jsGlobals are ambient names provided by every script engine instance.
var jsGlobals = map[string]struct{}{
	"console": {}, "JSON": {}, "Math": {}, "Object": {}, "Array": {},
	"String": {}, "Number": {}, "Boolean": {}, "Date": {}, "RegExp": {},
	"Error": {}, "TypeError": {}, "RangeError": {}, "Promise": {},
	"parseInt": {}, "parseFloat": {}, "isNaN": {}, "isFinite": {},
	"undefined": {}, "NaN": {}, "Infinity": {}, "globalThis": {},
}

// Analyze parses the source and builds the dependency report. A syntax error
// is returned as a typed parse error.
func (a *JavaScriptAnalyzer) Analyze(source string) (*Report, error) {
	prog, err := parser.ParseFile(nil, "cell.js", source, 0)
	if err != nil {
		return nil, fmt.Errorf("javascript parse: %w", err)
	}

	report := NewReport()
	w := &jsWalker{
		bound:      make(map[string]struct{}),
		referenced: make(map[string]struct{}),
	}

	for _, stmt := range prog.Body {
		switch s := stmt.(type) {
		case *ast.VariableStatement:
			for _, b := range s.List {
				if name, ok := bindingName(b); ok {
					report.CellExposedValues[name] = struct{}{}
				}
			}
		case *ast.LexicalDeclaration:
			for _, b := range s.List {
				if name, ok := bindingName(b); ok {
					report.CellExposedValues[name] = struct{}{}
				}
			}
		case *ast.FunctionDeclaration:
			fn := s.Function
			if fn.Name != nil {
				report.TriggerableFunctions[fn.Name.Name.String()] = TriggerableFunction{
					Arguments: parameterNames(fn.ParameterList),
				}
			}
		case *ast.ExpressionStatement:
			// A bare top-level `name = expr` exposes the name as well.
			if assign, ok := s.Expression.(*ast.AssignExpression); ok {
				if ident, ok := assign.Left.(*ast.Identifier); ok {
					report.CellExposedValues[ident.Name.String()] = struct{}{}
				}
			}
		}
	}

	for _, stmt := range prog.Body {
		w.walkStatement(stmt)
	}

	for name := range w.referenced {
		if _, ok := w.bound[name]; ok {
			continue
		}
		if _, ok := jsGlobals[name]; ok {
			continue
		}
		report.CellDependedValues[name] = struct{}{}
	}
	return report, nil
}

// jsWalker accumulates bound and referenced identifier names across the whole
// tree. Binding scopes are intentionally flattened: a name bound anywhere in
// the cell never counts as an external dependency.
type jsWalker struct {
	bound      map[string]struct{}
	referenced map[string]struct{}
}

func (w *jsWalker) bind(name string) {
	w.bound[name] = struct{}{}
}

func (w *jsWalker) walkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableStatement:
		w.walkBindings(s.List)
	case *ast.LexicalDeclaration:
		w.walkBindings(s.List)
	case *ast.FunctionDeclaration:
		w.walkFunction(s.Function)
	case *ast.ExpressionStatement:
		w.walkExpression(s.Expression)
	case *ast.ReturnStatement:
		w.walkExpression(s.Argument)
	case *ast.ThrowStatement:
		w.walkExpression(s.Argument)
	case *ast.BlockStatement:
		for _, inner := range s.List {
			w.walkStatement(inner)
		}
	case *ast.IfStatement:
		w.walkExpression(s.Test)
		w.walkStatement(s.Consequent)
		if s.Alternate != nil {
			w.walkStatement(s.Alternate)
		}
	}
}

func (w *jsWalker) walkBindings(list []*ast.Binding) {
	for _, b := range list {
		if name, ok := bindingName(b); ok {
			w.bind(name)
		}
		if b.Initializer != nil {
			w.walkExpression(b.Initializer)
		}
	}
}

func (w *jsWalker) walkFunction(fn *ast.FunctionLiteral) {
	if fn.Name != nil {
		w.bind(fn.Name.Name.String())
	}
	for _, name := range parameterNames(fn.ParameterList) {
		w.bind(name)
	}
	if fn.ParameterList != nil {
		for _, b := range fn.ParameterList.List {
			if b.Initializer != nil {
				w.walkExpression(b.Initializer)
			}
		}
	}
	if fn.Body != nil {
		for _, stmt := range fn.Body.List {
			w.walkStatement(stmt)
		}
	}
}

func (w *jsWalker) walkExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case nil:
	case *ast.Identifier:
		w.referenced[e.Name.String()] = struct{}{}
	case *ast.AssignExpression:
		if ident, ok := e.Left.(*ast.Identifier); ok {
			w.bind(ident.Name.String())
		} else {
			w.walkExpression(e.Left)
		}
		w.walkExpression(e.Right)
	case *ast.BinaryExpression:
		w.walkExpression(e.Left)
		w.walkExpression(e.Right)
	case *ast.CallExpression:
		w.walkExpression(e.Callee)
		for _, arg := range e.ArgumentList {
			w.walkExpression(arg)
		}
	case *ast.NewExpression:
		w.walkExpression(e.Callee)
		for _, arg := range e.ArgumentList {
			w.walkExpression(arg)
		}
	case *ast.DotExpression:
		// Only the receiver references a name; the member does not.
		w.walkExpression(e.Left)
	case *ast.BracketExpression:
		w.walkExpression(e.Left)
		w.walkExpression(e.Member)
	case *ast.ConditionalExpression:
		w.walkExpression(e.Test)
		w.walkExpression(e.Consequent)
		w.walkExpression(e.Alternate)
	case *ast.UnaryExpression:
		w.walkExpression(e.Operand)
	case *ast.SequenceExpression:
		for _, inner := range e.Sequence {
			w.walkExpression(inner)
		}
	case *ast.ArrayLiteral:
		for _, inner := range e.Value {
			w.walkExpression(inner)
		}
	case *ast.ObjectLiteral:
		for _, prop := range e.Value {
			switch p := prop.(type) {
			case *ast.PropertyKeyed:
				w.walkExpression(p.Value)
			case *ast.PropertyShort:
				w.referenced[p.Name.Name.String()] = struct{}{}
			case *ast.SpreadElement:
				w.walkExpression(p.Expression)
			}
		}
	case *ast.TemplateLiteral:
		for _, inner := range e.Expressions {
			w.walkExpression(inner)
		}
	case *ast.FunctionLiteral:
		w.walkFunction(e)
	case *ast.ArrowFunctionLiteral:
		for _, name := range parameterNames(e.ParameterList) {
			w.bind(name)
		}
		switch body := e.Body.(type) {
		case *ast.BlockStatement:
			for _, stmt := range body.List {
				w.walkStatement(stmt)
			}
		case *ast.ExpressionBody:
			w.walkExpression(body.Expression)
		}
	}
}

// bindingName extracts the simple identifier bound by a declaration, if the
// target is not a destructuring pattern.
func bindingName(b *ast.Binding) (string, bool) {
	ident, ok := b.Target.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return ident.Name.String(), true
}

// parameterNames returns the simple parameter names of a function, in order.
func parameterNames(params *ast.ParameterList) []string {
	if params == nil {
		return nil
	}
	var names []string
	for _, b := range params.List {
		if name, ok := bindingName(b); ok {
			names = append(names, name)
		}
	}
	return names
}
