package cells

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/cellgridgo/internal/analysis"
	"github.com/vk/cellgridgo/internal/interpreter"
	"github.com/vk/cellgridgo/internal/llm"
	"github.com/vk/cellgridgo/internal/operation"
)

// Compiler turns cell definitions into operation nodes. It owns no mutable
// state of its own; collaborators are injected once and shared by every
// compiled node's closure.
type Compiler struct {
	analyzers *analysis.Registry
	// generalInterpreter serves LanguagePython cells on the caller's
	// execution context.
	generalInterpreter interpreter.Interpreter
	// scriptEngine serves LanguageJavaScript cells; its implementation owns
	// an isolated execution context per invocation.
	scriptEngine interpreter.Interpreter
	chat         llm.ChatModel
}

// NewCompiler assembles a compiler from its collaborators.
func NewCompiler(analyzers *analysis.Registry, general, engine interpreter.Interpreter, chat llm.ChatModel) *Compiler {
	return &Compiler{
		analyzers:          analyzers,
		generalInterpreter: general,
		scriptEngine:       engine,
		chat:               chat,
	}
}

// Compile dispatches over the closed cell variant set.
func (c *Compiler) Compile(stateID uuid.UUID, cell Cell) (*operation.OperationNode, error) {
	switch {
	case cell.Code != nil:
		return c.CompileCode(cell.Code)
	case cell.Prompt != nil:
		return c.CompilePrompt(cell.Prompt), nil
	case cell.CodeGen != nil:
		return c.CompileCodeGen(stateID, cell.CodeGen)
	}
	return nil, ErrEmptyCell
}

// backendFor routes a language to its runtime. Languages with no runtime
// return nil and compile to pass-through nodes.
func (c *Compiler) backendFor(language Language) interpreter.Interpreter {
	switch language {
	case LanguagePython:
		return c.generalInterpreter
	case LanguageJavaScript:
		return c.scriptEngine
	}
	return nil
}

// analyzeCell runs the language's static-analysis collaborator, reporting
// whether one is registered at all.
func (c *Compiler) analyzeCell(language Language, source string) (*analysis.Report, bool, error) {
	analyzer, ok := c.analyzers.Lookup(string(language))
	if !ok {
		return nil, false, nil
	}
	report, err := analyzer.Analyze(source)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", ErrStaticAnalysis, language, err)
	}
	return report, true, nil
}
