package cells

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellgridgo/internal/analysis"
	"github.com/vk/cellgridgo/internal/interpreter"
	"github.com/vk/cellgridgo/internal/operation"
	"github.com/vk/cellgridgo/internal/testutil"
)

func newTestCompiler(general, engine interpreter.Interpreter, chat *testutil.CountingChatModel) *Compiler {
	if chat == nil {
		chat = &testutil.CountingChatModel{}
	}
	return NewCompiler(analysis.DefaultRegistry(), general, engine, chat)
}

// TestCompileCode_SandboxedLanguageIsPassThrough verifies a language with no
// analyzer compiles to a no-op node: empty signatures, identity invocation,
// no error.
func TestCompileCode_SandboxedLanguageIsPassThrough(t *testing.T) {
	t.Parallel()

	// Arrange
	backend := &testutil.StubInterpreter{}
	compiler := newTestCompiler(backend, backend, nil)
	cell := &CodeCell{Name: "sandboxed", Language: LanguageStarlark, SourceCode: "x = 1"}

	// Act
	node, err := compiler.CompileCode(cell)
	require.NoError(t, err)
	out, err := node.Invoke(context.Background(), operation.NewExecutionState(), cty.StringVal("payload"), nil, nil)

	// Assert
	require.NoError(t, err)
	assert.True(t, node.InputSignature.IsEmpty())
	assert.True(t, node.OutputSignature.IsEmpty())
	assert.False(t, out.HasError)
	assert.Equal(t, cty.StringVal("payload"), out.Output)
	assert.Equal(t, 0, backend.Calls(), "pass-through must touch no backend")
}

// TestCompileCode_DerivesSignaturesFromSource verifies analysis results shape
// the node's signatures.
func TestCompileCode_DerivesSignaturesFromSource(t *testing.T) {
	t.Parallel()

	// Arrange
	compiler := newTestCompiler(&testutil.StubInterpreter{}, &testutil.StubInterpreter{}, nil)
	cell := &CodeCell{
		Name:       "calc",
		Language:   LanguagePython,
		SourceCode: "total = base + 1\ndef scale(factor):\n    return total * factor\n",
	}

	// Act
	node, err := compiler.CompileCode(cell)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, node.InputSignature.Globals, "base")
	assert.Contains(t, node.OutputSignature.Globals, "total")
	fn, ok := node.OutputSignature.Functions["scale"]
	require.True(t, ok)
	assert.Contains(t, fn.InputSignature.Args, "factor")
}

// TestCompileCode_SyntaxErrorFailsCompilation verifies analyzer failures
// reject the cell at compile time.
func TestCompileCode_SyntaxErrorFailsCompilation(t *testing.T) {
	t.Parallel()

	// Arrange
	compiler := newTestCompiler(&testutil.StubInterpreter{}, &testutil.StubInterpreter{}, nil)
	cell := &CodeCell{Name: "broken", Language: LanguageJavaScript, SourceCode: "const = nope"}

	// Act
	_, err := compiler.CompileCode(cell)

	// Assert
	assert.ErrorIs(t, err, ErrStaticAnalysis)
}

// TestCompileCode_BackendFailureIsCaptured verifies a runtime failure lands
// in the envelope with its diagnostics, never as an abrupt error.
func TestCompileCode_BackendFailureIsCaptured(t *testing.T) {
	t.Parallel()

	// Arrange
	cause := errors.New("interpreter crashed")
	backend := &testutil.StubInterpreter{
		Err: cause,
		Result: &interpreter.RunResult{
			Stdout: []string{"partial output"},
			Stderr: []string{"Traceback"},
		},
	}
	compiler := newTestCompiler(backend, &testutil.StubInterpreter{}, nil)
	cell := &CodeCell{Name: "crashes", Language: LanguagePython, SourceCode: "x = 1"}

	// Act
	node, err := compiler.CompileCode(cell)
	require.NoError(t, err)
	out, err := node.Invoke(context.Background(), operation.NewExecutionState(), cty.NilVal, nil, nil)

	// Assert
	require.NoError(t, err, "backend failures must not escape the envelope")
	assert.True(t, out.HasError)
	assert.ErrorIs(t, out.Err, cause)
	assert.Equal(t, []string{"partial output"}, out.Stdout)
	assert.Equal(t, []string{"Traceback"}, out.Stderr)
	assert.True(t, out.Output.IsNull())
}

// TestCompileCode_RoutesLanguageToBackend verifies each language dispatches
// to its own runtime.
func TestCompileCode_RoutesLanguageToBackend(t *testing.T) {
	t.Parallel()

	// Arrange
	general := &testutil.StubInterpreter{}
	engine := &testutil.StubInterpreter{}
	compiler := newTestCompiler(general, engine, nil)

	pyNode, err := compiler.CompileCode(&CodeCell{Name: "py", Language: LanguagePython, SourceCode: "x = 1"})
	require.NoError(t, err)
	jsNode, err := compiler.CompileCode(&CodeCell{Name: "js", Language: LanguageJavaScript, SourceCode: "const x = 1;"})
	require.NoError(t, err)

	// Act
	_, err = pyNode.Invoke(context.Background(), operation.NewExecutionState(), cty.NilVal, nil, nil)
	require.NoError(t, err)
	_, err = jsNode.Invoke(context.Background(), operation.NewExecutionState(), cty.NilVal, nil, nil)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, general.Calls())
	assert.Equal(t, 1, engine.Calls())
}

// TestCompile_EmptyCellIsRejected verifies the union must carry a variant.
func TestCompile_EmptyCellIsRejected(t *testing.T) {
	t.Parallel()

	// Arrange
	compiler := newTestCompiler(&testutil.StubInterpreter{}, &testutil.StubInterpreter{}, nil)

	// Act
	_, err := compiler.Compile(operation.NewExecutionState().ID(), Cell{})

	// Assert
	assert.ErrorIs(t, err, ErrEmptyCell)
}
