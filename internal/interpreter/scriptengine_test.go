package interpreter

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellgridgo/internal/operation"
)

// TestScriptEngine_ExposesDefinedGlobals verifies top-level definitions come
// back as an object of exposed values.
func TestScriptEngine_ExposesDefinedGlobals(t *testing.T) {
	t.Parallel()

	// Arrange
	engine := NewScriptEngine()
	source := `var total = 41 + 1;
var label = "sum";`

	// Act
	res, err := engine.Run(context.Background(), operation.NewExecutionState(), source, cty.NilVal, false)

	// Assert
	require.NoError(t, err)
	require.True(t, res.Value.Type().IsObjectType())
	assert.Equal(t, cty.NumberIntVal(42), res.Value.GetAttr("total"))
	assert.Equal(t, cty.StringVal("sum"), res.Value.GetAttr("label"))
}

// TestScriptEngine_CapturesConsoleOutput verifies console.log and
// console.error land in the result's diagnostics, in order.
func TestScriptEngine_CapturesConsoleOutput(t *testing.T) {
	t.Parallel()

	// Arrange
	engine := NewScriptEngine()
	source := `console.log("step", 1);
console.error("warning");
console.log("step", 2);`

	// Act
	res, err := engine.Run(context.Background(), operation.NewExecutionState(), source, cty.NilVal, false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"step 1", "step 2"}, res.Stdout)
	assert.Equal(t, []string{"warning"}, res.Stderr)
}

// TestScriptEngine_FunctionInvocation verifies the named entry function runs
// with positional arguments.
func TestScriptEngine_FunctionInvocation(t *testing.T) {
	t.Parallel()

	// Arrange
	engine := NewScriptEngine()
	source := `function add(x, y) { return x + y; }`
	input := cty.ObjectVal(map[string]cty.Value{
		"fn":   cty.StringVal("add"),
		"args": cty.TupleVal([]cty.Value{cty.NumberIntVal(2), cty.NumberIntVal(3)}),
	})

	// Act
	res, err := engine.Run(context.Background(), operation.NewExecutionState(), source, input, true)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cty.NumberIntVal(5), res.Value)
}

// TestScriptEngine_SeedsFromStateAndGlobals verifies state bindings and input
// globals are visible to the cell.
func TestScriptEngine_SeedsFromStateAndGlobals(t *testing.T) {
	t.Parallel()

	// Arrange
	engine := NewScriptEngine()
	state := operation.NewExecutionState().With("base", cty.NumberIntVal(40))
	input := cty.ObjectVal(map[string]cty.Value{
		"globals": cty.ObjectVal(map[string]cty.Value{"bump": cty.NumberIntVal(2)}),
	})

	// Act
	res, err := engine.Run(context.Background(), state, "var result = base + bump;", input, false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cty.NumberIntVal(42), res.Value.GetAttr("result"))
}

// TestScriptEngine_FailurePreservesDiagnostics verifies output captured
// before a throw survives alongside the error.
func TestScriptEngine_FailurePreservesDiagnostics(t *testing.T) {
	t.Parallel()

	// Arrange
	engine := NewScriptEngine()
	source := `console.log("before the crash");
definitelyNotDefined();`

	// Act
	res, err := engine.Run(context.Background(), operation.NewExecutionState(), source, cty.NilVal, false)

	// Assert
	require.ErrorIs(t, err, ErrInterpreterFailed)
	require.NotNil(t, res)
	assert.Equal(t, []string{"before the crash"}, res.Stdout)
}

// TestScriptEngine_InvocationsDoNotShareState verifies one run's definitions
// never leak into another.
func TestScriptEngine_InvocationsDoNotShareState(t *testing.T) {
	t.Parallel()

	// Arrange
	engine := NewScriptEngine()
	ctx := context.Background()
	state := operation.NewExecutionState()

	// Act
	_, err := engine.Run(ctx, state, "var leaked = 'secret';", cty.NilVal, false)
	require.NoError(t, err)
	res, err := engine.Run(ctx, state, "var sawLeak = (typeof leaked !== 'undefined');", cty.NilVal, false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cty.False, res.Value.GetAttr("sawLeak"))
}

// TestScriptEngine_ConcurrentRunsAreIsolated verifies parallel invocations
// each see only their own seed.
func TestScriptEngine_ConcurrentRunsAreIsolated(t *testing.T) {
	t.Parallel()

	// Arrange
	engine := NewScriptEngine()
	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	results := make([]cty.Value, workers)

	// Act
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := cty.ObjectVal(map[string]cty.Value{
				"globals": cty.ObjectVal(map[string]cty.Value{
					"sentinel": cty.NumberIntVal(int64(i)),
				}),
			})
			res, err := engine.Run(context.Background(), operation.NewExecutionState(), "var echo = sentinel;", input, false)
			errs[i] = err
			if err == nil {
				results[i] = res.Value.GetAttr("echo")
			}
		}(i)
	}
	wg.Wait()

	// Assert
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i], fmt.Sprintf("worker %d", i))
		assert.Equal(t, cty.NumberIntVal(int64(i)), results[i])
	}
}

// TestScriptEngine_MissingEntryFunction verifies a function invocation needs
// a resolvable callable.
func TestScriptEngine_MissingEntryFunction(t *testing.T) {
	t.Parallel()

	// Arrange
	engine := NewScriptEngine()
	input := cty.ObjectVal(map[string]cty.Value{"fn": cty.StringVal("ghost")})

	// Act
	_, err := engine.Run(context.Background(), operation.NewExecutionState(), "var x = 1;", input, true)

	// Assert
	assert.ErrorIs(t, err, ErrInterpreterFailed)
}
