package interpreter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellgridgo/internal/ctxlog"
	"github.com/vk/cellgridgo/internal/operation"
	"github.com/vk/cellgridgo/internal/value"
)

// ScriptEngine runs cell source in an embedded JavaScript engine. A goja
// runtime is not safe to share across goroutines, so every invocation builds
// a fresh runtime on its own dedicated goroutine, communicates the result
// over a channel, and discards the runtime afterwards. Isolation comes from
// not sharing, not from locking.
type ScriptEngine struct{}

// NewScriptEngine creates the backend. The engine itself holds no state;
// each Run owns its entire execution context.
func NewScriptEngine() *ScriptEngine {
	return &ScriptEngine{}
}

// baselineGlobals are the property names present on a fresh runtime's global
// object; anything beyond them after a run is a value the cell defined.
var (
	baselineGlobals     map[string]struct{}
	baselineGlobalsOnce sync.Once
)

func loadBaselineGlobals() {
	baselineGlobals = make(map[string]struct{})
	vm := goja.New()
	for _, key := range vm.GlobalObject().Keys() {
		baselineGlobals[key] = struct{}{}
	}
	baselineGlobals["console"] = struct{}{}
}

type engineResult struct {
	res *RunResult
	err error
}

// Run executes the source on a fresh, fully owned runtime. The caller's
// context is only consulted for cancellation of the wait; the engine itself
// runs to completion on its own goroutine either way.
func (e *ScriptEngine) Run(ctx context.Context, state *operation.ExecutionState, source string, input cty.Value, invokeAsFunction bool) (*RunResult, error) {
	logger := ctxlog.FromContext(ctx)

	parts, err := splitInput(input)
	if err != nil {
		return nil, err
	}
	seed := stateBindings(state)
	if seed == nil {
		seed = make(map[string]any)
	}
	for k, v := range parts.globals {
		seed[k] = v
	}

	resultCh := make(chan engineResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- engineResult{err: fmt.Errorf("%w: engine panic: %v", ErrInterpreterFailed, r)}
			}
		}()
		resultCh <- runIsolated(source, seed, parts, invokeAsFunction)
	}()

	logger.Debug("Launching isolated script engine.", "function_invocation", invokeAsFunction)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-resultCh:
		return out.res, out.err
	}
}

// runIsolated is the whole lifetime of one engine instance. It must only be
// called from the goroutine that owns the runtime.
func runIsolated(source string, seed map[string]any, parts *inputParts, invokeAsFunction bool) engineResult {
	baselineGlobalsOnce.Do(loadBaselineGlobals)

	vm := goja.New()
	var stdout, stderr []string

	console := vm.NewObject()
	_ = console.Set("log", func(call goja.FunctionCall) goja.Value {
		stdout = append(stdout, joinArguments(call))
		return goja.Undefined()
	})
	_ = console.Set("error", func(call goja.FunctionCall) goja.Value {
		stderr = append(stderr, joinArguments(call))
		return goja.Undefined()
	})
	_ = vm.Set("console", console)

	for name, v := range seed {
		if err := vm.Set(name, v); err != nil {
			return engineResult{err: fmt.Errorf("interpreter: failed to seed '%s': %w", name, err)}
		}
	}

	result := &RunResult{Value: value.Null()}
	fail := func(err error) engineResult {
		result.Stdout = stdout
		result.Stderr = stderr
		return engineResult{res: result, err: err}
	}

	if _, err := vm.RunString(source); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrInterpreterFailed, err))
	}

	if invokeAsFunction {
		fnName := parts.fn
		if fnName == "" {
			return fail(fmt.Errorf("%w: no entry function named for invocation", ErrInterpreterFailed))
		}
		callable, ok := goja.AssertFunction(vm.Get(fnName))
		if !ok {
			return fail(fmt.Errorf("%w: '%s' is not a function", ErrInterpreterFailed, fnName))
		}
		callArgs := make([]goja.Value, 0, len(parts.args))
		for _, arg := range parts.args {
			callArgs = append(callArgs, vm.ToValue(arg))
		}
		res, err := callable(goja.Undefined(), callArgs...)
		if err != nil {
			return fail(fmt.Errorf("%w: %v", ErrInterpreterFailed, err))
		}
		v, err := value.FromNative(res.Export())
		if err != nil {
			return fail(fmt.Errorf("interpreter: unrepresentable result: %w", err))
		}
		result.Value = v
	} else {
		exposed := make(map[string]cty.Value)
		global := vm.GlobalObject()
		for _, key := range global.Keys() {
			if _, ok := baselineGlobals[key]; ok {
				continue
			}
			exported := global.Get(key).Export()
			v, err := value.FromNative(exported)
			if err != nil {
				// Functions and other non-representable values stay inside
				// the engine.
				continue
			}
			exposed[key] = v
		}
		if len(exposed) > 0 {
			result.Value = cty.ObjectVal(exposed)
		} else {
			result.Value = cty.EmptyObjectVal
		}
	}

	result.Stdout = stdout
	result.Stderr = stderr
	return engineResult{res: result}
}

// joinArguments formats console arguments the way the engine prints them.
func joinArguments(call goja.FunctionCall) string {
	parts := make([]string, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		parts = append(parts, arg.String())
	}
	return strings.Join(parts, " ")
}
