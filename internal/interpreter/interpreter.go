package interpreter

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellgridgo/internal/operation"
	"github.com/vk/cellgridgo/internal/value"
)

// RunResult is what a backend produces: the run's value and its captured
// diagnostics in line order. On failure the diagnostics captured up to the
// failure point are still populated.
type RunResult struct {
	Value  cty.Value
	Stdout []string
	Stderr []string
}

// Interpreter is the invocation contract shared by all code backends.
type Interpreter interface {
	Run(ctx context.Context, state *operation.ExecutionState, source string, input cty.Value, invokeAsFunction bool) (*RunResult, error)
}

// inputParts decomposes the conventional input object. Every part is
// optional; a non-object input contributes nothing.
type inputParts struct {
	globals map[string]any
	args    []any
	fn      string
}

func splitInput(input cty.Value) (*inputParts, error) {
	parts := &inputParts{globals: make(map[string]any)}
	if input == cty.NilVal || input.IsNull() || !input.Type().IsObjectType() {
		return parts, nil
	}
	attrs := input.Type().AttributeTypes()

	if _, ok := attrs["globals"]; ok {
		native, err := value.ToNative(input.GetAttr("globals"))
		if err != nil {
			return nil, fmt.Errorf("interpreter: globals: %w", err)
		}
		if m, ok := native.(map[string]any); ok {
			parts.globals = m
		}
	}
	if _, ok := attrs["fn"]; ok {
		fnVal := input.GetAttr("fn")
		if !fnVal.IsNull() && fnVal.Type() == cty.String {
			parts.fn = fnVal.AsString()
		}
	}
	if _, ok := attrs["args"]; ok {
		native, err := value.ToNative(input.GetAttr("args"))
		if err != nil {
			return nil, fmt.Errorf("interpreter: args: %w", err)
		}
		switch args := native.(type) {
		case []any:
			parts.args = args
		case map[string]any:
			parts.args = orderedArgs(args)
		}
	}
	return parts, nil
}

// orderedArgs flattens an args object with numeric keys into a positional
// list.
func orderedArgs(m map[string]any) []any {
	keys := make([]int, 0, len(m))
	byIndex := make(map[int]any, len(m))
	for k, v := range m {
		idx, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		keys = append(keys, idx)
		byIndex[idx] = v
	}
	sort.Ints(keys)
	out := make([]any, 0, len(keys))
	for _, idx := range keys {
		out = append(out, byIndex[idx])
	}
	return out
}

// stateBindings converts a state snapshot into native seed values, skipping
// bindings that cannot cross into a backend.
func stateBindings(state *operation.ExecutionState) map[string]any {
	if state == nil {
		return nil
	}
	snapshot := state.Snapshot()
	out := make(map[string]any, len(snapshot))
	for name, v := range snapshot {
		native, err := value.ToNative(v)
		if err != nil {
			continue
		}
		out[name] = native
	}
	return out
}
