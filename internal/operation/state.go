package operation

import (
	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"
)

// ExecutionState is the mutable context threaded through invocations. The
// engine treats it as a linear resource: the instance passed into an
// invocation is owned by the node for the duration of the call, and the
// (possibly different) instance returned in the envelope replaces it. The
// engine never mutates a state in place and never retains one after
// returning.
type ExecutionState struct {
	id     uuid.UUID
	values map[string]cty.Value
}

// NewExecutionState creates an empty state with a fresh identity.
func NewExecutionState() *ExecutionState {
	return &ExecutionState{
		id:     uuid.New(),
		values: make(map[string]cty.Value),
	}
}

// ID returns the state's identity.
func (s *ExecutionState) ID() uuid.UUID {
	return s.id
}

// Get returns the binding under name, if present.
func (s *ExecutionState) Get(name string) (cty.Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Len returns the number of bindings held by the state.
func (s *ExecutionState) Len() int {
	return len(s.values)
}

// Snapshot returns a copy of all bindings, for backends that seed an
// execution environment from the state.
func (s *ExecutionState) Snapshot() map[string]cty.Value {
	out := make(map[string]cty.Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// With returns a new state carrying a fresh identity, all existing bindings,
// and the given binding added or replaced. The receiver is left untouched.
func (s *ExecutionState) With(name string, v cty.Value) *ExecutionState {
	next := &ExecutionState{
		id:     uuid.New(),
		values: make(map[string]cty.Value, len(s.values)+1),
	}
	for k, existing := range s.values {
		next.values[k] = existing
	}
	next.values[name] = v
	return next
}
