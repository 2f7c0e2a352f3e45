package operation

import (
	"context"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"
)

// InvocationConfig carries read-only, per-invocation settings. Nodes that do
// not consult it ignore it entirely.
type InvocationConfig struct {
	// Model overrides the provider's default model for this invocation.
	Model string
	// Temperature overrides the provider's sampling temperature when set.
	Temperature *float64
}

// EventSink is the side channel an invocation may emit events through. It is
// read-only from the node's perspective: the node writes events, never
// configures the sink.
type EventSink interface {
	Emit(ctx context.Context, name string, v cty.Value)
}

// NopSink discards all events.
type NopSink struct{}

// Emit implements EventSink.
func (NopSink) Emit(context.Context, string, cty.Value) {}

// OperationFn is the invocation contract every compiled cell implements.
// Implementations must produce exactly one envelope per call and must capture
// backend failures inside it; the error return is reserved for contract
// violations in the invocation machinery itself.
type OperationFn func(
	ctx context.Context,
	state *ExecutionState,
	input cty.Value,
	cfg *InvocationConfig,
	sink EventSink,
) (*OperationFnOutput, error)

// OperationNode is the compiled, directly invocable unit produced from a
// cell. It is immutable after construction; recompiling a cell produces a new
// node that replaces the old one by identity.
type OperationNode struct {
	Name            string
	InputSignature  InputSignature
	OutputSignature OutputSignature
	// StateID records which execution state the node was compiled against,
	// for compilers that tie a node to a point in an execution history.
	StateID uuid.UUID

	fn OperationFn
}

// NewOperationNode assembles a node from its signatures and invocation
// closure.
func NewOperationNode(name string, in InputSignature, out OutputSignature, fn OperationFn) *OperationNode {
	return &OperationNode{
		Name:            name,
		InputSignature:  in,
		OutputSignature: out,
		fn:              fn,
	}
}

// Invoke runs the node's closure. A nil config or sink is replaced with a
// no-op default so closures never see nil collaborators. The node holds no
// mutable state of its own, so concurrent invocations are permitted.
func (n *OperationNode) Invoke(
	ctx context.Context,
	state *ExecutionState,
	input cty.Value,
	cfg *InvocationConfig,
	sink EventSink,
) (*OperationFnOutput, error) {
	if cfg == nil {
		cfg = &InvocationConfig{}
	}
	if sink == nil {
		sink = NopSink{}
	}
	return n.fn(ctx, state, input, cfg, sink)
}
