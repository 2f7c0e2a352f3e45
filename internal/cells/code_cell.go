package cells

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellgridgo/internal/ctxlog"
	"github.com/vk/cellgridgo/internal/interpreter"
	"github.com/vk/cellgridgo/internal/operation"
)

// CompileCode turns a code cell into an operation node. The cell's language
// selects both its static-analysis collaborator and its runtime backend. A
// language with neither compiles into a deliberate no-op node: empty
// signatures and an identity closure, which is valid pass-through wiring and
// not an error.
func (c *Compiler) CompileCode(cell *CodeCell) (*operation.OperationNode, error) {
	report, analyzed, err := c.analyzeCell(cell.Language, cell.SourceCode)
	if err != nil {
		return nil, err
	}
	if !analyzed {
		return operation.NewOperationNode(
			cell.Name,
			operation.NewInputSignature(),
			operation.NewOutputSignature(),
			identityFn,
		), nil
	}

	inputSig, outputSig := operation.DeriveSignatures(report)

	backend := c.backendFor(cell.Language)
	source := cell.SourceCode
	invokeAsFunction := cell.FunctionInvocation

	fn := func(ctx context.Context, state *operation.ExecutionState, input cty.Value, _ *operation.InvocationConfig, _ operation.EventSink) (*operation.OperationFnOutput, error) {
		return dispatchCode(ctx, backend, state, source, input, invokeAsFunction)
	}
	return operation.NewOperationNode(cell.Name, inputSig, outputSig, fn), nil
}

// identityFn returns the input unchanged with no diagnostics and no state
// replacement.
func identityFn(_ context.Context, _ *operation.ExecutionState, input cty.Value, _ *operation.InvocationConfig, _ operation.EventSink) (*operation.OperationFnOutput, error) {
	return operation.WithValue(input), nil
}

// dispatchCode routes one invocation to its runtime backend and normalizes
// the outcome into an envelope. Backend failures are captured, never
// propagated: the envelope carries the error together with whatever stdout
// and stderr the backend produced before failing.
func dispatchCode(ctx context.Context, backend interpreter.Interpreter, state *operation.ExecutionState, source string, input cty.Value, invokeAsFunction bool) (*operation.OperationFnOutput, error) {
	logger := ctxlog.FromContext(ctx)

	res, err := backend.Run(ctx, state, source, input, invokeAsFunction)
	if err != nil {
		var stdout, stderr []string
		if res != nil {
			stdout = res.Stdout
			stderr = res.Stderr
		}
		logger.Debug("Code backend failed; capturing into envelope.", "error", err)
		return operation.WithError(err, stdout, stderr), nil
	}

	return &operation.OperationFnOutput{
		Output: res.Value,
		Stdout: res.Stdout,
		Stderr: res.Stderr,
	}, nil
}
