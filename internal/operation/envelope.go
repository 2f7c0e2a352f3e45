package operation

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellgridgo/internal/value"
)

// OperationFnOutput is the uniform result container every invocation
// produces, exactly once, regardless of which backend ran. A backend failure
// is captured here as Err with HasError set; it never propagates as an abrupt
// failure past the node boundary. Stdout and stderr captured before a failure
// are preserved.
type OperationFnOutput struct {
	// HasError reports that the invocation failed and Err carries the cause.
	HasError bool
	// ExecutionState, when non-nil, is the replacement context the caller
	// must substitute for the one it passed in.
	ExecutionState *ExecutionState
	// Output is the invocation's result value. Null when HasError is set.
	Output cty.Value
	// Err is the captured invocation failure, nil on success.
	Err error
	// Stdout holds lines the backend wrote to standard output, in order.
	Stdout []string
	// Stderr holds lines the backend wrote to standard error, in order.
	Stderr []string
}

// WithValue wraps a successful result with no diagnostics and no state
// replacement.
func WithValue(v cty.Value) *OperationFnOutput {
	return &OperationFnOutput{Output: v}
}

// WithNull wraps a successful null result.
func WithNull() *OperationFnOutput {
	return &OperationFnOutput{Output: value.Null()}
}

// WithError captures a backend failure together with whatever diagnostics
// were produced before it.
func WithError(err error, stdout, stderr []string) *OperationFnOutput {
	return &OperationFnOutput{
		HasError: true,
		Output:   value.Null(),
		Err:      err,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}
