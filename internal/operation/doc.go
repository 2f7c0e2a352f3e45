// Package operation defines the executable unit every cell compiles into: an
// OperationNode with a typed input/output signature and a single invocation
// closure, plus the uniform output envelope every invocation produces.
//
// Nodes are immutable once constructed. All mutable state flows through the
// caller-supplied ExecutionState, which is conceptually moved into an
// invocation and moved back out through the envelope; the node retains
// nothing between calls, so concurrent invocations of one node are safe.
package operation
