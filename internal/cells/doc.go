// Package cells compiles cell definitions into operation nodes. A cell is an
// immutable definition of one unit of work: source code for an interpreter,
// a prompt template for a language model, or a code-generation template. The
// compiler derives each node's signature from static analysis of the cell
// and binds a closure that routes execution to the backend the cell's
// language or provider requires, normalizing every outcome into one output
// envelope.
//
// The variant set is closed; compilation dispatches over it exhaustively
// rather than through any open registration mechanism.
package cells
