package cells

import "errors"

var (
	// ErrStaticAnalysis wraps a parse failure from a static-analysis
	// collaborator.
	ErrStaticAnalysis = errors.New("cells: static analysis failed")

	// ErrMalformedCell wraps a front-matter or configuration parse failure.
	ErrMalformedCell = errors.New("cells: malformed cell configuration")

	// ErrFunctionNameRequired is the contract violation of declaring a cell
	// a function invocation while its configuration names no function. It is
	// fatal at compile time; such a cell can never be invoked meaningfully.
	ErrFunctionNameRequired = errors.New("cells: function invocation declared without a function name")

	// ErrEmptyCell indicates a Cell union with no variant set.
	ErrEmptyCell = errors.New("cells: cell defines no variant")
)
