// Package analysis turns cell source text into a dependency report: which
// names a cell reads from its environment, which names it exposes, and which
// of its functions can be invoked by name.
//
// One analyzer exists per supported language and is registered under the
// language's identifier. A language without a registered analyzer is a valid
// configuration; compilers treat it as a cell with no derivable signature.
package analysis
