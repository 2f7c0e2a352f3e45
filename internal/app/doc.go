// Package app wires the engine together: configuration, logging, the cell
// compiler with its backends, and the compile-and-invoke run loop the CLI
// drives.
package app
