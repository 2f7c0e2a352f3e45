// Package interpreter holds the runtime backends code cells dispatch to: a
// general-purpose Python interpreter run as a subprocess, and an embedded
// JavaScript engine that owns its execution context and is therefore rebuilt
// fresh, on its own goroutine, for every invocation.
//
// Both backends share one input convention: the input value is an object
// whose optional "globals" attribute seeds the execution environment, whose
// optional "args" attribute (keys "0", "1", ...) carries positional call
// arguments, and whose optional "fn" attribute names the entry function for
// a function invocation.
package interpreter
