// Package config loads and validates the engine configuration file: model
// provider endpoints and the interpreter toolchain settings.
package config
