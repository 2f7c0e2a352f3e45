package operation

import "github.com/zclconf/go-cty/cty"

// InputType constrains the expected type of an input item. Only the string
// tag exists today; richer inference is a future extension of the analyzers.
type InputType string

// InputTypeString marks an unconstrained, string-typed input.
const InputTypeString InputType = "string"

// InputItemConfig describes one named input of a node: an optional type tag
// and an optional default value.
type InputItemConfig struct {
	Type    *InputType
	Default *cty.Value
}

// StringInput returns the configuration used for every input derived from
// static analysis: string-typed, no default.
func StringInput() InputItemConfig {
	ty := InputTypeString
	return InputItemConfig{Type: &ty}
}

// InputSignature names everything a node consumes. Globals are values read
// from the surrounding environment; Args are declared function parameters.
type InputSignature struct {
	Globals map[string]InputItemConfig
	Args    map[string]InputItemConfig
}

// NewInputSignature returns an empty input signature.
func NewInputSignature() InputSignature {
	return InputSignature{
		Globals: make(map[string]InputItemConfig),
		Args:    make(map[string]InputItemConfig),
	}
}

// IsEmpty reports whether the signature names no inputs at all.
func (s InputSignature) IsEmpty() bool {
	return len(s.Globals) == 0 && len(s.Args) == 0
}

// OutputItemKind distinguishes plain value outputs from callable outputs.
type OutputItemKind int

const (
	// OutputValue is a value the node exposes under a name once it runs.
	OutputValue OutputItemKind = iota
	// OutputFunction is a callable the node exposes, with its own nested
	// input signature independent of the parent node's.
	OutputFunction
)

// OutputItemConfig describes one named output of a node. InputSignature,
// EmitEvent, and TriggerOn are only meaningful for OutputFunction items.
type OutputItemConfig struct {
	Kind           OutputItemKind
	InputSignature InputSignature
	EmitEvent      []string
	TriggerOn      []string
}

// ValueOutput returns the configuration for a plain value output.
func ValueOutput() OutputItemConfig {
	return OutputItemConfig{Kind: OutputValue}
}

// FunctionOutput returns the configuration for a callable output with the
// given nested input signature and no event wiring.
func FunctionOutput(in InputSignature) OutputItemConfig {
	return OutputItemConfig{
		Kind:           OutputFunction,
		InputSignature: in,
		EmitEvent:      []string{},
		TriggerOn:      []string{},
	}
}

// OutputSignature names everything a node produces: plain values under
// Globals and callables under Functions.
type OutputSignature struct {
	Globals   map[string]OutputItemConfig
	Functions map[string]OutputItemConfig
}

// NewOutputSignature returns an empty output signature.
func NewOutputSignature() OutputSignature {
	return OutputSignature{
		Globals:   make(map[string]OutputItemConfig),
		Functions: make(map[string]OutputItemConfig),
	}
}

// IsEmpty reports whether the signature names no outputs at all.
func (s OutputSignature) IsEmpty() bool {
	return len(s.Globals) == 0 && len(s.Functions) == 0
}
