package operation

import "github.com/vk/cellgridgo/internal/analysis"

// DeriveSignatures maps a static-analysis report onto node signatures. It is
// a pure function of the report: names pass through exactly as the report
// states them, with no renaming or filtering.
//
//   - every depended-upon value becomes a string-typed, default-less global
//     input;
//   - every exposed value becomes a value output;
//   - every triggerable function becomes a function output whose own input
//     signature holds just that function's arguments, with no event wiring.
func DeriveSignatures(report *analysis.Report) (InputSignature, OutputSignature) {
	inputSig := NewInputSignature()
	outputSig := NewOutputSignature()
	if report == nil {
		return inputSig, outputSig
	}

	for name := range report.CellDependedValues {
		inputSig.Globals[name] = StringInput()
	}
	for name := range report.CellExposedValues {
		outputSig.Globals[name] = ValueOutput()
	}
	for name, fn := range report.TriggerableFunctions {
		fnInput := NewInputSignature()
		for _, arg := range fn.Arguments {
			fnInput.Args[arg] = StringInput()
		}
		outputSig.Functions[name] = FunctionOutput(fnInput)
	}
	return inputSig, outputSig
}
