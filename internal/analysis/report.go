package analysis

// TriggerableFunction describes one function a cell exposes for invocation
// by name, with its declared parameter names in order.
type TriggerableFunction struct {
	Arguments []string
}

// Report is the result of statically analyzing one cell's source.
type Report struct {
	// CellDependedValues holds names the cell reads but does not define.
	CellDependedValues map[string]struct{}
	// CellExposedValues holds names the cell defines at its top level.
	CellExposedValues map[string]struct{}
	// TriggerableFunctions maps each top-level function name to its
	// declared arguments.
	TriggerableFunctions map[string]TriggerableFunction
}

// NewReport returns an empty report with all maps initialized.
func NewReport() *Report {
	return &Report{
		CellDependedValues:   make(map[string]struct{}),
		CellExposedValues:    make(map[string]struct{}),
		TriggerableFunctions: make(map[string]TriggerableFunction),
	}
}
