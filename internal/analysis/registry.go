package analysis

import (
	"fmt"
	"log/slog"
)

// Analyzer is the per-language static-analysis collaborator. Analyze must be
// pure over its input; a parse failure is a returned error, never a panic.
type Analyzer interface {
	Analyze(source string) (*Report, error)
}

// Registry maps language identifiers to their analyzers.
type Registry struct {
	all map[string]Analyzer
}

// NewRegistry creates an empty analyzer registry.
func NewRegistry() *Registry {
	return &Registry{all: make(map[string]Analyzer)}
}

// Register registers an analyzer for a language. Registering the same
// language twice is a programmer error.
func (r *Registry) Register(language string, a Analyzer) {
	if _, exists := r.all[language]; exists {
		panic(fmt.Sprintf("analyzer for language '%s' already registered", language))
	}
	slog.Debug("Registering analyzer.", "language", language)
	r.all[language] = a
}

// Lookup returns the analyzer for a language, if one is registered.
func (r *Registry) Lookup(language string) (Analyzer, bool) {
	a, ok := r.all[language]
	return a, ok
}

// DefaultRegistry returns a registry populated with the built-in analyzers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("python", NewPythonAnalyzer())
	r.Register("javascript", NewJavaScriptAnalyzer())
	return r
}
