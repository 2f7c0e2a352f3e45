package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistry_RegisterAndLookup verifies the round trip and the miss case.
func TestRegistry_RegisterAndLookup(t *testing.T) {
	t.Parallel()

	// Arrange
	r := NewRegistry()
	r.Register("python", NewPythonAnalyzer())

	// Act & Assert
	a, ok := r.Lookup("python")
	require.True(t, ok)
	assert.NotNil(t, a)

	_, ok = r.Lookup("starlark")
	assert.False(t, ok)
}

// TestRegistry_DuplicateRegistrationPanics verifies registering a language
// twice is treated as a programmer error.
func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	// Arrange
	r := NewRegistry()
	r.Register("python", NewPythonAnalyzer())

	// Act & Assert
	assert.Panics(t, func() {
		r.Register("python", NewPythonAnalyzer())
	})
}

// TestDefaultRegistry_CoversBuiltInLanguages verifies the built-in analyzers
// are wired and sandboxed languages are deliberately absent.
func TestDefaultRegistry_CoversBuiltInLanguages(t *testing.T) {
	t.Parallel()

	// Act
	r := DefaultRegistry()

	// Assert
	_, ok := r.Lookup("python")
	assert.True(t, ok)
	_, ok = r.Lookup("javascript")
	assert.True(t, ok)
	_, ok = r.Lookup("starlark")
	assert.False(t, ok)
}
