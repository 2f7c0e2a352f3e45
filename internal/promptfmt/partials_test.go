package promptfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAnalyzeReferencedPartials_CollectsPlaceholders verifies plain and
// dotted placeholders resolve to their root names, including inside blocks.
func TestAnalyzeReferencedPartials_CollectsPlaceholders(t *testing.T) {
	t.Parallel()

	// Arrange
	body := "Hello {{name}}, today is {{date.day}}.\n" +
		"{{#user}}Your score: {{score}}{{/user}}"

	// Act
	schema, err := AnalyzeReferencedPartials(body)

	// Assert
	require.NoError(t, err)
	assert.Len(t, schema.Items, 3)
	assert.Contains(t, schema.Items, "name")
	assert.Contains(t, schema.Items, "date")
	assert.Contains(t, schema.Items, "score")
}

// TestAnalyzeReferencedPartials_NoPlaceholders verifies a static template
// yields an empty schema.
func TestAnalyzeReferencedPartials_NoPlaceholders(t *testing.T) {
	t.Parallel()

	// Act
	schema, err := AnalyzeReferencedPartials("Only literal text.")

	// Assert
	require.NoError(t, err)
	assert.Empty(t, schema.Items)
}

// TestAnalyzeReferencedPartials_MalformedTemplate verifies syntax errors are
// surfaced as parse failures.
func TestAnalyzeReferencedPartials_MalformedTemplate(t *testing.T) {
	t.Parallel()

	// Act
	_, err := AnalyzeReferencedPartials("{{unterminated")

	// Assert
	assert.Error(t, err)
}
