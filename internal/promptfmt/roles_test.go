package promptfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractRoles_PreservesDocumentOrder verifies blocks come back in the
// order they appear, not grouped by role.
func TestExtractRoles_PreservesDocumentOrder(t *testing.T) {
	t.Parallel()

	// Arrange
	body := "{{#system}}Be terse.{{/system}}\n" +
		"{{#user}}What is {{x}}?{{/user}}\n" +
		"{{#assistant}}Thinking...{{/assistant}}\n" +
		"{{#user}}And {{y}}?{{/user}}"

	// Act
	blocks, err := ExtractRoles(body)

	// Assert
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	assert.Equal(t, RoleSystem, blocks[0].Role)
	assert.Equal(t, "Be terse.", blocks[0].Source)
	assert.Equal(t, RoleUser, blocks[1].Role)
	assert.Equal(t, "What is {{x}}?", blocks[1].Source)
	assert.Equal(t, RoleAssistant, blocks[2].Role)
	assert.Equal(t, RoleUser, blocks[3].Role)
	assert.Equal(t, "And {{y}}?", blocks[3].Source)
}

// TestExtractRoles_BareBodyBecomesUserBlock verifies a template without role
// markers still yields one user message.
func TestExtractRoles_BareBodyBecomesUserBlock(t *testing.T) {
	t.Parallel()

	// Act
	blocks, err := ExtractRoles("Summarize {{topic}} in one line.")

	// Assert
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, RoleUser, blocks[0].Role)
	assert.Equal(t, "Summarize {{topic}} in one line.", blocks[0].Source)
}

// TestExtractRoles_EmptyBody verifies a blank template yields no blocks.
func TestExtractRoles_EmptyBody(t *testing.T) {
	t.Parallel()

	// Act
	blocks, err := ExtractRoles("  \n\t ")

	// Assert
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

// TestExtractRoles_UnclosedBlock verifies an opened role block must close.
func TestExtractRoles_UnclosedBlock(t *testing.T) {
	t.Parallel()

	// Act
	_, err := ExtractRoles("{{#system}}never closed")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "system")
}
