package promptfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRender_SubstitutesPlaceholders verifies values land in place and
// missing names render empty.
func TestRender_SubstitutesPlaceholders(t *testing.T) {
	t.Parallel()

	// Act
	out, err := Render("Hi {{name}}, from {{missing}} town.", map[string]any{"name": "Ada"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada, from  town.", out)
}

// TestRenderBlocks_RendersEachBlockInOrder verifies every block renders
// against the same namespace, in order.
func TestRenderBlocks_RendersEachBlockInOrder(t *testing.T) {
	t.Parallel()

	// Arrange
	blocks := []RoleBlock{
		{Role: RoleSystem, Source: "Persona: {{persona}}"},
		{Role: RoleUser, Source: "Ask about {{topic}}"},
	}
	data := map[string]any{"persona": "pirate", "topic": "maps"}

	// Act
	rendered, err := RenderBlocks(blocks, data)

	// Assert
	require.NoError(t, err)
	require.Len(t, rendered, 2)
	assert.Equal(t, RoleSystem, rendered[0].Role)
	assert.Equal(t, "Persona: pirate", rendered[0].Content)
	assert.Equal(t, RoleUser, rendered[1].Role)
	assert.Equal(t, "Ask about maps", rendered[1].Content)
}

// TestRenderBlocks_FailsOnMalformedBlock verifies a bad block names its role
// in the error.
func TestRenderBlocks_FailsOnMalformedBlock(t *testing.T) {
	t.Parallel()

	// Arrange
	blocks := []RoleBlock{{Role: RoleUser, Source: "{{broken"}}

	// Act
	_, err := RenderBlocks(blocks, nil)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user")
}
