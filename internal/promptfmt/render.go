package promptfmt

import (
	"fmt"

	"github.com/aymerick/raymond"
)

// Render renders a template source against a flat namespace of
// substitutions. Missing placeholders render as empty strings, matching
// handlebars semantics; a malformed template is a render error.
func Render(source string, data map[string]any) (string, error) {
	tpl, err := raymond.Parse(source)
	if err != nil {
		return "", fmt.Errorf("promptfmt: template parse: %w", err)
	}
	out, err := tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("promptfmt: template render: %w", err)
	}
	return out, nil
}

// RenderBlocks renders every role block in order against the same namespace.
func RenderBlocks(blocks []RoleBlock, data map[string]any) ([]RenderedBlock, error) {
	rendered := make([]RenderedBlock, 0, len(blocks))
	for _, block := range blocks {
		content, err := Render(block.Source, data)
		if err != nil {
			return nil, fmt.Errorf("role '%s': %w", block.Role, err)
		}
		rendered = append(rendered, RenderedBlock{Role: block.Role, Content: content})
	}
	return rendered, nil
}

// RenderedBlock is a role block after substitution.
type RenderedBlock struct {
	Role    Role
	Content string
}
