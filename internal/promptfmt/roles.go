package promptfmt

import (
	"fmt"
	"regexp"
	"strings"
)

// Role tags a message block with its chat role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// RoleBlock is one role-tagged template section, in document order.
type RoleBlock struct {
	Role Role
	// Source is the block's inner template text, compiled lazily at render
	// time so extraction itself cannot fail on helper resolution.
	Source string
}

var roleOpenRe = regexp.MustCompile(`\{\{#(system|user|assistant)\}\}`)

// ExtractRoles splits a template body into its ordered role blocks. Text
// outside any role block is ignored when at least one block exists; a body
// with no role blocks at all becomes a single user block, so a bare prompt
// still produces one message.
func ExtractRoles(body string) ([]RoleBlock, error) {
	matches := roleOpenRe.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		if strings.TrimSpace(body) == "" {
			return nil, nil
		}
		return []RoleBlock{{Role: RoleUser, Source: body}}, nil
	}

	blocks := make([]RoleBlock, 0, len(matches))
	for _, m := range matches {
		role := Role(body[m[2]:m[3]])
		closeTag := fmt.Sprintf("{{/%s}}", role)
		rest := body[m[1]:]
		end := strings.Index(rest, closeTag)
		if end < 0 {
			return nil, fmt.Errorf("promptfmt: role block '%s' not closed", role)
		}
		blocks = append(blocks, RoleBlock{Role: role, Source: rest[:end]})
	}
	return blocks, nil
}
