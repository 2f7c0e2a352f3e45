package promptfmt

import (
	"errors"
	"strings"
)

// ErrMissingDelimiter is returned when a front-matter block is opened but
// never closed.
var ErrMissingDelimiter = errors.New("promptfmt: front-matter delimiter not closed")

const frontmatterDelimiter = "---"

// SplitFrontmatter splits a cell body into its front-matter text and the
// remaining template. A body that does not open with a delimiter line has no
// front matter and is returned unchanged; an opened but unclosed block is a
// malformed document.
func SplitFrontmatter(body string) (frontmatter string, rest string, err error) {
	trimmed := strings.TrimLeft(body, "\r\n")
	lines := strings.Split(trimmed, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return "", body, nil
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), nil
		}
	}
	return "", "", ErrMissingDelimiter
}
