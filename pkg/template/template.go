// Package template fills page templates with per-page values.
//
// Placeholders are written as (NAME). Optional blocks span from a line
// containing (NAME) to a line containing (/NAME):
//
//	(PRIVILEGED)
//	:::caution
//	Requires an admin token.
//	:::
//	(/PRIVILEGED)
package template

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnbalanced reports block markers that do not pair up.
var ErrUnbalanced = errors.New("unbalanced block markers")

// Template is a page template being filled. The zero value is an empty
// template.
type Template struct {
	content string
}

// New creates a template from content.
func New(content string) *Template {
	return &Template{content: content}
}

// ReadFile loads a template from disk.
func ReadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(string(data)), nil
}

// Clone returns an independent copy.
func (t *Template) Clone() *Template {
	return &Template{content: t.content}
}

// String returns the current content.
func (t *Template) String() string {
	return t.content
}

// Replace substitutes every (name) placeholder with value.
func (t *Template) Replace(name string, value any) {
	t.content = strings.ReplaceAll(t.content, "("+name+")", fmt.Sprint(value))
}

// RemoveBlockIf handles every name block. When remove is true each block is
// deleted together with its marker lines; otherwise only the marker lines are
// dropped and the block body is kept. If the markers do not pair up the
// content is left untouched and ErrUnbalanced is returned.
func (t *Template) RemoveBlockIf(name string, remove bool) error {
	start, end := "("+name+")", "(/"+name+")"
	lines := strings.Split(t.content, "\n")

	var starts, ends []int
	for i, line := range lines {
		if strings.Contains(line, start) {
			starts = append(starts, i)
		}
		if strings.Contains(line, end) {
			ends = append(ends, i)
		}
	}
	if len(starts) != len(ends) {
		return fmt.Errorf("%w: %d %s, %d %s", ErrUnbalanced, len(starts), start, len(ends), end)
	}
	for i := range starts {
		if ends[i] < starts[i] || (i > 0 && starts[i] <= ends[i-1]) {
			return fmt.Errorf("%w: %s block at line %d", ErrUnbalanced, name, starts[i]+1)
		}
	}
	if len(starts) == 0 {
		return nil
	}

	drop := make(map[int]bool)
	for i := range starts {
		if remove {
			for l := starts[i]; l <= ends[i]; l++ {
				drop[l] = true
			}
			continue
		}
		drop[starts[i]] = true
		drop[ends[i]] = true
	}

	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if !drop[i] {
			kept = append(kept, line)
		}
	}
	t.content = strings.Join(kept, "\n")
	return nil
}
