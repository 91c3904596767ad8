// Package tree builds the spec tree: an in-memory hierarchy of groups and
// files that mirrors a declarative spec before any content is generated.
//
// An entry is a group if and only if its value is a mapping that declares the
// [KeyFiles] key. Every other entry is a file whose payload is its value,
// passed on verbatim. Payload shape is not validated here; that is the job of
// the page generator.
//
//	root, err := tree.Build(s, "API", ".")
//	if err != nil {
//	    return err // configuration error, nothing written
//	}
package tree

import (
	"fmt"

	"github.com/matzehuels/docforge/pkg/errors"
	"github.com/matzehuels/docforge/pkg/spec"
)

// Keys recognised on group entries.
const (
	KeyFiles   = "files"   // ordered list of child entries
	KeySidebar = "sidebar" // display label of the group
)

// Node is a node of the spec tree: either a *FileNode or a *GroupNode.
type Node interface {
	// NodeName returns the entry name, used as a file or directory name.
	NodeName() string
	node()
}

// FileNode is a leaf entry. Payload is handed to the generator unmodified.
type FileNode struct {
	Name    string
	Payload spec.Map
}

// GroupNode is a composite entry. Children order determines generated positions.
type GroupNode struct {
	Name     string
	Label    string
	Children []Node
}

func (f *FileNode) NodeName() string  { return f.Name }
func (g *GroupNode) NodeName() string { return g.Name }

func (*FileNode) node()  {}
func (*GroupNode) node() {}

// Add appends n to the group's children and returns it.
func (g *GroupNode) Add(n Node) Node {
	g.Children = append(g.Children, n)
	return n
}

// Build converts a declarative spec into a spec tree rooted at a group with
// the given label and name. The root name is used as-is (it may be "." to
// denote the build directory itself); every other name must be a valid path
// element.
func Build(s spec.Map, rootLabel, rootName string) (*GroupNode, error) {
	root := &GroupNode{Name: rootName, Label: rootLabel}
	if err := build(s, root, rootName); err != nil {
		return nil, err
	}
	return root, nil
}

func build(s spec.Map, parent *GroupNode, path string) error {
	for _, e := range s {
		entryPath := path + "/" + e.Key
		if err := errors.ValidateName(e.Key); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSpec, err, "entry %s", entryPath)
		}

		value, ok := asMap(e.Value)
		if !ok {
			return errors.New(errors.ErrCodeInvalidSpec,
				"entry %s: expected a mapping, got %s", entryPath, kind(e.Value))
		}

		if !value.Has(KeyFiles) {
			parent.Add(&FileNode{Name: e.Key, Payload: value})
			continue
		}

		group, err := newGroup(e.Key, value, entryPath)
		if err != nil {
			return err
		}
		parent.Add(group)

		files, _ := value.Get(KeyFiles)
		children, ok := asList(files)
		if !ok {
			return errors.New(errors.ErrCodeInvalidSpec,
				"entry %s: %s must be a list, got %s", entryPath, KeyFiles, kind(files))
		}
		for i, child := range children {
			childMap, ok := child.(spec.Map)
			if !ok {
				return errors.New(errors.ErrCodeInvalidSpec,
					"entry %s: %s[%d] must be a mapping, got %s", entryPath, KeyFiles, i, kind(child))
			}
			if err := build(childMap, group, entryPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func newGroup(name string, value spec.Map, path string) (*GroupNode, error) {
	raw, _ := value.Get(KeySidebar)
	label, ok := raw.(string)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"entry %s: %s label must be a string, got %s", path, KeySidebar, kind(raw))
	}
	return &GroupNode{Name: name, Label: label}, nil
}

// asMap accepts nil as an empty payload so that "page.md:" with no body is a
// file entry.
func asMap(v any) (spec.Map, bool) {
	switch v := v.(type) {
	case spec.Map:
		return v, true
	case nil:
		return spec.Map{}, true
	}
	return nil, false
}

// asList accepts nil as an empty list so that "files:" declares an empty group.
func asList(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case nil:
		return nil, true
	}
	return nil, false
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case spec.Map:
		return "mapping"
	case []any:
		return "list"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Walk calls fn for every node below root in depth-first pre-order.
// depth is 1 for root's direct children.
func Walk(root *GroupNode, fn func(n Node, depth int)) {
	walk(root, 1, fn)
}

func walk(g *GroupNode, depth int, fn func(Node, int)) {
	for _, child := range g.Children {
		fn(child, depth)
		switch c := child.(type) {
		case *GroupNode:
			walk(c, depth+1, fn)
		case *FileNode:
		default:
			panic(fmt.Sprintf("tree: unexpected node type %T", child))
		}
	}
}
