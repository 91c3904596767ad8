package model

import (
	"context"
	"fmt"

	"github.com/disiqueira/gotree/v3"

	"github.com/matzehuels/docforge/pkg/spec"
	"github.com/matzehuels/docforge/pkg/tree"
)

// Node is an output model node: either a *Page or a *Group.
type Node interface {
	NodeName() string
	node()
}

// Page is a generated file holding its final rendered content.
type Page struct {
	Name    string
	Content string
}

// Group is a directory-equivalent node. It owns its children exclusively.
type Group struct {
	Name     string
	Label    string
	Children []Node
}

func (p *Page) NodeName() string  { return p.Name }
func (g *Group) NodeName() string { return g.Name }

func (*Page) node()  {}
func (*Group) node() {}

// Add appends n to the group's children and returns it.
func (g *Group) Add(n Node) Node {
	g.Children = append(g.Children, n)
	return n
}

// Len returns the number of pages below g, transitively.
func (g *Group) Len() int {
	n := 0
	for _, child := range g.Children {
		switch c := child.(type) {
		case *Page:
			n++
		case *Group:
			n += c.Len()
		default:
			panic(fmt.Sprintf("model: unexpected node type %T", child))
		}
	}
	return n
}

// Groups returns the number of groups in g, g itself included.
func (g *Group) Groups() int {
	n := 1
	for _, child := range g.Children {
		if c, ok := child.(*Group); ok {
			n += c.Groups()
		}
	}
	return n
}

// String renders the hierarchy as an indented tree.
func (g *Group) String() string {
	t := gotree.New(groupText(g))
	addChildren(t, g)
	return t.Print()
}

func addChildren(t gotree.Tree, g *Group) {
	for _, child := range g.Children {
		switch c := child.(type) {
		case *Page:
			t.Add(c.Name)
		case *Group:
			addChildren(t.Add(groupText(c)), c)
		}
	}
}

func groupText(g *Group) string {
	return fmt.Sprintf("%s/ (%s)", g.Name, g.Label)
}

// Generator produces the content of a single page.
//
// position is the zero-based index of the entry among its siblings in the
// spec tree. Returning ok == false declines the page: it is left out of the
// model without error. A non-nil error aborts generation.
type Generator interface {
	Generate(ctx context.Context, name string, position int, payload spec.Map) (content string, ok bool, err error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, name string, position int, payload spec.Map) (string, bool, error)

// Generate calls f(ctx, name, position, payload).
func (f GeneratorFunc) Generate(ctx context.Context, name string, position int, payload spec.Map) (string, bool, error) {
	return f(ctx, name, position, payload)
}

// Generate builds the output model for a spec tree, calling gen once per
// file entry in declared order.
func Generate(ctx context.Context, root *tree.GroupNode, gen Generator) (*Group, error) {
	out := &Group{Name: root.Name, Label: root.Label}
	if err := generate(ctx, root, out, gen); err != nil {
		return nil, err
	}
	return out, nil
}

func generate(ctx context.Context, in *tree.GroupNode, out *Group, gen Generator) error {
	for i, child := range in.Children {
		switch c := child.(type) {
		case *tree.GroupNode:
			sub := out.Add(&Group{Name: c.Name, Label: c.Label}).(*Group)
			if err := generate(ctx, c, sub, gen); err != nil {
				return err
			}
		case *tree.FileNode:
			if err := ctx.Err(); err != nil {
				return err
			}
			content, ok, err := gen.Generate(ctx, c.Name, i, c.Payload)
			if err != nil {
				return fmt.Errorf("generate %s: %w", c.Name, err)
			}
			if ok {
				out.Add(&Page{Name: c.Name, Content: content})
			}
		default:
			panic(fmt.Sprintf("model: unexpected spec node type %T", child))
		}
	}
	return nil
}
