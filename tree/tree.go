// Package tree wraps a parsed JSON value in a navigable tree of nodes, each
// with a stable path, a depth, and a collapse flag. The flattened, depth-first
// pre-order traversal of the visible nodes is the single source of truth for
// both rendering order and cursor movement order.
package tree

import (
	"strconv"

	"github.com/jnav-dev/jnav/ast"
)

// DefaultCollapseDepth is the collapse depth applied when the caller does not
// choose one: containers deeper than this many levels start collapsed.
const DefaultCollapseDepth = 2

// Options configure tree construction.
type Options struct {
	// CollapseDepth makes container nodes deeper than this depth (root = 0)
	// start collapsed. A value <= 0 builds the tree fully expanded.
	CollapseDepth int
}

// A Node is one element of a navigable tree, wrapping either a scalar value
// or a container value with materialized children. Children are built once
// and retained regardless of collapse state: collapsing affects visibility,
// not existence.
type Node struct {
	Value    ast.Value
	Label    string // member key, array index text, or "" for the root
	Path     Path
	Depth    int
	Parent   *Node
	Children []*Node

	collapsed bool
}

// IsContainer reports whether n wraps an object or array value.
func (n *Node) IsContainer() bool {
	switch n.Value.(type) {
	case *ast.Object, *ast.Array:
		return true
	}
	return false
}

// Collapsed reports whether n is collapsed. Scalar nodes are never
// collapsed.
func (n *Node) Collapsed() bool { return n.collapsed }

// ScalarText returns the raw source text of a scalar node, or "" for a
// container.
func (n *Node) ScalarText() string {
	if d, ok := n.Value.(ast.Datum); ok {
		return d.Text()
	}
	return ""
}

// A Tree is the navigable form of a single parsed JSON value.
type Tree struct {
	Root *Node

	nodes map[string]*Node // canonical path key -> node
}

// New builds the navigable tree for v. Construction is deterministic: the
// same value always yields a tree with identical paths and ordering, since
// object members and array elements preserve their source order.
func New(v ast.Value, opts Options) *Tree {
	t := &Tree{nodes: make(map[string]*Node)}
	t.Root = t.build(v, "", nil, nil, 0, opts)
	return t
}

func (t *Tree) build(v ast.Value, label string, path Path, parent *Node, depth int, opts Options) *Node {
	n := &Node{Value: v, Label: label, Path: path, Depth: depth, Parent: parent}
	t.nodes[path.key()] = n

	switch c := v.(type) {
	case *ast.Object:
		n.collapsed = opts.CollapseDepth > 0 && depth > opts.CollapseDepth
		n.Children = make([]*Node, len(c.Members))
		for i, m := range c.Members {
			step := Step{Key: m.Key, Index: i, Named: true}
			n.Children[i] = t.build(m.Value, m.Key, append(path.Clone(), step), n, depth+1, opts)
		}
	case *ast.Array:
		n.collapsed = opts.CollapseDepth > 0 && depth > opts.CollapseDepth
		n.Children = make([]*Node, len(c.Values))
		for i, v := range c.Values {
			step := Step{Index: i}
			n.Children[i] = t.build(v, strconv.Itoa(i), append(path.Clone(), step), n, depth+1, opts)
		}
	}
	return n
}

// Len reports the total number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Lookup returns the node identified by p, or nil if no such node exists.
func (t *Tree) Lookup(p Path) *Node { return t.nodes[p.key()] }

// Toggle flips the collapse flag of the container node at p. Toggling a
// scalar or unknown path is a no-op.
func (t *Tree) Toggle(p Path) {
	if n := t.Lookup(p); n != nil && n.IsContainer() {
		n.collapsed = !n.collapsed
	}
}

// SetCollapsedAll sets the collapse flag of every container node in one
// pass, supporting the expand-all and collapse-all affordances.
func (t *Tree) SetCollapsedAll(collapsed bool) {
	for _, n := range t.nodes {
		if n.IsContainer() {
			n.collapsed = collapsed
		}
	}
}

// ExpandTo force-expands every ancestor of p, making the node at p visible.
// The node itself keeps its own collapse state.
func (t *Tree) ExpandTo(p Path) {
	n := t.Lookup(p)
	if n == nil {
		return
	}
	for a := n.Parent; a != nil; a = a.Parent {
		a.collapsed = false
	}
}

// IsVisible reports whether the node at p has no collapsed ancestor.
func (t *Tree) IsVisible(p Path) bool {
	n := t.Lookup(p)
	if n == nil {
		return false
	}
	for a := n.Parent; a != nil; a = a.Parent {
		if a.collapsed {
			return false
		}
	}
	return true
}

// VisibleAncestor returns the path of the nearest self-or-ancestor of p that
// is currently visible. The root is always visible.
func (t *Tree) VisibleAncestor(p Path) Path {
	n := t.Lookup(p)
	if n == nil {
		return nil
	}
	// The shallowest collapsed strict ancestor hides everything below it,
	// so that ancestor is the nearest visible landing spot.
	cut := -1
	for a := n.Parent; a != nil; a = a.Parent {
		if a.collapsed {
			cut = a.Depth
		}
	}
	if cut < 0 {
		return n.Path
	}
	return n.Path[:cut]
}

// Visible returns the flattened, depth-first pre-order sequence of visible
// nodes: each container is followed by its children when expanded, then by
// its next sibling.
func (t *Tree) Visible() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		if n.collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if t.Root != nil {
		walk(t.Root)
	}
	return out
}
