package tree

import (
	"fmt"

	"github.com/jnav-dev/jnav/ast"
	"github.com/jnav-dev/jnav/jpath"
)

// Resolve walks a parsed path expression from the root of t and returns the
// node it addresses. Member steps require an object along the way; index
// steps resolve ordinally into either arrays or objects, with negative
// indices counting backward from the end.
func (t *Tree) Resolve(expr jpath.Expr) (*Node, error) {
	n := t.Root
	for _, step := range expr {
		if step.IsIndex {
			i := step.Index
			if i < 0 {
				i += len(n.Children)
			}
			if !n.IsContainer() {
				return nil, fmt.Errorf("cannot index into %s", kindName(n.Value))
			}
			if i < 0 || i >= len(n.Children) {
				return nil, fmt.Errorf("index %d out of bounds (n=%d)", step.Index, len(n.Children))
			}
			n = n.Children[i]
			continue
		}
		obj, ok := n.Value.(*ast.Object)
		if !ok {
			return nil, fmt.Errorf("cannot look up %q in %s", step.Name, kindName(n.Value))
		}
		m := obj.Find(step.Name)
		if m == nil {
			return nil, fmt.Errorf("key %q not found", step.Name)
		}
		// Member order mirrors child order, so the member's position in the
		// object locates the child node.
		var child *Node
		for i, mm := range obj.Members {
			if mm == m {
				child = n.Children[i]
				break
			}
		}
		n = child
	}
	return n, nil
}

// kindName returns a human-readable name for the kind of v.
func kindName(v ast.Value) string {
	switch v.(type) {
	case *ast.Object:
		return "object"
	case *ast.Array:
		return "array"
	case *ast.String:
		return "string"
	case *ast.Integer, *ast.Number:
		return "number"
	case *ast.Bool:
		return "bool"
	case *ast.Null:
		return "null"
	}
	return "unknown"
}
