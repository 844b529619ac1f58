package tree

import (
	"strconv"
	"strings"
)

// A Step selects one child of a container node: an object member by key, or
// an array element by position. In both cases Index records the child's
// ordinal position among its siblings.
type Step struct {
	Key   string // member key; meaningful only when Named is true
	Index int    // ordinal position among the parent's children
	Named bool   // whether the step selects an object member
}

// A Path is the sequence of steps from a tree's root identifying a single
// node. The empty path identifies the root. No two nodes in the same tree
// share a path.
type Path []Step

// Clone returns an independent copy of p.
func (p Path) Clone() Path { return append(Path(nil), p...) }

// Equal reports whether p and q identify the same node.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i, s := range p {
		if s != q[i] {
			return false
		}
	}
	return true
}

// Parent returns the path of p's parent, or nil if p is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// String renders p in a JSONPath-like form, e.g. $.users[3].name.
// Member keys that are not plain identifiers are quoted: $['a b'].
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, s := range p {
		if !s.Named {
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(s.Index))
			sb.WriteString("]")
		} else if isIdent(s.Key) {
			sb.WriteString(".")
			sb.WriteString(s.Key)
		} else {
			sb.WriteString("['")
			sb.WriteString(strings.ReplaceAll(s.Key, "'", `\'`))
			sb.WriteString("']")
		}
	}
	return sb.String()
}

// key returns the canonical map key for p. Unlike String, it is injective:
// the ordinal position distinguishes duplicate member keys, and the key text
// is quoted so no byte it contains can masquerade as a step boundary.
func (p Path) key() string {
	var sb strings.Builder
	for _, s := range p {
		if s.Named {
			sb.WriteString("k")
			sb.WriteString(strconv.Itoa(s.Index))
			sb.WriteString(strconv.Quote(s.Key))
		} else {
			sb.WriteString("i")
			sb.WriteString(strconv.Itoa(s.Index))
		}
		sb.WriteByte(0)
	}
	return sb.String()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
		case ch == '_':
		default:
			return false
		}
	}
	return true
}
