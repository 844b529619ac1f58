package tree

import (
	"strings"

	"github.com/creachadair/mds/mapset"
)

// A Search holds the result of matching a term against a tree: the ordered
// set of matching node paths, computed over the full tree regardless of
// collapse state, and an index identifying the current match.
type Search struct {
	Term    string
	Matches []Path

	cur int
	set mapset.Set[string]
}

// FindAll matches term as a case-insensitive substring against the label and
// scalar text of every node of t, in flattened pre-order. An empty term
// matches nothing.
func (t *Tree) FindAll(term string) *Search {
	s := &Search{Term: term, set: mapset.New[string]()}
	if term == "" {
		return s
	}
	needle := strings.ToLower(term)

	var walk func(n *Node)
	walk = func(n *Node) {
		if strings.Contains(strings.ToLower(n.Label), needle) ||
			strings.Contains(strings.ToLower(n.ScalarText()), needle) {
			s.Matches = append(s.Matches, n.Path)
			s.set.Add(n.Path.key())
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if t.Root != nil {
		walk(t.Root)
	}
	return s
}

// Len reports the number of matches.
func (s *Search) Len() int { return len(s.Matches) }

// IsMatch reports whether the node at p is one of the matches.
func (s *Search) IsMatch(p Path) bool { return s.set.Has(p.key()) }

// Current returns the index and path of the current match. It reports false
// if the match set is empty.
func (s *Search) Current() (int, Path, bool) {
	if len(s.Matches) == 0 {
		return 0, nil, false
	}
	return s.cur, s.Matches[s.cur], true
}

// IsCurrent reports whether the node at p is the current match.
func (s *Search) IsCurrent(p Path) bool {
	_, cur, ok := s.Current()
	return ok && cur.Equal(p)
}

// Advance moves the current match index by delta, wrapping around the match
// set in either direction, and returns the new current path. It reports
// false if the match set is empty.
func (s *Search) Advance(delta int) (Path, bool) {
	n := len(s.Matches)
	if n == 0 {
		return nil, false
	}
	s.cur = ((s.cur+delta)%n + n) % n
	return s.Matches[s.cur], true
}
