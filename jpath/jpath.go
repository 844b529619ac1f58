// Package jpath implements a minimal path expression parser for addressing
// nodes of a JSON tree.
//
// Grammar:
//
//	 expr = ["$"] steps
//	steps = step [steps]
//	 step = "." name
//	 step = "[" INDEX "]"
//	 step = "['" QTEXT "']"
//	 name = RE `\w+`
//	QTEXT = RE `([^']|\\')*`
//	INDEX = RE `-?\d+`
//
// The root marker is optional; the empty expression (or bare "$") addresses
// the root. Wildcards, slices, filters, and recursive descent are not part
// of this dialect: an expression always addresses at most one node.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// A Step is a single step of a path expression: a member name or an element
// index.
type Step struct {
	Name    string // member key, when IsIndex is false
	Index   int    // element index, when IsIndex is true
	IsIndex bool
}

// An Expr is a parsed path expression.
type Expr []Step

// Parse parses s as a path expression.
func Parse(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	var steps Expr
	for s != "" {
		step, rest, err := parseStep(s)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
		s = rest
	}
	return steps, nil
}

func (e Expr) String() string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, s := range e {
		switch {
		case s.IsIndex:
			fmt.Fprintf(&sb, "[%d]", s.Index)
		case identRE.MatchString(s.Name):
			sb.WriteString(".")
			sb.WriteString(s.Name)
		default:
			fmt.Fprintf(&sb, "['%s']", strings.ReplaceAll(s.Name, "'", `\'`))
		}
	}
	return sb.String()
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "."); ok {
		m := wordRE.FindString(t)
		if m == "" {
			return Step{}, s, errors.New("invalid .name")
		}
		return Step{Name: m}, t[len(m):], nil
	}
	if t, ok := strings.CutPrefix(s, "['"); ok {
		m := quoteRE.FindStringSubmatch(t)
		if m == nil {
			return Step{}, s, errors.New("invalid quoted name")
		}
		u, ok := strings.CutPrefix(t[len(m[0]):], "]")
		if !ok {
			return Step{}, s, errors.New("missing close bracket")
		}
		name := strings.ReplaceAll(m[1], `\'`, "'")
		return Step{Name: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		m := indexRE.FindString(t)
		if m == "" {
			return Step{}, s, errors.New("invalid index")
		}
		u, ok := strings.CutPrefix(t[len(m):], "]")
		if !ok {
			return Step{}, s, errors.New("missing close bracket")
		}
		idx, err := strconv.Atoi(m)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid index: %w", err)
		}
		return Step{Index: idx, IsIndex: true}, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

var (
	wordRE  = regexp.MustCompile(`^\w+`)
	identRE = regexp.MustCompile(`^\w+$`)
	indexRE = regexp.MustCompile(`^-?\d+`)
	quoteRE = regexp.MustCompile(`^((?:[^'\\]|\\')*)'`)
)
