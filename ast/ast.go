// Package ast defines an ordered, immutable syntax tree for JSON values, and
// a parser that constructs syntax trees from JSON source.
//
// Member order within objects and element order within arrays follow the
// order of appearance in the source text, and are never reordered. The
// viewer's tree model depends on this: the order of children in the
// navigable tree is the order of children here.
package ast

import (
	"strconv"

	"github.com/jnav-dev/jnav"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// Span reports the byte range the value occupied in its source.
	Span() jnav.Span
}

// A Datum is a scalar Value with a source text representation.
type Datum interface {
	Value

	// Text returns the raw (undecoded) source text of the value. For strings
	// this includes the enclosing quotation marks. Numbers are reported
	// verbatim, preserving the decimal representation of the input.
	Text() string
}

// An Object is an ordered collection of key-value members.
type Object struct {
	pos, end int

	Members []*Member
}

// Span satisfies the Value interface.
func (o *Object) Span() jnav.Span { return jnav.Span{Pos: o.pos, End: o.end} }

// Len reports the number of members of o.
func (o *Object) Len() int { return len(o.Members) }

// Find returns the first member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// A Member is a single key-value pair belonging to an Object.
// The Key is the unquoted member name.
type Member struct {
	pos, end int

	Key   string
	Value Value
}

// Span satisfies the Value interface.
func (m *Member) Span() jnav.Span { return jnav.Span{Pos: m.pos, End: m.end} }

// An Array is an ordered sequence of values.
type Array struct {
	pos, end int

	Values []Value
}

// Span satisfies the Value interface.
func (a *Array) Span() jnav.Span { return jnav.Span{Pos: a.pos, End: a.end} }

// Len reports the number of elements of a.
func (a *Array) Len() int { return len(a.Values) }

type datum struct {
	pos, end int
	text     string
}

// Span satisfies the Value interface.
func (d datum) Span() jnav.Span { return jnav.Span{Pos: d.pos, End: d.end} }

// Text satisfies the Datum interface.
func (d datum) Text() string { return d.text }

// An Integer is a number with no fraction or exponent.
type Integer struct{ datum }

// Int64 returns the value of z as an int64.
func (z *Integer) Int64() int64 {
	v, err := strconv.ParseInt(z.text, 10, 64)
	if err != nil {
		panic(err)
	}
	return v
}

// A Number is a number with a fraction and/or exponent.
type Number struct{ datum }

// Float64 returns the value of n as a float64.
func (n *Number) Float64() float64 {
	v, err := strconv.ParseFloat(n.text, 64)
	if err != nil {
		panic(err)
	}
	return v
}

// A Bool is a Boolean constant, true or false.
type Bool struct {
	datum
	value bool
}

// Value reports the truth value of b.
func (b *Bool) Value() bool { return b.value }

// A String is a string value.
type String struct{ datum }

// Unescape returns the unquoted, unescaped text of s.
func (s *String) Unescape() string {
	dec, err := jnav.Unquote(s.text)
	if err != nil {
		panic(err)
	}
	return string(dec)
}

// Null represents the null constant.
type Null struct{ datum }
