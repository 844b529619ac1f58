package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/jnav-dev/jnav"
)

// A Parser consumes JSON values one at a time from an input stream.
// A stream may contain any number of concatenated top-level values,
// with or without intervening whitespace.
type Parser struct {
	st *jnav.Stream
	h  *parseHandler
}

// NewParser constructs a parser that consumes input from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{st: jnav.NewStream(r), h: new(parseHandler)}
}

// AllowComments configures the parser to accept (true) or reject (false)
// line and block comments in the input. Comments are discarded.
func (p *Parser) AllowComments(ok bool) { p.st.AllowComments(ok) }

// AllowTrailingCommas configures the parser to accept (true) or reject
// (false) trailing commas in objects and arrays.
func (p *Parser) AllowTrailingCommas(ok bool) { p.st.AllowTrailingCommas(ok) }

// Next parses and returns the next value from the input. It returns io.EOF
// when no further values remain. In case of a syntax error, the returned
// error has concrete type [*jnav.SyntaxError].
func (p *Parser) Next() (Value, error) {
	p.h.reset()
	if err := p.st.ParseOne(p.h); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}
	if len(p.h.stk) != 1 {
		return nil, errors.New("incomplete value")
	}
	return p.h.stk[0], nil
}

// Parse parses and returns all the JSON values from r. In case of error,
// any complete values already parsed are returned along with the error.
func Parse(r io.Reader) ([]Value, error) {
	p := NewParser(r)
	var vs []Value
	for {
		v, err := p.Next()
		if err == io.EOF {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		vs = append(vs, v)
	}
}

// ParseSingle parses exactly one JSON value from r. It reports an error if r
// contains no values, or more than one.
func ParseSingle(r io.Reader) (Value, error) {
	p := NewParser(r)
	v, err := p.Next()
	if err == io.EOF {
		return nil, errors.New("no value found")
	} else if err != nil {
		return nil, err
	}
	if _, err := p.Next(); err != io.EOF {
		return nil, errors.New("extra input after value")
	}
	return v, nil
}

// A parseHandler implements the jnav.Handler interface to construct syntax
// trees for JSON values.
type parseHandler struct {
	stk []Value
}

func (h *parseHandler) reset() { h.stk = h.stk[:0] }

// reduce pops the topmost complete value and attaches it to its parent, if
// one is on the stack below it.
func (h *parseHandler) reduce() error {
	if len(h.stk) > 1 {
		return h.reduceValue(h.pop())
	}
	return nil
}

// reduceValue attaches v to the container currently atop the stack. A value
// with no enclosing container is a complete top-level value, and is pushed
// so that Next can retrieve it.
func (h *parseHandler) reduceValue(v Value) error {
	if len(h.stk) == 0 {
		h.push(v)
		return nil
	}
	switch parent := h.top().(type) {
	case *Member:
		parent.Value = v
	case *Object:
		// Members attach themselves at BeginMember.
	case *Array:
		parent.Values = append(parent.Values, v)
	}
	return nil
}

func (h *parseHandler) top() Value { return h.stk[len(h.stk)-1] }

func (h *parseHandler) pop() Value {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) push(v Value) { h.stk = append(h.stk, v) }

func (h *parseHandler) BeginObject(loc jnav.Anchor) error {
	h.push(&Object{pos: loc.Span().Pos})
	return nil
}

func (h *parseHandler) EndObject(loc jnav.Anchor) error {
	if obj, ok := h.top().(*Object); ok {
		obj.end = loc.Span().End
	}
	return h.reduce()
}

func (h *parseHandler) BeginArray(loc jnav.Anchor) error {
	h.push(&Array{pos: loc.Span().Pos})
	return nil
}

func (h *parseHandler) EndArray(loc jnav.Anchor) error {
	if arr, ok := h.top().(*Array); ok {
		arr.end = loc.Span().End
	}
	return h.reduce()
}

func (h *parseHandler) BeginMember(loc jnav.Anchor) error {
	key, err := jnav.Unquote(string(loc.Text()))
	if err != nil {
		return fmt.Errorf("invalid member key: %w", err)
	}

	// Attach the new member to the enclosing object eagerly, so that
	// reducing the stack after the value is known only reduces once.
	m := &Member{pos: loc.Span().Pos, Key: string(key)}
	obj := h.top().(*Object)
	obj.Members = append(obj.Members, m)
	h.push(m)
	return nil
}

func (h *parseHandler) EndMember(loc jnav.Anchor) error {
	if m, ok := h.top().(*Member); ok {
		m.end = loc.Span().Pos
	}
	return h.reduce()
}

func (h *parseHandler) Value(loc jnav.Anchor) error {
	sp := loc.Span()
	d := datum{pos: sp.Pos, end: sp.End, text: string(loc.Text())}
	switch loc.Token() {
	case jnav.String:
		return h.reduceValue(&String{datum: d})
	case jnav.Integer:
		return h.reduceValue(&Integer{datum: d})
	case jnav.Number:
		return h.reduceValue(&Number{datum: d})
	case jnav.True, jnav.False:
		return h.reduceValue(&Bool{datum: d, value: loc.Token() == jnav.True})
	case jnav.Null:
		return h.reduceValue(&Null{datum: d})
	default:
		return fmt.Errorf("unknown value %v", loc.Token())
	}
}

func (h *parseHandler) EndOfInput(loc jnav.Anchor) {}
