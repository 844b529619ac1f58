package jnav

import (
	"errors"
	"fmt"
	"io"
)

var errUnexpectedEOF = errors.New("unexpected end of input")

// An Anchor represents a location in source text. The methods of an Anchor
// report the location, token type, and contents of the anchor.
type Anchor interface {
	Token() Token       // the token type of the anchor
	Text() []byte       // a view of the raw (undecoded) text of the anchor
	Copy() []byte       // a copy of the raw text of the anchor
	Span() Span         // the byte span of the anchor
	Location() Location // the full location of the anchor
}

// A Handler handles events from parsing an input stream. If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call. If the method needs to retain information about the
// location after it returns, it must copy the relevant data.
type Handler interface {
	// Begin a new object, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new array, whose open bracket is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened array, whose close bracket is at loc.
	EndArray(loc Anchor) error

	// Begin a new object member, whose key is at loc. The text of the key is
	// still quoted; the handler is responsible for unquoting key values if
	// the plain string is required (see jnav.Unquote).
	BeginMember(loc Anchor) error

	// End the current object member, giving the location and type of the
	// token that terminated the member (either Comma or RBrace).
	EndMember(loc Anchor) error

	// Report a data value at the given location. The type of the value can be
	// recovered from the token. String tokens are quoted.
	Value(loc Anchor) error

	// EndOfInput reports the end of the input stream.
	EndOfInput(loc Anchor)
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input.
type Stream struct {
	sc     *Scanner
	tcomma bool // allow trailing commas in objects and arrays
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return &Stream{sc: NewScanner(r)} }

// AllowComments configures the scanner associated with s to report (true) or
// reject (false) comment tokens. Comments reported by the scanner are
// silently discarded by the parser.
func (s *Stream) AllowComments(ok bool) { s.sc.AllowComments(ok) }

// AllowTrailingCommas configures the parser to allow (true) or reject (false)
// trailing commas in objects and arrays.
func (s *Stream) AllowTrailingCommas(ok bool) { s.tcomma = ok }

// Parse parses the input stream and delivers events to h until either an
// error occurs or the input is exhausted. In case of a syntax error, the
// returned error has type [*SyntaxError].
func (s *Stream) Parse(h Handler) error {
	for {
		if err := s.ParseOne(h); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// ParseOne parses a single value from the input stream and delivers events to
// h until the value is complete or an error occurs. If no further value is
// available from the input, ParseOne returns io.EOF. In case of a syntax
// error, the returned error has type [*SyntaxError].
func (s *Stream) ParseOne(h Handler) error {
	if err := s.next(); err == io.EOF {
		h.EndOfInput(s.sc)
		return io.EOF
	} else if err != nil {
		return s.syntaxError(err, "%v", err)
	}
	return s.parseElement(h)
}

// parseElement consumes a single value of any type.
// Precondition: the scanner is positioned on the first token of the value.
func (s *Stream) parseElement(h Handler) error {
	switch tok := s.sc.Token(); tok {
	case LBrace:
		if err := h.BeginObject(s.sc); err != nil {
			return err
		}
		if err := s.parseMembers(h); err != nil {
			return err
		}
		return h.EndObject(s.sc)

	case LSquare:
		if err := h.BeginArray(s.sc); err != nil {
			return err
		}
		if err := s.parseElements(h); err != nil {
			return err
		}
		return h.EndArray(s.sc)

	case Integer, Number, String, True, False, Null:
		return h.Value(s.sc)

	default:
		return s.syntaxError(nil, "unexpected %v", tok)
	}
}

// parseMembers consumes zero or more key:value object members.
// Precondition: token == LBrace. Postcondition: token == RBrace.
func (s *Stream) parseMembers(h Handler) error {
	tok, err := s.advance(RBrace, String)
	if err != nil {
		return err
	} else if tok == RBrace {
		return nil // empty object
	}
	for {
		// A single member: "key": value
		if err := h.BeginMember(s.sc); err != nil {
			return err
		}
		if _, err := s.advance(Colon); err != nil {
			return err
		}
		if _, err := s.advance(); err != nil {
			return err
		}
		if err := s.parseElement(h); err != nil {
			return err
		}

		// Check whether more members follow (",") or the object ends ("}").
		tok, err := s.advance(RBrace, Comma)
		if err != nil {
			return err
		}
		if err := h.EndMember(s.sc); err != nil {
			return err
		}
		if tok == RBrace {
			return nil
		}
		if s.tcomma {
			// With trailing commas allowed, a close brace after the comma is
			// a valid end of the object; otherwise the next token must be a
			// key for a subsequent member.
			next, err := s.advance(String, RBrace)
			if err != nil {
				return err
			} else if next == RBrace {
				return nil
			}
		} else if _, err := s.advance(String); err != nil {
			return err
		}
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare. Postcondition: token == RSquare.
func (s *Stream) parseElements(h Handler) error {
	tok, err := s.advance()
	if err != nil {
		return err
	} else if tok == RSquare {
		return nil // empty array
	}
	for {
		if err := s.parseElement(h); err != nil {
			return err
		}
		tok, err := s.advance(RSquare, Comma)
		if err != nil {
			return err
		} else if tok == RSquare {
			return nil
		}
		next, err := s.advance()
		if err != nil {
			return err
		}
		if s.tcomma && next == RSquare {
			return nil // end of array with trailing comma
		}
	}
}

// next advances the scanner to the next non-comment token.
func (s *Stream) next() error {
	for {
		if err := s.sc.Next(); err != nil {
			return err
		}
		if tok := s.sc.Token(); tok == LineComment || tok == BlockComment {
			continue
		}
		return nil
	}
}

// advance fetches the next token and, if want is non-empty, verifies it is
// one of the wanted types.
func (s *Stream) advance(want ...Token) (Token, error) {
	if err := s.next(); err != nil {
		if err == io.EOF {
			err = errUnexpectedEOF
		}
		return Invalid, s.syntaxError(err, "%v", tokLabel(want, err))
	}
	tok := s.sc.Token()
	if len(want) != 0 && !tokOneOf(tok, want) {
		return tok, s.syntaxError(nil, "%v", tokLabel(want, tok))
	}
	return tok, nil
}

func (s *Stream) syntaxError(err error, msg string, args ...any) error {
	return &SyntaxError{
		Offset:   s.sc.Span().Pos,
		Location: s.sc.Location().First,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	}
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	switch len(tokens) {
	case 0:
		return fmt.Sprint(got)
	case 1:
		return fmt.Sprintf("expected %v, got %v", tokens[0], got)
	}
	last := len(tokens) - 1
	var exp string
	for i, tok := range tokens[:last] {
		if i > 0 {
			exp += ", "
		}
		exp += tok.String()
	}
	return fmt.Sprintf("expected %s or %v, got %v", exp, tokens[last], got)
}

func tokOneOf(cur Token, tokens []Token) bool {
	for _, tok := range tokens {
		if cur == tok {
			return true
		}
	}
	return false
}

// SyntaxError is the concrete type of errors reported by the stream parser.
type SyntaxError struct {
	Offset   int     // byte offset of the failure in the input
	Location LineCol // line/column of the failure
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %d:%d (offset %d): %s",
		s.Location.Line, s.Location.Column, s.Offset, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
