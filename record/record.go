// Package record splits an input stream into records, where each record is
// one syntactically-complete top-level JSON value. Records are delimited by
// the structure of the values themselves: multiple objects, arrays, or
// scalars written back-to-back, with or without intervening whitespace, are
// split apart without any separator convention.
package record

import (
	"errors"
	"fmt"
	"io"

	"github.com/jnav-dev/jnav"
	"github.com/jnav-dev/jnav/ast"
)

// A Record is one complete top-level JSON value extracted from an input
// stream. Records are immutable once created.
type Record struct {
	Index int       // 1-based position of the record in the input stream
	Span  jnav.Span // byte range the record occupied in the input
	Value ast.Value // the parsed value
}

// A ParseError reports malformed JSON encountered while splitting an input
// stream. It carries the byte offset of the failure and the 1-based index of
// the record attempt that failed.
type ParseError struct {
	Record int // 1-based index of the failed record attempt
	Offset int // byte offset of the failure in the input
	Err    error
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Record, e.Err)
}

// Unwrap supports error wrapping.
func (e *ParseError) Unwrap() error { return e.Err }

// Options configure a Splitter.
type Options struct {
	// Relaxed, if true, tolerates line and block comments and trailing
	// commas in objects and arrays.
	Relaxed bool
}

// A Splitter lazily yields the records of an input stream, one complete
// top-level value per call to Next.
type Splitter struct {
	p    *ast.Parser
	n    int  // number of records yielded so far
	done bool // a terminal condition (EOF or error) was reached
}

// NewSplitter constructs a splitter that consumes input from r.
func NewSplitter(r io.Reader, opts Options) *Splitter {
	p := ast.NewParser(r)
	if opts.Relaxed {
		p.AllowComments(true)
		p.AllowTrailingCommas(true)
	}
	return &Splitter{p: p}
}

// Next parses and returns the next record from the input. It returns io.EOF
// once the input is exhausted; empty input yields zero records. A malformed
// value is reported as a *ParseError and no partial record is yielded; after
// an error the splitter yields no further records.
func (s *Splitter) Next() (*Record, error) {
	if s.done {
		return nil, io.EOF
	}
	v, err := s.p.Next()
	if err == io.EOF {
		s.done = true
		return nil, io.EOF
	} else if err != nil {
		s.done = true
		return nil, &ParseError{Record: s.n + 1, Offset: errOffset(err), Err: err}
	}
	s.n++
	return &Record{Index: s.n, Span: v.Span(), Value: v}, nil
}

// ReadAll collects all the records of r. A malformed value anywhere in the
// input is an error, and no records are returned for the malformed span.
func ReadAll(r io.Reader, opts Options) ([]*Record, error) {
	s := NewSplitter(r, opts)
	var recs []*Record
	for {
		rec, err := s.Next()
		if err == io.EOF {
			return recs, nil
		} else if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}

// errOffset recovers the byte offset from a syntax error, if it has one.
func errOffset(err error) int {
	var serr *jnav.SyntaxError
	if errors.As(err, &serr) {
		return serr.Offset
	}
	return 0
}
