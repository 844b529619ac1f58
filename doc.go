// Package jnav implements the lexical scanner and event-driven stream parser
// that underpin the jnav JSON viewer.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON. Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and returns nil, or reports an error:
//
//	s := jnav.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates an I/O or lexical error in the input.
//
// # Streaming
//
// The Stream type implements an event-driven parser for a sequence of JSON
// values. The parser reports the structure of the input by calling methods on
// a Handler value. Concatenated top-level values, with or without intervening
// whitespace, are parsed one at a time: each call to ParseOne consumes exactly
// one complete value from the front of the input and returns io.EOF once no
// further values remain. In case of a syntax error, the returned error has
// concrete type *SyntaxError and carries the byte offset of the failure.
//
// Higher layers of the viewer build on this package: the ast package
// materializes values into ordered syntax trees, and the record package
// splits an input stream into indexed records for the interactive session.
package jnav
