package record_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnav-dev/jnav/ast"
	"github.com/jnav-dev/jnav/record"
)

func TestSplitter(t *testing.T) {
	const input = `{"a": 1}{"b": 2}
[3, 4] "five"`

	s := record.NewSplitter(strings.NewReader(input), record.Options{})

	r1, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, r1.Index)
	assert.Equal(t, 0, r1.Span.Pos)
	assert.Equal(t, len(`{"a": 1}`), r1.Span.End)
	assert.IsType(t, (*ast.Object)(nil), r1.Value)

	r2, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, r2.Index)
	assert.Equal(t, len(`{"a": 1}`), r2.Span.Pos)

	r3, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, r3.Index)
	assert.IsType(t, (*ast.Array)(nil), r3.Value)

	r4, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 4, r4.Index)
	assert.IsType(t, (*ast.String)(nil), r4.Value)

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)

	// The splitter stays exhausted.
	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestSplitter_empty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\n"} {
		recs, err := record.ReadAll(strings.NewReader(input), record.Options{})
		require.NoError(t, err, "input %q", input)
		assert.Empty(t, recs, "input %q", input)
	}
}

func TestSplitter_malformed(t *testing.T) {
	s := record.NewSplitter(strings.NewReader(`{"a": 1} {"b":`), record.Options{})

	r1, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, r1.Index)

	_, err = s.Next()
	var perr *record.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Record)
	assert.Equal(t, 14, perr.Offset)
	assert.Contains(t, perr.Error(), "record 2:")

	// After an error the splitter is terminal.
	_, err = s.Next()
	assert.Equal(t, io.EOF, err)

	// A failure in the very first value names record 1.
	_, err = record.ReadAll(strings.NewReader(`{"a":`), record.Options{})
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Record)
}

func TestReadAll(t *testing.T) {
	recs, err := record.ReadAll(strings.NewReader(`1 2 3`), record.Options{})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i, rec := range recs {
		assert.Equal(t, i+1, rec.Index)
	}

	// Complete records before the failure are returned with the error.
	recs, err = record.ReadAll(strings.NewReader(`true [1, 2`), record.Options{})
	require.Error(t, err)
	assert.Len(t, recs, 1)
}

func TestSplitter_relaxed(t *testing.T) {
	const input = `// leading comment
{"a": [1, 2,],} /* aside */ {"b": 2}`

	recs, err := record.ReadAll(strings.NewReader(input), record.Options{Relaxed: true})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	obj := recs[0].Value.(*ast.Object)
	assert.Equal(t, 2, obj.Find("a").Value.(*ast.Array).Len())

	// Strict mode rejects the same input.
	_, err = record.ReadAll(strings.NewReader(input), record.Options{})
	require.Error(t, err)

	// Input truncated inside a block comment is an error, not a clean end
	// of the record stream.
	recs, err = record.ReadAll(strings.NewReader(`{"a": 1} /* truncated`), record.Options{Relaxed: true})
	require.Error(t, err)
	assert.Len(t, recs, 1)
}
