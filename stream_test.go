package jnav_test

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jnav-dev/jnav"
)

func TestStream(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "."},
		{"   ", "."},

		{"true false null", `
Value true <true>
Value false <false>
Value null <null>
.`},

		{`0 5 -6.32 0.1e-2`, `
Value integer <0>
Value integer <5>
Value number <-6.32>
Value number <0.1e-2>
.`},

		{`"" "a b c" "a\tb" "a b"`, `
Value string <"">
Value string <"a b c">
Value string <"a\tb">
Value string <"a b">
.`},

		{`{}`, "BeginObject\nEndObject\n."},

		{`{"a":15}`, `
BeginObject
BeginMember <"a">
Value integer <15>
EndMember "}"
EndObject
.`},

		{`{"x":null, "y":[true]}`, `
BeginObject
BeginMember <"x">
Value null <null>
EndMember ","
BeginMember <"y">
BeginArray
Value true <true>
EndArray
EndMember "}"
EndObject
.`},

		{`[]`, "BeginArray\nEndArray\n."},
	}

	for _, test := range tests {
		st := jnav.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		if err := st.Parse(th); err != nil {
			t.Errorf("Parse failed: %v", err)
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
		estr  string
	}{
		// Various kinds of unbalanced object bits.
		{`{`, `BeginObject`,
			`at 1:1 (offset 1): expected "}" or string, got unexpected end of input`},
		{`}`, ``, `at 1:0 (offset 0): unexpected "}"`},
		{`{false:1}`, `BeginObject`,
			`at 1:1 (offset 1): expected "}" or string, got false`},
		{`{"true":}`, `
BeginObject
BeginMember <"true">`,
			`at 1:8 (offset 8): unexpected "}"`},
		{`{"true":1,`, `
BeginObject
BeginMember <"true">
Value integer <1>
EndMember ","`,
			`at 1:10 (offset 10): expected string, got unexpected end of input`},

		// Unbalanced array bits.
		{`[`, `BeginArray`,
			`at 1:1 (offset 1): unexpected end of input`},
		{`]`, ``, `at 1:0 (offset 0): unexpected "]"`},
		{`[15,`, `
BeginArray
Value integer <15>`,
			`at 1:4 (offset 4): unexpected end of input`},
		{`[15,]`, `
BeginArray
Value integer <15>`,
			`at 1:4 (offset 4): unexpected "]"`},

		// Invalid values.
		{`1 2.0 forthright`, `
Value integer <1>
Value number <2.0>`,
			`at 1:6 (offset 6): unknown constant "forthright" (offset 16)`},
		{`"what did you`, ``,
			`at 1:0 (offset 0): unexpected EOF (offset 13)`},
	}

	for _, test := range tests {
		st := jnav.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		err := st.Parse(th)
		if err == nil {
			t.Error("Parse did not report an error")
			continue
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
		if diff := diffStrings(test.estr, err.Error()); diff != "" {
			t.Errorf("Input: %#q\nError: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestParseOne(t *testing.T) {
	const input = `{ "love": true } [] "ok"`
	const want = `
BeginObject
BeginMember <"love">
Value true <true>
EndMember "}"
EndObject
---
BeginArray
EndArray
---
Value string <"ok">
---
.`
	th := new(testHandler)

	st := jnav.NewStream(strings.NewReader(input))
	for {
		err := st.ParseOne(th)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("ParseOne failed: %v", err)
		}
		th.pr("---")
	}

	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", input, diff)
	}
}

func TestStreamRelaxed(t *testing.T) {
	const input = `{
  // leading comment
  "a": [1, 2, 3,], /* aside */
  "b": true,
}`
	const want = `
BeginObject
BeginMember <"a">
BeginArray
Value integer <1>
Value integer <2>
Value integer <3>
EndArray
EndMember ","
BeginMember <"b">
Value true <true>
EndMember ","
EndObject
.`
	st := jnav.NewStream(strings.NewReader(input))
	st.AllowComments(true)
	st.AllowTrailingCommas(true)
	th := new(testHandler)
	if err := st.Parse(th); err != nil {
		t.Errorf("Parse failed: %v", err)
	}
	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", input, diff)
	}
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

type testHandler struct {
	buf bytes.Buffer
}

func (t *testHandler) pr(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(&t.buf, msg, args...)
}

func (t *testHandler) output() string { return t.buf.String() }

func (t *testHandler) BeginObject(loc jnav.Anchor) error { t.pr("BeginObject"); return nil }
func (t *testHandler) EndObject(loc jnav.Anchor) error   { t.pr("EndObject"); return nil }
func (t *testHandler) BeginArray(loc jnav.Anchor) error  { t.pr("BeginArray"); return nil }
func (t *testHandler) EndArray(loc jnav.Anchor) error    { t.pr("EndArray"); return nil }
func (t *testHandler) EndOfInput(loc jnav.Anchor)        { t.pr(".") }

func (t *testHandler) BeginMember(loc jnav.Anchor) error {
	t.pr("BeginMember <%s>", string(loc.Text()))
	return nil
}

func (t *testHandler) EndMember(loc jnav.Anchor) error {
	t.pr("EndMember %s", loc.Token())
	return nil
}

func (t *testHandler) Value(loc jnav.Anchor) error {
	t.pr(`Value %s <%s>`, loc.Token(), string(loc.Text()))
	return nil
}
