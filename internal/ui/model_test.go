package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnav-dev/jnav/record"
)

func loadRecords(t *testing.T, input string) []*record.Record {
	t.Helper()
	recs, err := record.ReadAll(strings.NewReader(input), record.Options{})
	require.NoError(t, err)
	return recs
}

// newModel builds a session over input and delivers the initial window size.
func newModel(t *testing.T, input string, opts Options, w, h int) Model {
	t.Helper()
	m := New(loadRecords(t, input), opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(Model)
}

// press delivers a sequence of key events. Multi-rune names map to special
// keys; anything else is sent as literal runes.
func press(m Model, keys ...string) Model {
	special := map[string]tea.KeyType{
		"up":        tea.KeyUp,
		"down":      tea.KeyDown,
		"left":      tea.KeyLeft,
		"right":     tea.KeyRight,
		"home":      tea.KeyHome,
		"end":       tea.KeyEnd,
		"pgup":      tea.KeyPgUp,
		"pgdown":    tea.KeyPgDown,
		"enter":     tea.KeyEnter,
		"esc":       tea.KeyEsc,
		"tab":       tea.KeyTab,
		"shift+tab": tea.KeyShiftTab,
	}
	for _, k := range keys {
		var msg tea.KeyMsg
		if kt, ok := special[k]; ok {
			msg = tea.KeyMsg{Type: kt}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// cursorPath reports the display path of the active cursor.
func cursorPath(m Model) string {
	return m.state().cursor.String()
}

const navJSON = `{
  "name": "widget",
  "dims": {"w": 10, "h": 20},
  "tags": ["up", "down"]
}`

func TestCursorMovement(t *testing.T) {
	m := newModel(t, navJSON, Options{}, 80, 24)
	assert.Equal(t, "$", cursorPath(m))

	// Moving up from the first line is a no-op, not a wrap.
	m = press(m, "up")
	assert.Equal(t, "$", cursorPath(m))

	m = press(m, "down")
	assert.Equal(t, "$.name", cursorPath(m))
	m = press(m, "j", "j")
	assert.Equal(t, "$.dims.w", cursorPath(m))
	m = press(m, "k", "k", "up")
	assert.Equal(t, "$", cursorPath(m))

	// Top and bottom of the visible traversal.
	m = press(m, "G")
	assert.Equal(t, "$.tags[1]", cursorPath(m))
	m = press(m, "down")
	assert.Equal(t, "$.tags[1]", cursorPath(m), "moving down from the last line clamps")
	m = press(m, "g")
	assert.Equal(t, "$", cursorPath(m))
}

func TestToggleAndFold(t *testing.T) {
	m := newModel(t, navJSON, Options{}, 80, 24)

	// Collapse dims with space; its children leave the traversal.
	m = press(m, "j", "j", " ")
	assert.Equal(t, "$.dims", cursorPath(m))
	assert.False(t, m.state().tree.IsVisible(m.state().tree.Lookup(m.state().cursor).Children[0].Path))
	m = press(m, "j")
	assert.Equal(t, "$.tags", cursorPath(m), "collapsed children are skipped")

	// Left collapses an expanded container, right re-expands it; right on an
	// expanded container descends to its first child.
	m = press(m, "left")
	assert.True(t, m.state().tree.Lookup(m.state().cursor).Collapsed())
	m = press(m, "right")
	assert.False(t, m.state().tree.Lookup(m.state().cursor).Collapsed())
	m = press(m, "right")
	assert.Equal(t, "$.tags[0]", cursorPath(m))

	// Left on a scalar climbs to the parent.
	m = press(m, "left")
	assert.Equal(t, "$.tags", cursorPath(m))
}

func TestCollapseAllKeepsCursorVisible(t *testing.T) {
	m := newModel(t, navJSON, Options{}, 80, 24)
	m = press(m, "j", "j", "j")
	assert.Equal(t, "$.dims.w", cursorPath(m))

	m = press(m, "c")
	assert.Equal(t, "$", cursorPath(m), "cursor re-resolves to the nearest visible ancestor")

	m = press(m, "e", "G")
	assert.Equal(t, "$.tags[1]", cursorPath(m))
}

func TestRecordSwitching(t *testing.T) {
	m := newModel(t, `{"a": 1} {"b": 2} {"c": 3}`, Options{}, 80, 24)
	require.Len(t, m.records, 3)
	assert.Equal(t, 0, m.active)

	// Records are a bounded sequence: no wraparound at either end.
	m = press(m, "shift+tab")
	assert.Equal(t, 0, m.active)
	m = press(m, "tab", "tab", "tab", "tab")
	assert.Equal(t, 2, m.active)

	// Navigation state survives switching away and back.
	m = press(m, "shift+tab", "shift+tab")
	assert.Equal(t, 0, m.active)
	m = press(m, "j", " ")
	assert.Equal(t, "$.a", cursorPath(m))
	m = press(m, "tab")
	assert.Equal(t, "$", cursorPath(m))
	m = press(m, "shift+tab")
	assert.Equal(t, "$.a", cursorPath(m))
}

func TestStartRecordClamped(t *testing.T) {
	recs := loadRecords(t, `1 2 3`)

	m := New(recs, Options{StartRecord: 2})
	assert.Equal(t, 1, m.active)

	m = New(recs, Options{StartRecord: 99})
	assert.Equal(t, 2, m.active)

	m = New(recs, Options{})
	assert.Equal(t, 0, m.active)
}

func TestSearchFlow(t *testing.T) {
	m := newModel(t, navJSON, Options{}, 80, 24)
	m = press(m, "c") // search covers the full tree even when collapsed

	// "w" matches "widget", the w label, and "down" in tree order.
	m = press(m, "/", "w", "enter")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "$.name", cursorPath(m))
	assert.Contains(t, m.status, "match 1/3")
	assert.True(t, m.state().tree.IsVisible(m.state().cursor))

	// The next match lives under a collapsed container; jumping to it
	// force-expands its ancestors.
	m = press(m, "n")
	assert.Equal(t, "$.dims.w", cursorPath(m))
	assert.True(t, m.state().tree.IsVisible(m.state().cursor))

	// n/N wrap around the match set.
	m = press(m, "n", "n")
	assert.Equal(t, "$.name", cursorPath(m))
	m = press(m, "N")
	assert.Equal(t, "$.tags[1]", cursorPath(m))
}

func TestSearchNoMatches(t *testing.T) {
	m := newModel(t, navJSON, Options{}, 80, 24)
	m = press(m, "/", "n", "o", "p", "e", "enter")
	assert.Equal(t, "$", cursorPath(m))
	assert.Contains(t, m.status, "no matches")
}

func TestSearchEscKeepsCommitted(t *testing.T) {
	m := newModel(t, navJSON, Options{}, 80, 24)
	m = press(m, "/", "w", "enter")
	require.NotNil(t, m.state().search)

	// Escape discards the pending entry but not the committed search.
	m = press(m, "/", "x", "esc")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "w", m.state().search.Term)
	m = press(m, "n")
	assert.Equal(t, "$.dims.w", cursorPath(m))
}

func TestGotoPath(t *testing.T) {
	m := newModel(t, navJSON, Options{CollapseDepth: 1}, 80, 24)

	m = press(m, ":", ".", "d", "i", "m", "s", ".", "h", "enter")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "$.dims.h", cursorPath(m))
	assert.True(t, m.state().tree.IsVisible(m.state().cursor))

	m = press(m, ":", ".", "n", "o", "p", "e", "enter")
	assert.Contains(t, m.status, "bad path")
	assert.Equal(t, "$.dims.h", cursorPath(m), "a failed goto leaves the cursor alone")
}

func TestScrollFollowsCursor(t *testing.T) {
	// Seven window rows leave four body lines; the document has eight.
	m := newModel(t, navJSON, Options{}, 80, 7)
	height := m.bodyHeight()
	require.Equal(t, 4, height)

	check := func() {
		st := m.state()
		idx := visibleIndex(st.tree.Visible(), st.cursor)
		assert.GreaterOrEqual(t, idx, st.scroll)
		assert.Less(t, idx, st.scroll+height)
	}

	check()
	m = press(m, "G")
	check()
	assert.Equal(t, 4, m.state().scroll, "scrolled just far enough to show the last line")
	m = press(m, "g")
	check()
	assert.Equal(t, 0, m.state().scroll)
	for range 10 {
		m = press(m, "j")
		check()
	}
	m = press(m, "pgup")
	check()
}

func TestEmptySession(t *testing.T) {
	m := newModel(t, "", Options{}, 80, 24)
	require.Empty(t, m.records)

	// Navigation keys are inert, and the view still renders.
	m = press(m, "j", "G", " ", "tab", "/")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Contains(t, m.View(), "no records")
}

func TestQuit(t *testing.T) {
	m := newModel(t, `{"a": 1}`, Options{}, 80, 24)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewRenders(t *testing.T) {
	m := newModel(t, navJSON, Options{}, 80, 24)
	v := m.View()
	assert.Contains(t, v, "record 1/1")
	assert.Contains(t, v, "widget")
	assert.Contains(t, v, "dims")

	// Collapsed containers render a summary instead of their children.
	m = press(m, "c")
	v = m.View()
	assert.Contains(t, v, "3 keys")
	assert.NotContains(t, v, "widget")
}
