// Package ui implements the interactive session of the viewer: a Bubble Tea
// model holding the loaded records, the per-record navigation state, and the
// pure projection of that state onto the terminal.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jnav-dev/jnav/jpath"
	"github.com/jnav-dev/jnav/record"
	"github.com/jnav-dev/jnav/tree"
)

// Options configure a viewer session.
type Options struct {
	// CollapseDepth is the initial collapse depth for newly built trees;
	// containers deeper than this start collapsed. Zero or negative builds
	// trees fully expanded.
	CollapseDepth int

	// StartRecord is the 1-based index of the record shown first. Values out
	// of range are clamped.
	StartRecord int
}

// mode is the input mode of the navigation state machine.
type mode int

const (
	modeBrowse mode = iota // normal navigation
	modeSearch             // entering a search term
	modeGoto               // entering a path expression
)

// recordState is the cached navigation state of one record: its tree, the
// cursor, the scroll offset, and the last committed search. State survives
// switching away from and back to a record.
type recordState struct {
	tree   *tree.Tree
	cursor tree.Path
	scroll int
	search *tree.Search
}

// Model is the Bubble Tea model of the whole session.
type Model struct {
	records []*record.Record
	states  []*recordState // lazily built, aligned with records
	active  int            // index of the active record

	opts   Options
	keys   keyMap
	mode   mode
	input  textinput.Model
	status string

	width, height int
	ready         bool
}

// New constructs a session over the given records.
func New(records []*record.Record, opts Options) Model {
	active := 0
	if opts.StartRecord > 0 {
		active = clamp(opts.StartRecord-1, 0, max(len(records)-1, 0))
	}
	input := textinput.New()
	input.CharLimit = 256
	return Model{
		records: records,
		states:  make([]*recordState, len(records)),
		active:  active,
		opts:    opts,
		keys:    defaultKeyMap(),
		input:   input,
	}
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// state returns the navigation state of the active record, building its tree
// on first visit. It returns nil when the session has no records.
func (m *Model) state() *recordState {
	if len(m.records) == 0 {
		return nil
	}
	if m.states[m.active] == nil {
		t := tree.New(m.records[m.active].Value, tree.Options{
			CollapseDepth: m.opts.CollapseDepth,
		})
		m.states[m.active] = &recordState{tree: t, cursor: t.Root.Path}
	}
	return m.states[m.active]
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.ensureScroll()
		return m, nil

	case tea.KeyMsg:
		var next tea.Model
		var cmd tea.Cmd
		if m.mode != modeBrowse {
			next, cmd = m.updateEntry(msg)
		} else {
			next, cmd = m.updateBrowse(msg)
		}
		nm := next.(Model)
		nm.ensureScroll()
		return nm, cmd
	}
	return m, nil
}

// updateBrowse handles one key event in browse mode.
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.bodyHeight())

	case key.Matches(msg, m.keys.Top):
		if st := m.state(); st != nil {
			st.cursor = st.tree.Root.Path
		}
	case key.Matches(msg, m.keys.Bottom):
		if st := m.state(); st != nil {
			vis := st.tree.Visible()
			st.cursor = vis[len(vis)-1].Path
		}

	case key.Matches(msg, m.keys.Right):
		m.expand()
	case key.Matches(msg, m.keys.Left):
		m.collapse()
	case key.Matches(msg, m.keys.Toggle):
		if st := m.state(); st != nil {
			st.tree.Toggle(st.cursor)
		}

	case key.Matches(msg, m.keys.ExpandAll):
		if st := m.state(); st != nil {
			st.tree.SetCollapsedAll(false)
		}
	case key.Matches(msg, m.keys.CollapseAll):
		if st := m.state(); st != nil {
			st.tree.SetCollapsedAll(true)
			st.cursor = st.tree.VisibleAncestor(st.cursor)
		}

	case key.Matches(msg, m.keys.NextRecord):
		m.switchRecord(1)
	case key.Matches(msg, m.keys.PrevRecord):
		m.switchRecord(-1)

	case key.Matches(msg, m.keys.Search):
		if m.state() != nil {
			m.mode = modeSearch
			m.input.Prompt = "/"
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Goto):
		if m.state() != nil {
			m.mode = modeGoto
			m.input.Prompt = ":"
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.NextMatch):
		m.gotoMatch(1)
	case key.Matches(msg, m.keys.PrevMatch):
		m.gotoMatch(-1)
	}
	return m, nil
}

// updateEntry handles one key event while a search term or path expression
// is being typed.
func (m Model) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		// Discard the pending entry; a previously committed search is kept.
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		entry := m.input.Value()
		wasSearch := m.mode == modeSearch
		m.mode = modeBrowse
		m.input.Blur()
		if entry == "" {
			return m, nil
		}
		if wasSearch {
			m.commitSearch(entry)
		} else {
			m.commitGoto(entry)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commitSearch matches term over the full tree of the active record, jumps
// to the first match, and force-expands its ancestors so it is visible.
func (m *Model) commitSearch(term string) {
	st := m.state()
	if st == nil {
		return
	}
	st.search = st.tree.FindAll(term)
	if st.search.Len() == 0 {
		m.status = fmt.Sprintf("no matches for %q", term)
		return
	}
	_, p, _ := st.search.Current()
	st.tree.ExpandTo(p)
	st.cursor = p
	m.status = fmt.Sprintf("match 1/%d for %q", st.search.Len(), term)
}

// gotoMatch advances the committed search by delta matches, wrapping around
// the match set.
func (m *Model) gotoMatch(delta int) {
	st := m.state()
	if st == nil || st.search == nil {
		return
	}
	p, ok := st.search.Advance(delta)
	if !ok {
		m.status = fmt.Sprintf("no matches for %q", st.search.Term)
		return
	}
	st.tree.ExpandTo(p)
	st.cursor = p
	i, _, _ := st.search.Current()
	m.status = fmt.Sprintf("match %d/%d for %q", i+1, st.search.Len(), st.search.Term)
}

// commitGoto resolves a path expression and moves the cursor there.
func (m *Model) commitGoto(entry string) {
	st := m.state()
	if st == nil {
		return
	}
	expr, err := jpath.Parse(entry)
	if err != nil {
		m.status = fmt.Sprintf("bad path: %v", err)
		return
	}
	n, err := st.tree.Resolve(expr)
	if err != nil {
		m.status = fmt.Sprintf("bad path: %v", err)
		return
	}
	st.tree.ExpandTo(n.Path)
	st.cursor = n.Path
}

// moveCursor moves the cursor by delta steps along the flattened visible
// traversal, clamping at both ends.
func (m *Model) moveCursor(delta int) {
	st := m.state()
	if st == nil {
		return
	}
	vis := st.tree.Visible()
	idx := visibleIndex(vis, st.cursor)
	st.cursor = vis[clamp(idx+delta, 0, len(vis)-1)].Path
}

// expand implements move-right: a collapsed container is expanded in place;
// an expanded container hands the cursor to its first child.
func (m *Model) expand() {
	st := m.state()
	if st == nil {
		return
	}
	n := st.tree.Lookup(st.cursor)
	if n == nil || !n.IsContainer() {
		return
	}
	if n.Collapsed() {
		st.tree.Toggle(st.cursor)
	} else if len(n.Children) > 0 {
		st.cursor = n.Children[0].Path
	}
}

// collapse implements move-left: an expanded container with children is
// collapsed in place; otherwise the cursor moves to the parent.
func (m *Model) collapse() {
	st := m.state()
	if st == nil {
		return
	}
	n := st.tree.Lookup(st.cursor)
	if n == nil {
		return
	}
	if n.IsContainer() && !n.Collapsed() && len(n.Children) > 0 {
		st.tree.Toggle(st.cursor)
	} else if n.Parent != nil {
		st.cursor = n.Parent.Path
	}
}

// switchRecord moves to the adjacent record, clamping at both ends; records
// are a bounded, ordered sequence with no wraparound. The target record's
// saved navigation state, if any, is restored.
func (m *Model) switchRecord(delta int) {
	if len(m.records) == 0 {
		return
	}
	next := clamp(m.active+delta, 0, len(m.records)-1)
	if next == m.active {
		return
	}
	m.active = next
}

// visibleIndex locates p in the flattened visible sequence. It returns 0
// when p is not visible; callers re-resolve the cursor before this happens.
func visibleIndex(vis []*tree.Node, p tree.Path) int {
	for i, n := range vis {
		if n.Path.Equal(p) {
			return i
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
