package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jnav-dev/jnav/ast"
	"github.com/jnav-dev/jnav/tree"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#303446")).
			Background(lipgloss.Color("#ca9ee6")).
			Padding(0, 1).
			Bold(true)

	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c6d0f5"))
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#838ba7"))
	footStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#838ba7"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5c890"))

	markerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#838ba7"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8caaee"))
	stringStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6d189"))
	numberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef9f76"))
	boolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ea999c"))
	nullStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#838ba7")).Italic(true)
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#838ba7"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#303446")).
			Background(lipgloss.Color("#8caaee")).
			Bold(true)

	currentMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#303446")).
				Background(lipgloss.Color("#e5c890"))

	matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5c890"))
)

// View satisfies tea.Model. Rendering is strictly a projection: the tree,
// cursor, and search state are read, never changed.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	header := m.renderHeader()
	body := m.renderBody()
	bottom := m.renderBottom()
	footer := footStyle.Render(m.footerHints())

	return header + "\n" + body + "\n" + bottom + "\n" + footer
}

// bodyHeight reports the number of tree lines that fit in the viewport:
// the window height minus the header, status, and footer lines.
func (m Model) bodyHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("jnav")
	if len(m.records) == 0 {
		return title
	}
	info := headerStyle.Render(fmt.Sprintf(" record %d/%d  ", m.active+1, len(m.records)))
	var path string
	if st := m.state(); st != nil {
		path = st.cursor.String()
	}
	used := lipgloss.Width(title) + lipgloss.Width(info)
	path = runewidth.Truncate(path, max(m.width-used, 0), "…")
	return title + info + pathStyle.Render(path)
}

func (m Model) renderBody() string {
	height := m.bodyHeight()
	if len(m.records) == 0 {
		lines := make([]string, height)
		lines[0] = pathStyle.Italic(true).Render("no records")
		return strings.Join(lines, "\n")
	}

	st := m.state()
	vis := st.tree.Visible()
	cursorIdx := visibleIndex(vis, st.cursor)
	lines := renderLines(vis, cursorIdx, st.search, st.scroll, m.width, height)
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderBottom() string {
	if m.mode != modeBrowse {
		return m.input.View()
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func (m Model) footerHints() string {
	if len(m.records) == 0 {
		return "q quit"
	}
	hints := "↑↓ move · ←→ fold · space toggle · e/c all · / search · n/N match · : goto"
	if len(m.records) > 1 {
		hints += " · tab record"
	}
	return hints + " · q quit"
}

// ensureScroll clamps the saved scroll offset so that the cursor's line is
// always inside the rendered window, moving only as far as needed.
func (m *Model) ensureScroll() {
	st := m.state()
	if st == nil {
		return
	}
	vis := st.tree.Visible()
	st.scroll = scrollTo(st.scroll, visibleIndex(vis, st.cursor), len(vis), m.bodyHeight())
}

// scrollTo computes the new window offset for a viewport of the given height
// over count lines, keeping cursor inside the window without recentring.
func scrollTo(prev, cursor, count, height int) int {
	if height <= 0 || count <= 0 {
		return 0
	}
	off := clamp(prev, 0, max(count-height, 0))
	if cursor < off {
		off = cursor
	} else if cursor >= off+height {
		off = cursor - height + 1
	}
	return off
}

// renderLines projects the window of visible nodes starting at offset onto
// at most height display lines of at most width cells. The cursor line and
// search matches are highlighted, with the current match distinguished.
func renderLines(vis []*tree.Node, cursorIdx int, search *tree.Search, offset, width, height int) []string {
	end := min(offset+height, len(vis))
	if offset >= end {
		return nil
	}
	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		n := vis[i]
		switch {
		case i == cursorIdx:
			lines = append(lines, cursorStyle.Width(width).Render(plainLine(n, width)))
		case search != nil && search.IsCurrent(n.Path):
			lines = append(lines, currentMatchStyle.Width(width).Render(plainLine(n, width)))
		case search != nil && search.IsMatch(n.Path):
			lines = append(lines, matchStyle.Render(plainLine(n, width)))
		default:
			lines = append(lines, styledLine(n, width))
		}
	}
	return lines
}

// lineParts decomposes a node's display line into its unstyled pieces:
// the indent-plus-marker prefix, the label, the separator, and the value
// text, with the value truncated so the whole line fits in width cells.
func lineParts(n *tree.Node, width int) (prefix, label, sep, value string) {
	prefix = strings.Repeat("  ", n.Depth) + marker(n)
	label = displayLabel(n)
	value = valueText(n)
	if label != "" && value != "" {
		sep = ": "
	}
	avail := width - runewidth.StringWidth(prefix+label+sep)
	value = runewidth.Truncate(value, max(avail, 0), "…")
	return prefix, label, sep, value
}

func plainLine(n *tree.Node, width int) string {
	prefix, label, sep, value := lineParts(n, width)
	return runewidth.Truncate(prefix+label+sep+value, width, "…")
}

func styledLine(n *tree.Node, width int) string {
	prefix, label, sep, value := lineParts(n, width)
	if runewidth.StringWidth(prefix+label+sep+value) > width {
		// Labels wider than the viewport are rare; give up on segment
		// styling rather than truncate across escape sequences.
		return runewidth.Truncate(prefix+label+sep+value, width, "…")
	}
	var sb strings.Builder
	sb.WriteString(markerStyle.Render(prefix))
	sb.WriteString(keyStyle.Render(label))
	sb.WriteString(sep)
	if n.IsContainer() {
		sb.WriteString(summaryStyle.Render(value))
	} else {
		sb.WriteString(scalarStyle(n.Value).Render(value))
	}
	return sb.String()
}

func marker(n *tree.Node) string {
	if !n.IsContainer() || len(n.Children) == 0 {
		return "  "
	}
	if n.Collapsed() {
		return "▸ "
	}
	return "▾ "
}

// displayLabel renders the node's label: the member key for object children,
// the bracketed index for array elements, and "$" for the root.
func displayLabel(n *tree.Node) string {
	if len(n.Path) == 0 {
		return "$"
	}
	if last := n.Path[len(n.Path)-1]; !last.Named {
		return "[" + n.Label + "]"
	}
	return n.Label
}

// valueText renders the value column: a count summary for collapsed or empty
// containers, the raw source text for scalars, nothing for expanded
// containers (their children carry the detail).
func valueText(n *tree.Node) string {
	switch v := n.Value.(type) {
	case *ast.Object:
		if v.Len() == 0 {
			return "{}"
		}
		if n.Collapsed() {
			return fmt.Sprintf("{… %d %s}", v.Len(), plural(v.Len(), "key"))
		}
		return ""
	case *ast.Array:
		if v.Len() == 0 {
			return "[]"
		}
		if n.Collapsed() {
			return fmt.Sprintf("[… %d %s]", v.Len(), plural(v.Len(), "item"))
		}
		return ""
	case ast.Datum:
		return v.Text()
	}
	return ""
}

func scalarStyle(v ast.Value) lipgloss.Style {
	switch v.(type) {
	case *ast.String:
		return stringStyle
	case *ast.Integer, *ast.Number:
		return numberStyle
	case *ast.Bool:
		return boolStyle
	case *ast.Null:
		return nullStyle
	}
	return summaryStyle
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
