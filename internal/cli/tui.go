package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sunburst/pkg/sunburst"
	"github.com/matzehuels/sunburst/pkg/sunburst/tooltip"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	tooltipStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGray).Padding(0, 1)
)

// exploreKeys are the bindings of the segment browser.
type exploreKeys struct {
	Up, Down, First, Last, Quit key.Binding
}

func (k exploreKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.First, k.Last, k.Quit}
}

func (k exploreKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultExploreKeys = exploreKeys{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

const (
	exploreHeaderLines = 3
	exploreMinHeight   = 5
)

// =============================================================================
// exploreModel - Segment browser
// =============================================================================

// exploreModel lists the drawable segments of a chart, one row each,
// indented by depth. The highlighted row plays the pointer: moving onto a
// row fires its pointer-enter handler and moving away fires pointer-leave,
// so the shared tooltip overlay behaves exactly as on the web page.
type exploreModel struct {
	chart    *sunburst.Chart
	title    string
	rows     []int               // indexes into chart.Segments
	handlers []*tooltip.Handlers // per segment; nil for hidden ones
	overlay  *tooltip.Overlay
	keys     exploreKeys
	help     help.Model

	cursor int
	offset int
	height int
	width  int
}

func newExploreModel(c *sunburst.Chart, title string) *exploreModel {
	m := &exploreModel{
		chart:    c,
		title:    title,
		handlers: make([]*tooltip.Handlers, len(c.Segments)),
		overlay:  tooltip.NewOverlay(),
		keys:     defaultExploreKeys,
		help:     help.New(),
		height:   15,
		width:    80,
	}
	c.Attach(m.overlay, func(i int, _ sunburst.Segment) tooltip.Segment {
		h := &tooltip.Handlers{}
		m.handlers[i] = h
		return h
	})
	for i, s := range c.Segments {
		if s.Drawable() {
			m.rows = append(m.rows, i)
		}
	}
	m.enter()
	return m
}

func (m *exploreModel) Init() tea.Cmd {
	return nil
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(m.cursor - 1)
		case key.Matches(msg, m.keys.Down):
			m.move(m.cursor + 1)
		case key.Matches(msg, m.keys.First):
			m.move(0)
		case key.Matches(msg, m.keys.Last):
			m.move(len(m.rows) - 1)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.height = msg.Height - exploreHeaderLines - 6
		if m.height < exploreMinHeight {
			m.height = exploreMinHeight
		}
		m.move(m.cursor)
	}
	return m, nil
}

// move leaves the current row and enters row i, clamped to the list.
func (m *exploreModel) move(i int) {
	if len(m.rows) == 0 {
		return
	}
	i = max(0, min(i, len(m.rows)-1))
	m.leave()
	m.cursor = i
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.enter()
}

func (m *exploreModel) enter() {
	if h := m.current(); h != nil {
		seg := m.chart.Segments[m.rows[m.cursor]]
		h.Enter(tooltip.Event{
			PageX:         float64(m.nameColumn(seg)),
			PageY:         float64(exploreHeaderLines + m.cursor - m.offset),
			ViewportWidth: float64(m.width),
		})
	}
}

func (m *exploreModel) leave() {
	if h := m.current(); h != nil {
		h.Leave()
	}
}

func (m *exploreModel) current() *tooltip.Handlers {
	if len(m.rows) == 0 {
		return nil
	}
	return m.handlers[m.rows[m.cursor]]
}

// nameColumn is the terminal column where seg's name starts.
func (m *exploreModel) nameColumn(seg sunburst.Segment) int {
	return 5 + 2*(seg.Depth-1)
}

func (m *exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(StyleNumber.Render(strconv.FormatFloat(m.chart.Total, 'f', -1, 64)))
	b.WriteString(listDimStyle.Render(" failures"))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		seg := m.chart.Segments[m.rows[i]]

		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(seg.Color)).Render("  ")
		indent := strings.Repeat("  ", seg.Depth-1)

		b.WriteString(cursor + swatch + " " + indent + style.Render(seg.Name))
		if m.chart.Total > 0 {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  %.1f%%", 100*seg.Sum/m.chart.Total)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.tooltipView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))

	return b.String()
}

// tooltipView draws the overlay box below the list, shifted horizontally
// the way the overlay placement anchors it.
func (m *exploreModel) tooltipView() string {
	st := m.overlay.State()
	if !st.Visible {
		return ""
	}
	box := tooltipStyle.Render(st.Text)

	left := int(st.Placement.Offset)
	if st.Placement.Edge == tooltip.EdgeRight {
		left = m.width - int(st.Placement.Offset) - lipgloss.Width(box)
	}
	left = max(0, left)
	return lipgloss.NewStyle().MarginLeft(left).Render(box)
}
