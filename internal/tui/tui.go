// Package tui is the terminal explorer: a live-filtered list of collection
// items driven by an explorer.Session.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sgx-labs/folio/internal/catalog"
	"github.com/sgx-labs/folio/internal/explorer"
)

// Layout rows. The panel is drawn directly under the header and summary,
// so its bounds are fixed.
const (
	panelTop    = 2
	panelHeight = 5 // three content rows plus the border
	panelWidth  = 64
)

type styles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	label    lipgloss.Style
	panel    lipgloss.Style
	active   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1).
			Width(panelWidth - 2),
		active: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Model is the bubbletea model for one browsing session.
type Model struct {
	sess     *explorer.Session
	title    string
	input    textinput.Model
	types    []string
	cursor   int
	width    int
	height   int
	styles   styles
	selected *explorer.Item
}

// New returns a model over sess. title heads the screen.
func New(sess *explorer.Session, title string) Model {
	ti := textinput.New()
	ti.Placeholder = "Search title, summary, tags..."
	ti.Prompt = "Search: "
	ti.CharLimit = 200
	ti.Width = panelWidth - 14
	ti.SetValue(sess.Query())

	return Model{
		sess:   sess,
		title:  title,
		input:  ti,
		types:  sess.TypeOptions(),
		styles: defaultStyles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Selected is the item chosen with enter, if any.
func (m Model) Selected() *explorer.Item { return m.selected }

// Session returns the underlying session.
func (m Model) Session() *explorer.Session { return m.sess }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			wasOpen := m.sess.PanelOpen()
			m.sess.PointerDown(inPanel(msg.X, msg.Y))
			if wasOpen && !m.sess.PanelOpen() {
				m.input.Blur()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.sess.PanelOpen() {
			return m.updatePanel(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "/", "esc":
		m.sess.ClosePanel()
		m.input.Blur()
		return m, nil
	case "enter":
		m.sess.ApplyPanel()
		m.input.Blur()
		return m, nil
	case "tab":
		m.cycleType()
		return m, nil
	case "ctrl+s":
		m.sess.SetSort(m.sess.Sort().Flip())
		return m, nil
	case "ctrl+r":
		m.clear()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.sess.Query() {
		m.sess.SetQuery(m.input.Value())
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.sess.Result().Count
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "/":
		m.sess.TogglePanel()
		return m, m.input.Focus()
	case "tab":
		m.cycleType()
	case "s":
		m.sess.SetSort(m.sess.Sort().Flip())
	case "c":
		m.clear()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "enter":
		if n > 0 {
			it := m.sess.Result().Items[m.cursor]
			m.selected = &it
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) cycleType() {
	next := explorer.AllTypes
	for i, t := range m.types {
		if t == m.sess.Type() {
			next = m.types[(i+1)%len(m.types)]
			break
		}
	}
	m.sess.SetType(next)
	m.cursor = 0
}

func (m *Model) clear() {
	m.sess.Clear()
	m.input.SetValue("")
	m.cursor = 0
}

func inPanel(x, y int) bool {
	return y >= panelTop && y < panelTop+panelHeight && x >= 0 && x < panelWidth
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.title.Render(m.title))
	sb.WriteString("\n")

	status := fmt.Sprintf("%s · type: %s · sort: %s", m.sess.Summary(), m.sess.Type(), m.sess.Sort())
	sb.WriteString(m.styles.muted.Render(status))
	if m.sess.HasActiveFilters() {
		sb.WriteString("  ")
		sb.WriteString(m.styles.active.Render("[filtered]"))
	}
	sb.WriteString("\n")

	if m.sess.PanelOpen() {
		typeLabel := "All types"
		if m.sess.Type() != explorer.AllTypes {
			typeLabel = catalog.TypeLabel(m.sess.Type())
		}
		body := strings.Join([]string{
			m.input.View(),
			fmt.Sprintf("Type: %s (tab)   Sort: %s (ctrl+s)", typeLabel, m.sess.Sort()),
			m.styles.muted.Render("enter apply · esc close · ctrl+r clear"),
		}, "\n")
		sb.WriteString(m.styles.panel.Render(body))
		sb.WriteString("\n")
	}

	items := m.sess.Result().Items
	if len(items) == 0 {
		sb.WriteString(m.styles.muted.Render("\nNothing matches these filters.\n"))
	}
	for i, it := range m.visible(items) {
		idx := i + m.offset(len(items))
		line := it.Title
		if it.Date != "" {
			line += "  " + m.styles.muted.Render(it.Date)
		}
		if it.Type != "" {
			line += "  " + m.styles.label.Render(catalog.TypeLabel(it.Type))
		}
		if idx == m.cursor {
			sb.WriteString(m.styles.selected.Render("> ") + line + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
		if it.Summary != "" {
			sb.WriteString("    " + m.styles.muted.Render(it.Summary) + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.muted.Render("/ filters · tab type · s sort · c clear · enter open · q quit"))
	return sb.String()
}

// rows available for the list; each item takes up to two.
func (m Model) listRows() int {
	rows := m.height - 5
	if m.sess.PanelOpen() {
		rows -= panelHeight
	}
	if m.height == 0 || rows < 2 {
		return 0
	}
	return rows / 2
}

func (m Model) offset(n int) int {
	rows := m.listRows()
	if rows == 0 || m.cursor < rows {
		return 0
	}
	return min(m.cursor-rows+1, n-rows)
}

func (m Model) visible(items []explorer.Item) []explorer.Item {
	rows := m.listRows()
	if rows == 0 || len(items) <= rows {
		return items
	}
	off := m.offset(len(items))
	return items[off : off+rows]
}

// Run starts the explorer full screen and returns the item the user opened,
// or nil if they quit.
func Run(sess *explorer.Session, title string) (*explorer.Item, error) {
	p := tea.NewProgram(New(sess, title), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(Model).Selected(), nil
}
