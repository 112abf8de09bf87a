// Package notice renders a stack of short-lived notifications. Each notice
// dismisses itself after a fixed delay.
package notice

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/events"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/theme"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 5 * time.Second

type item struct {
	id    int
	level events.NoticeLevel
	text  string
}

type expireMsg struct {
	id int
}

// Model holds the currently visible notices.
type Model struct {
	theme  theme.NoticeTheme
	ttl    time.Duration
	width  int
	nextID int
	items  []item
}

// NewModel constructs an empty notice stack.
func NewModel(th theme.NoticeTheme) *Model {
	return &Model{theme: th, ttl: DefaultTTL, width: 80}
}

// SetWidth bounds notice wrapping.
func (m *Model) SetWidth(width int) {
	if width > 0 {
		m.width = width
	}
}

// Len reports how many notices are visible.
func (m *Model) Len() int { return len(m.items) }

// Update consumes NoticeMsg and expiry ticks.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case events.NoticeMsg:
		if msg.Text == "" {
			return nil
		}
		m.nextID++
		id := m.nextID
		m.items = append(m.items, item{id: id, level: msg.Level, text: msg.Text})
		return tea.Tick(m.ttl, func(time.Time) tea.Msg {
			return expireMsg{id: id}
		})
	case expireMsg:
		for i, it := range m.items {
			if it.id == msg.id {
				m.items = append(m.items[:i], m.items[i+1:]...)
				break
			}
		}
	}
	return nil
}

// View renders the stack, newest last.
func (m *Model) View() string {
	if len(m.items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.items))
	for _, it := range m.items {
		style := m.styleFor(it.level)
		prefix := "• "
		lines = append(lines, style.Render(prefix+wordwrap.String(it.text, m.width-len(prefix))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) styleFor(level events.NoticeLevel) lipgloss.Style {
	switch level {
	case events.NoticeSuccess:
		return m.theme.Success
	case events.NoticeDanger:
		return m.theme.Danger
	default:
		return m.theme.Info
	}
}
