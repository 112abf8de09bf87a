package reportform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/report"
)

// View renders the form.
func (m *Model) View() string {
	var rows []string

	rows = append(rows, m.theme.Form.Title.Render("Report a Mangrove Incident"))
	rows = append(rows, "")

	for i, f := range m.fields {
		label := m.theme.Form.Label
		if i == m.focus {
			label = m.theme.Form.LabelFocused
		}

		var value string
		switch f.kind {
		case kindChoice:
			value = m.renderChoice(f, i == m.focus)
		default:
			value = f.input.View()
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			label.Width(18).Render(f.label), value))

		for _, marker := range m.markers[f.name] {
			rows = append(rows, "                  "+m.theme.Form.Error.Render(marker))
		}

		if f.name == report.FieldLongitude {
			rows = append(rows, "                  "+m.locationLine())
		}
	}

	if pane := m.previewPane(); pane != "" {
		rows = append(rows, "", pane)
	}

	rows = append(rows, "", m.footer())

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return m.theme.Form.Frame.Render(wordwrap.String(body, m.width-4))
}

func (m *Model) renderChoice(f *formField, focused bool) string {
	if len(f.options) == 0 {
		return ""
	}
	value := f.options[f.index]
	if value == "" {
		value = "(select one)"
	}
	if focused {
		return m.theme.Form.Value.Render("‹ "+value+" ›") +
			m.theme.Form.Hint.Render("  (up/down)")
	}
	return m.theme.Form.Value.Render(value)
}

func (m *Model) locationLine() string {
	switch m.loc {
	case locCapturing:
		return m.theme.Form.Busy.Render("Capturing location…")
	case locCaptured:
		return m.theme.Form.Success.Render(m.locSample.Caption())
	case locFailed:
		return m.theme.Form.Error.Render(m.locMessage)
	}
	return m.theme.Form.Hint.Render("ctrl+l captures the device position")
}

func (m *Model) previewPane() string {
	switch m.preview {
	case previewLoading:
		return m.theme.Form.Busy.Render("Loading preview…")
	case previewFailed:
		return m.theme.Form.Error.Render(m.previewErr)
	case previewReady:
		p := m.previewImg
		return m.theme.Form.Success.Render(fmt.Sprintf("Attached: %s, %dx%d",
			p.Candidate.Caption(), p.Width, p.Height))
	}
	return ""
}

func (m *Model) footer() string {
	if m.confirmDiscard {
		return m.theme.Form.Error.Render("Discard this draft? (y/n)")
	}
	if m.submitting {
		return m.theme.Form.Busy.Render("Submitting report…")
	}

	parts := []string{"tab: next field", "ctrl+l: location", "ctrl+s: submit", "esc: discard"}
	line := m.theme.Form.Hint.Render(strings.Join(parts, "  •  "))
	if !m.savedAt.IsZero() {
		line += m.theme.Form.Hint.Render("   draft saved " + m.savedAt.Format("15:04:05"))
	}
	return line
}
