// Package theme centralizes Lip Gloss styles for the report client UI.
package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme groups the style sets used across the TUI.
type Theme struct {
	Form   FormTheme
	Notice NoticeTheme
	Banner BannerTheme
}

// FormTheme styles the report form.
type FormTheme struct {
	Frame        lipgloss.Style
	Title        lipgloss.Style
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Value        lipgloss.Style
	Hint         lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Busy         lipgloss.Style
}

// NoticeTheme styles the stacked transient notifications.
type NoticeTheme struct {
	Info    lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
}

// BannerTheme styles the draft-recovery banner.
type BannerTheme struct {
	Frame lipgloss.Style
	Text  lipgloss.Style
	Keys  lipgloss.Style
}

// Default returns the built-in theme.
func Default() Theme {
	focus := lipgloss.Color("212")
	dim := lipgloss.Color("244")
	danger := lipgloss.Color("204")
	success := lipgloss.Color("78")

	return Theme{
		Form: FormTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(focus).
				Padding(1, 2),
			Title:        lipgloss.NewStyle().Bold(true),
			Label:        lipgloss.NewStyle().Foreground(dim),
			LabelFocused: lipgloss.NewStyle().Foreground(focus),
			Value:        lipgloss.NewStyle(),
			Hint:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Error:        lipgloss.NewStyle().Foreground(danger),
			Success:      lipgloss.NewStyle().Foreground(success),
			Busy:         lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		},
		Notice: NoticeTheme{
			Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
			Success: lipgloss.NewStyle().Foreground(success),
			Danger:  lipgloss.NewStyle().Foreground(danger),
		},
		Banner: BannerTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("214")).
				Padding(0, 1),
			Text: lipgloss.NewStyle(),
			Keys: lipgloss.NewStyle().Bold(true),
		},
	}
}
