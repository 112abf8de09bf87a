// Package app wires the report form, notice stack, and draft-recovery banner
// into the root Bubble Tea model.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/draft"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/geo"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/report"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/components/notice"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/components/reportform"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/events"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/theme"
)

// Options configure the root model.
type Options struct {
	Theme     theme.Theme
	Store     *draft.Store
	DraftKey  string
	Saver     *draft.Autosaver
	Capturer  *geo.Capturer
	Submitter report.Submitter
	Log       *zap.Logger
}

// Model is the root TUI model.
type Model struct {
	theme theme.Theme
	log   *zap.Logger

	store    *draft.Store
	draftKey string
	saver    *draft.Autosaver

	form    *reportform.Model
	notices *notice.Model

	recovered  draft.Record
	showBanner bool

	savedCh chan events.DraftSavedMsg

	width  int
	height int
}

// New constructs the root model. An existing draft in the store raises the
// recovery banner; the form stays usable underneath it.
func New(opts Options) *Model {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.DraftKey == "" {
		opts.DraftKey = "report"
	}

	m := &Model{
		theme:    opts.Theme,
		log:      opts.Log,
		store:    opts.Store,
		draftKey: opts.DraftKey,
		saver:    opts.Saver,
		notices:  notice.NewModel(opts.Theme.Notice),
		savedCh:  make(chan events.DraftSavedMsg, 8),
	}

	m.form = reportform.NewModel(reportform.Options{
		ID:        events.ComponentID("reportform"),
		Theme:     opts.Theme,
		Store:     opts.Store,
		DraftKey:  opts.DraftKey,
		Saver:     opts.Saver,
		Capturer:  opts.Capturer,
		Submitter: opts.Submitter,
		Log:       opts.Log,
	})

	if opts.Saver != nil {
		ch := m.savedCh
		opts.Saver.OnSaved(func(rec draft.Record) {
			select {
			case ch <- events.DraftSavedMsg{At: time.Now(), Fields: len(rec)}:
			default:
			}
		})
	}

	if opts.Store != nil {
		if rec, ok := opts.Store.Load(opts.DraftKey); ok && len(rec) > 0 {
			m.recovered = rec
			m.showBanner = true
		}
	}

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.waitForSave())
}

// waitForSave blocks on the autosave channel and re-arms after each message.
func (m *Model) waitForSave() tea.Cmd {
	ch := m.savedCh
	return func() tea.Msg {
		return <-ch
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.SetSize(msg.Width-4, msg.Height)
		m.notices.SetWidth(msg.Width - 4)
		return m, nil

	case events.NoticeMsg:
		if cmd := m.notices.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case events.DraftSavedMsg:
		if cmd := m.form.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.waitForSave())
		return m, tea.Batch(cmds...)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.saver != nil {
				m.saver.Flush()
			}
			return m, tea.Quit
		}
		if m.showBanner {
			switch msg.String() {
			case "y":
				m.showBanner = false
				m.form.RestoreDraft(m.recovered)
				m.recovered = nil
				return m, events.NoticeCmd("app", events.NoticeSuccess, "Draft restored.")
			case "n", "esc":
				m.showBanner = false
				m.recovered = nil
				return m, nil
			}
		}
		if cmd := m.form.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	// Everything else fans out: component-internal messages and notice
	// expiry ticks.
	if cmd := m.form.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.notices.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *Model) View() string {
	var sections []string
	if m.showBanner {
		sections = append(sections, m.bannerView())
	}
	sections = append(sections, m.form.View())
	if n := m.notices.View(); n != "" {
		sections = append(sections, n)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) bannerView() string {
	b := m.theme.Banner
	text := b.Text.Render("An unsent draft from a previous session was found. Restore it? ") +
		b.Keys.Render("y") + b.Text.Render("/") + b.Keys.Render("n")
	return b.Frame.Render(text)
}

// Run launches the interactive report client.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
