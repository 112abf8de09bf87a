// Package reportform hosts the incident report form: field focus, inline
// validation markers, location capture, photo preview, autosave, and the
// submit flow.
package reportform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/attachment"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/draft"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/geo"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/report"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/events"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/theme"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindChoice
)

type formField struct {
	name    string
	label   string
	kind    fieldKind
	input   textinput.Model
	options []string
	index   int
}

func (f *formField) value() string {
	if f.kind == kindChoice {
		if len(f.options) == 0 {
			return ""
		}
		return f.options[f.index]
	}
	return f.input.Value()
}

func (f *formField) setValue(v string) {
	if f.kind == kindChoice {
		for i, opt := range f.options {
			if opt == v {
				f.index = i
				return
			}
		}
		return
	}
	f.input.SetValue(v)
}

type locState int

const (
	locIdle locState = iota
	locCapturing
	locCaptured
	locFailed
)

type previewPhase int

const (
	previewEmpty previewPhase = iota
	previewLoading
	previewReady
	previewFailed
)

type capturedMsg struct {
	sample geo.PositionSample
	err    error
}

type previewMsg struct {
	token   int
	preview attachment.Preview
	err     error
}

type submitDoneMsg struct {
	err error
}

// Options configure a form instance.
type Options struct {
	ID        events.ComponentID
	Theme     theme.Theme
	Store     *draft.Store
	DraftKey  string
	Saver     *draft.Autosaver
	Capturer  *geo.Capturer
	Submitter report.Submitter
	Log       *zap.Logger

	// Now is injectable for validation tests; defaults to time.Now.
	Now func() time.Time
}

// Model is the report form orchestrator.
type Model struct {
	id    events.ComponentID
	theme theme.Theme
	log   *zap.Logger

	store     *draft.Store
	draftKey  string
	saver     *draft.Autosaver
	capturer  *geo.Capturer
	submitter report.Submitter
	now       func() time.Time

	fields []*formField
	focus  int

	markers map[string][]string

	loc        locState
	locSample  geo.PositionSample
	locMessage string

	previewToken int
	preview      previewPhase
	previewImg   attachment.Preview
	previewErr   string

	submitting bool
	savedAt    time.Time

	confirmDiscard bool

	width int
}

// NewModel constructs the form.
func NewModel(opts Options) *Model {
	if opts.ID == "" {
		opts.ID = events.ComponentID("reportform")
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := &Model{
		id:        opts.ID,
		theme:     opts.Theme,
		log:       opts.Log,
		store:     opts.Store,
		draftKey:  opts.DraftKey,
		saver:     opts.Saver,
		capturer:  opts.Capturer,
		submitter: opts.Submitter,
		now:       opts.Now,
		markers:   make(map[string][]string),
		width:     80,
	}

	m.fields = []*formField{
		m.textField(report.FieldTitle, "Title", "What happened?"),
		m.choiceField(report.FieldIncidentType, "Incident type", append([]string{""}, report.IncidentTypes...)),
		m.choiceField(report.FieldSeverity, "Severity", report.Severities),
		m.textField(report.FieldIncidentDate, "Incident date", report.DateLayout),
		m.textField(report.FieldDescription, "Description", "Describe what you observed (20+ characters)…"),
		m.textField(report.FieldLocationName, "Location name", "Nearest landmark (optional)"),
		m.textField(report.FieldLatitude, "Latitude", "ctrl+l to capture"),
		m.textField(report.FieldLongitude, "Longitude", "ctrl+l to capture"),
		m.textField(report.FieldPhoto, "Photo path", "Path to a JPEG/PNG/GIF, enter to attach"),
	}
	// Default the severity to the server's default.
	m.fieldByName(report.FieldSeverity).setValue("medium")
	m.updateInputFocus()
	return m
}

func (m *Model) textField(name, label, placeholder string) *formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	return &formField{name: name, label: label, kind: kindText, input: ti}
}

func (m *Model) choiceField(name, label string, options []string) *formField {
	return &formField{name: name, label: label, kind: kindChoice, options: options}
}

func (m *Model) fieldByName(name string) *formField {
	for _, f := range m.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// ID returns the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.updateInputFocus()
}

// SetSize configures the rendered width.
func (m *Model) SetSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	m.width = width
	inputWidth := width - 24
	if inputWidth < 20 {
		inputWidth = 20
	}
	for _, f := range m.fields {
		if f.kind == kindText {
			f.input.SetWidth(inputWidth)
		}
	}
}

// Values snapshots the current scalar field values, photo excluded.
func (m *Model) Values() report.Fields {
	values := report.Fields{}
	for _, f := range m.fields {
		if f.name == report.FieldPhoto {
			continue
		}
		if v := f.value(); v != "" {
			values[f.name] = v
		}
	}
	return values
}

// PhotoPath returns the currently attached photo path, if any.
func (m *Model) PhotoPath() string {
	return strings.TrimSpace(m.fieldByName(report.FieldPhoto).value())
}

// Snapshot builds the DraftRecord for autosave. The photo field carries a
// file reference and is excluded by construction.
func (m *Model) Snapshot() draft.Record {
	rec := draft.Record{}
	for name, v := range m.Values() {
		rec[name] = v
	}
	return rec
}

// RestoreDraft writes each present value back into its matching field.
func (m *Model) RestoreDraft(rec draft.Record) {
	for name, v := range rec {
		if name == report.FieldPhoto {
			continue
		}
		if f := m.fieldByName(name); f != nil {
			f.setValue(v)
		}
	}
}

// Markers exposes the current field error markers.
func (m *Model) Markers() map[string][]string { return m.markers }

// Submitting reports whether a post is in flight.
func (m *Model) Submitting() bool { return m.submitting }

// Update processes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case capturedMsg:
		return m.handleCaptured(msg)
	case previewMsg:
		m.handlePreview(msg)
		return nil
	case submitDoneMsg:
		return m.handleSubmitDone(msg)
	case events.DraftSavedMsg:
		m.savedAt = msg.At
		return nil
	}

	var cmd tea.Cmd
	if f := m.focusedField(); f != nil && f.kind == kindText {
		f.input, cmd = f.input.Update(msg)
	}
	return cmd
}

func (m *Model) focusedField() *formField {
	if m.focus < 0 || m.focus >= len(m.fields) {
		return nil
	}
	return m.fields[m.focus]
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.submitting {
		// The form is read-only while the post is in flight.
		return nil
	}

	if m.confirmDiscard {
		switch msg.String() {
		case "y", "enter":
			m.confirmDiscard = false
			m.resetForm()
			if m.store != nil {
				m.store.Clear(m.draftKey)
			}
			return events.NoticeCmd(m.id, events.NoticeInfo, "Draft discarded.")
		case "n", "esc":
			m.confirmDiscard = false
		}
		return nil
	}

	switch msg.String() {
	case "tab":
		m.advanceFocus(1)
		return m.updateInputFocus()
	case "shift+tab":
		m.advanceFocus(-1)
		return m.updateInputFocus()
	case "up":
		m.adjustChoice(-1)
		return nil
	case "down":
		m.adjustChoice(1)
		return nil
	case "ctrl+l":
		return m.beginCapture()
	case "ctrl+s":
		return m.submit()
	case "esc":
		m.confirmDiscard = true
		return nil
	case "enter":
		if f := m.focusedField(); f != nil && f.name == report.FieldPhoto {
			return m.selectPhoto()
		}
		m.advanceFocus(1)
		return m.updateInputFocus()
	}

	f := m.focusedField()
	if f == nil || f.kind != kindText {
		return nil
	}
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		m.noteMutation()
	}
	return cmd
}

// noteMutation feeds the autosaver after any field edit.
func (m *Model) noteMutation() {
	if m.saver == nil {
		return
	}
	m.saver.Note(m.Snapshot)
}

func (m *Model) advanceFocus(delta int) {
	if len(m.fields) == 0 {
		return
	}
	m.focus = (m.focus + len(m.fields) + delta) % len(m.fields)
}

func (m *Model) adjustChoice(delta int) {
	f := m.focusedField()
	if f == nil || f.kind != kindChoice || len(f.options) == 0 {
		return
	}
	next := f.index + delta
	if next < 0 {
		next = 0
	}
	if next >= len(f.options) {
		next = len(f.options) - 1
	}
	if next != f.index {
		f.index = next
		m.noteMutation()
	}
}

func (m *Model) updateInputFocus() tea.Cmd {
	var cmd tea.Cmd
	for i, f := range m.fields {
		if f.kind != kindText {
			continue
		}
		if i == m.focus {
			cmd = f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
	return cmd
}

func (m *Model) focusField(name string) tea.Cmd {
	for i, f := range m.fields {
		if f.name == name {
			m.focus = i
			break
		}
	}
	return m.updateInputFocus()
}

// --- location capture ---

func (m *Model) beginCapture() tea.Cmd {
	if m.loc == locCapturing {
		return nil
	}
	if m.capturer == nil || !m.capturer.Supported() {
		m.loc = locFailed
		m.locMessage = geo.UserMessage(&geo.CaptureError{Category: geo.CategoryUnsupported})
		return events.NoticeCmd(m.id, events.NoticeDanger, m.locMessage)
	}
	m.loc = locCapturing
	m.locMessage = ""
	capturer := m.capturer
	return func() tea.Msg {
		sample, err := capturer.Capture(context.Background())
		return capturedMsg{sample: sample, err: err}
	}
}

func (m *Model) handleCaptured(msg capturedMsg) tea.Cmd {
	if msg.err != nil {
		m.loc = locFailed
		m.locMessage = geo.UserMessage(msg.err)
		return events.NoticeCmd(m.id, events.NoticeDanger, m.locMessage)
	}
	m.loc = locCaptured
	m.locSample = msg.sample
	m.fieldByName(report.FieldLatitude).setValue(geo.FormatCoordinate(msg.sample.Latitude))
	m.fieldByName(report.FieldLongitude).setValue(geo.FormatCoordinate(msg.sample.Longitude))
	m.noteMutation()
	return events.NoticeCmd(m.id, events.NoticeSuccess, "Location captured: "+msg.sample.Caption())
}

// --- photo selection and preview ---

func (m *Model) selectPhoto() tea.Cmd {
	path := m.PhotoPath()
	if path == "" {
		m.previewToken++
		m.preview = previewEmpty
		return nil
	}

	candidate, err := attachment.Inspect(path)
	if err != nil {
		// Every selection outcome advances the token so an in-flight
		// preview from an earlier selection can no longer land.
		m.previewToken++
		m.clearPhotoField()
		m.preview = previewFailed
		m.previewErr = "Could not read the selected file."
		m.log.Warn("reportform: inspect photo", zap.Error(err))
		return events.NoticeCmd(m.id, events.NoticeDanger, m.previewErr)
	}

	if violations := attachment.Validate(candidate); len(violations) > 0 {
		m.previewToken++
		m.clearPhotoField()
		m.preview = previewEmpty
		cmds := make([]tea.Cmd, 0, len(violations))
		for _, v := range violations {
			cmds = append(cmds, events.NoticeCmd(m.id, events.NoticeDanger, v))
		}
		return tea.Batch(cmds...)
	}

	m.previewToken++
	token := m.previewToken
	m.preview = previewLoading
	m.previewImg = attachment.Preview{Candidate: candidate}
	return func() tea.Msg {
		p, err := attachment.Render(candidate)
		return previewMsg{token: token, preview: p, err: err}
	}
}

func (m *Model) clearPhotoField() {
	m.fieldByName(report.FieldPhoto).setValue("")
}

func (m *Model) handlePreview(msg previewMsg) {
	if msg.token != m.previewToken {
		// A newer selection supersedes this result.
		return
	}
	if msg.err != nil {
		m.preview = previewFailed
		m.previewErr = "Could not render a preview of that image."
		m.log.Warn("reportform: preview", zap.Error(msg.err))
		return
	}
	m.preview = previewReady
	m.previewImg = msg.preview
}

// --- submission ---

func (m *Model) submit() tea.Cmd {
	// Stale markers never survive into a new validation pass.
	m.markers = make(map[string][]string)

	res := report.ValidateForm(m.Values(), m.now())
	if !res.Valid {
		m.markers = res.FieldErrors
		first := res.FirstInvalid()
		cmds := []tea.Cmd{
			m.focusField(first),
			events.NoticeCmd(m.id, events.NoticeDanger,
				fmt.Sprintf("Please fix %d problem(s) before submitting.", len(res.Messages()))),
		}
		return tea.Batch(cmds...)
	}

	m.submitting = true
	if m.saver != nil {
		m.saver.Stop()
	}
	if m.store != nil {
		m.store.Clear(m.draftKey)
	}

	values := m.Values()
	photo := m.PhotoPath()
	submitter := m.submitter
	return func() tea.Msg {
		err := submitter.Submit(context.Background(), values, photo)
		return submitDoneMsg{err: err}
	}
}

func (m *Model) handleSubmitDone(msg submitDoneMsg) tea.Cmd {
	m.submitting = false
	if msg.err != nil {
		m.log.Warn("reportform: submit failed", zap.Error(msg.err))
		return events.NoticeCmd(m.id, events.NoticeDanger,
			"Submission failed. Your entries are still here; try again.")
	}
	m.resetForm()
	return events.NoticeCmd(m.id, events.NoticeSuccess,
		"Report submitted. Thank you for helping protect the mangroves.")
}

func (m *Model) resetForm() {
	for _, f := range m.fields {
		switch f.kind {
		case kindText:
			f.input.SetValue("")
		case kindChoice:
			f.index = 0
		}
	}
	m.fieldByName(report.FieldSeverity).setValue("medium")
	m.markers = make(map[string][]string)
	m.loc = locIdle
	m.locMessage = ""
	m.previewToken++
	m.preview = previewEmpty
	m.savedAt = time.Time{}
	m.focus = 0
	m.updateInputFocus()
}
