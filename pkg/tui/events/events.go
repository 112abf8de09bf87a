// Package events defines the messages components exchange through the Bubble
// Tea update loop.
package events

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// NoticeLevel is the severity of a transient notification.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeDanger  NoticeLevel = "danger"
)

// NoticeMsg asks the notice stack to display a short-lived message.
type NoticeMsg struct {
	Component ComponentID
	Level     NoticeLevel
	Text      string
}

// NoticeCmd wraps a NoticeMsg into a tea.Cmd for emission from Update.
func NoticeCmd(component ComponentID, level NoticeLevel, text string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Component: component, Level: level, Text: text}
	}
}

// DraftSavedMsg announces that the autosaver persisted a snapshot.
type DraftSavedMsg struct {
	At     time.Time
	Fields int
}
