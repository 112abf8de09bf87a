package notice

import (
	"strings"
	"testing"

	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/events"
	"github.com/dhruvil-1207/MangroveWatch-ByteMates/pkg/tui/theme"
)

func TestNoticesStackAndExpireIndividually(t *testing.T) {
	m := NewModel(theme.Default().Notice)

	cmd1 := m.Update(events.NoticeMsg{Level: events.NoticeInfo, Text: "first"})
	cmd2 := m.Update(events.NoticeMsg{Level: events.NoticeDanger, Text: "second"})
	if cmd1 == nil || cmd2 == nil {
		t.Fatalf("expected expiry ticks to be scheduled")
	}
	if m.Len() != 2 {
		t.Fatalf("expected two stacked notices, got %d", m.Len())
	}

	view := m.View()
	if !strings.Contains(view, "first") || !strings.Contains(view, "second") {
		t.Fatalf("expected both notices rendered:\n%s", view)
	}

	m.Update(expireMsg{id: 1})
	if m.Len() != 1 {
		t.Fatalf("expected first notice expired, got %d", m.Len())
	}
	if strings.Contains(m.View(), "first") {
		t.Fatalf("expired notice still rendered")
	}
}

func TestEmptyNoticeIgnored(t *testing.T) {
	m := NewModel(theme.Default().Notice)
	if cmd := m.Update(events.NoticeMsg{Level: events.NoticeInfo, Text: ""}); cmd != nil {
		t.Fatalf("empty notice must not schedule anything")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view")
	}
}

func TestExpireUnknownIDIsNoop(t *testing.T) {
	m := NewModel(theme.Default().Notice)
	m.Update(events.NoticeMsg{Level: events.NoticeSuccess, Text: "kept"})
	m.Update(expireMsg{id: 99})
	if m.Len() != 1 {
		t.Fatalf("unexpected expiry, got %d notices", m.Len())
	}
}
