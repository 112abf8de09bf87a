package draft

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rec := Record{
		"title":       "Oil spill",
		"description": "Sheen spreading along the north channel roots.",
	}
	s.Save("report", rec)

	got, ok := s.Load("report")
	if !ok {
		t.Fatalf("expected draft present")
	}
	for k, want := range rec {
		if got[k] != want {
			t.Fatalf("field %q: got %q want %q", k, got[k], want)
		}
	}
}

func TestLoadAbsent(t *testing.T) {
	s := newTestStore(t)
	if rec, ok := s.Load("missing"); ok || rec != nil {
		t.Fatalf("expected absent, got %v", rec)
	}
}

func TestClearDiscardsDraft(t *testing.T) {
	s := newTestStore(t)
	s.Save("report", Record{"title": "x"})
	s.Clear("report")
	if _, ok := s.Load("report"); ok {
		t.Fatalf("expected absent after clear")
	}
	// Clearing an already-empty slot must be a no-op.
	s.Clear("report")
}

func TestCorruptRecordTreatedAsAbsent(t *testing.T) {
	base := t.TempDir()
	s, err := Open(base, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s.Save("report", Record{"title": "x"})

	path := filepath.Join(base, draftsBucket, encodeKey("report"))
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}

	if _, ok := s.Load("report"); ok {
		t.Fatalf("expected corrupt record to read as absent")
	}
}

func TestSaveEmptyRecordClears(t *testing.T) {
	s := newTestStore(t)
	s.Save("report", Record{"title": "x"})
	s.Save("report", nil)
	if _, ok := s.Load("report"); ok {
		t.Fatalf("expected nil save to clear the slot")
	}
}

func TestKeysSorted(t *testing.T) {
	s := newTestStore(t)
	s.Save("zeta", Record{"title": "z"})
	s.Save("alpha", Record{"title": "a"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	keys := s.Keys(ctx)
	if len(keys) != 2 || keys[0] != "alpha" || keys[1] != "zeta" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
