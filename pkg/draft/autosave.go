package draft

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultQuietWindow is how long input must stay quiet before an autosave
// fires.
const DefaultQuietWindow = 2 * time.Second

// timerHandle abstracts *time.Timer so tests can fire the debounce without
// waiting on the wall clock.
type timerHandle interface {
	Stop() bool
}

// Autosaver debounces form mutations into draft writes. Each Note resets the
// quiet-window timer; the snapshot captured by the final Note of a burst is
// what gets persisted.
type Autosaver struct {
	store *Store
	key   string
	delay time.Duration
	log   *zap.Logger

	// newTimer is replaced in tests; the default arms a real time.Timer.
	newTimer func(d time.Duration, fn func()) timerHandle

	mu       sync.Mutex
	timer    timerHandle
	snapshot func() Record
	saved    func(Record)
}

// NewAutosaver builds an Autosaver writing to the given store slot.
func NewAutosaver(store *Store, key string, delay time.Duration, log *zap.Logger) *Autosaver {
	if delay <= 0 {
		delay = DefaultQuietWindow
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Autosaver{
		store: store,
		key:   key,
		delay: delay,
		log:   log,
		newTimer: func(d time.Duration, fn func()) timerHandle {
			return time.AfterFunc(d, fn)
		},
	}
}

// OnSaved registers a callback invoked after each successful fire with the
// record that was written. Invoked from the timer goroutine while the
// autosaver's lock is held, so it must not call back into the Autosaver.
func (a *Autosaver) OnSaved(fn func(Record)) {
	a.mu.Lock()
	a.saved = fn
	a.mu.Unlock()
}

// Note records that the form changed. snapshot is evaluated when the timer
// fires, so the persisted values are the ones current at the end of the
// burst. The file-attachment field must not appear in the snapshot.
func (a *Autosaver) Note(snapshot func() Record) {
	if snapshot == nil {
		return
	}
	a.mu.Lock()
	a.snapshot = snapshot
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = a.newTimer(a.delay, a.fire)
	a.mu.Unlock()
}

// Flush persists immediately if a save is pending.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	pending := a.snapshot != nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	if pending {
		a.fire()
	}
}

// Stop cancels any pending save without firing it.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.snapshot = nil
	a.mu.Unlock()
}

// fire holds the mutex through the write so it serializes with Stop: once
// Stop has returned, no save from an already-firing timer can still land.
func (a *Autosaver) fire() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.snapshot == nil {
		return
	}
	rec := a.snapshot()
	a.snapshot = nil
	a.timer = nil
	a.store.Save(a.key, rec)
	a.log.Debug("draft: autosaved", zap.String("key", a.key), zap.Int("fields", len(rec)))
	if a.saved != nil {
		a.saved(rec)
	}
}
