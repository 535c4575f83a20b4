package activity

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultCapacity is how many entries the log retains.
	DefaultCapacity = 50

	// StallThreshold is how long the stream may be silent while an
	// operation is active before the connection counts as stalled.
	StallThreshold = 30 * time.Second

	// maxUnknownKindLength bounds which unrecognized kinds still get a
	// generic entry; anything longer is dropped as garbage.
	maxUnknownKindLength = 32
)

// Tracker is a bounded, most-recent-N activity log. It maps typed progress
// messages to human-readable entries in a fixed-capacity drop-oldest ring
// and tracks the last-activity timestamp for stall detection.
type Tracker struct {
	mu           sync.Mutex
	ring         []Entry
	head         int // Index of the oldest entry
	size         int
	lastActivity time.Time
	active       bool
	logger       *slog.Logger
}

// NewTracker creates a tracker with DefaultCapacity.
func NewTracker(logger *slog.Logger) *Tracker {
	return NewTrackerWithCapacity(logger, DefaultCapacity)
}

// NewTrackerWithCapacity creates a tracker retaining at most capacity entries.
func NewTrackerWithCapacity(logger *slog.Logger, capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{
		ring:   make([]Entry, capacity),
		logger: logger,
	}
}

// Record processes one inbound message. Every message, including suppressed
// kinds, refreshes the last-activity timestamp; only renderable messages
// append a log entry, evicting the oldest once the ring is full.
func (t *Tracker) Record(msg Message) {
	if msg.At.IsZero() {
		msg.At = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastActivity = msg.At

	entry, ok := render(msg)
	if !ok {
		if suppressed[msg.Kind] {
			return
		}
		// Unrecognized kind: log a generic line when it is short enough
		// to plausibly be a real kind, otherwise drop it.
		if len(msg.Kind) == 0 || len(msg.Kind) > maxUnknownKindLength {
			t.logger.Debug("dropping unrecognized activity message", "kind", msg.Kind)
			return
		}
		entry = Entry{
			Text:  fmt.Sprintf("Processing: %s", msg.Kind),
			State: StateInfo,
			At:    msg.At,
		}
	}

	switch entry.State {
	case StateActive:
		t.active = true
	case StateError:
		t.active = false
	}
	if msg.Kind == KindDone {
		t.active = false
	}

	t.append(entry)
}

// append inserts an entry, evicting the oldest when full.
func (t *Tracker) append(entry Entry) {
	if t.size < len(t.ring) {
		t.ring[(t.head+t.size)%len(t.ring)] = entry
		t.size++
		return
	}
	t.ring[t.head] = entry
	t.head = (t.head + 1) % len(t.ring)
}

// Entries returns the retained entries, oldest first.
func (t *Tracker) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := make([]Entry, t.size)
	for i := 0; i < t.size; i++ {
		entries[i] = t.ring[(t.head+i)%len(t.ring)]
	}
	return entries
}

// LastActivity returns the timestamp of the most recently processed
// message, zero when nothing has arrived yet.
func (t *Tracker) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastActivity
}

// Active reports whether an operation is nominally in progress.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Stalled reports whether the stream has been silent for longer than
// StallThreshold while an operation is nominally active.
func (t *Tracker) Stalled(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active || t.lastActivity.IsZero() {
		return false
	}
	return now.Sub(t.lastActivity) > StallThreshold
}
