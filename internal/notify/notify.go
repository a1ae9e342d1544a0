// Package notify carries the fire-and-forget cues the economy emits for
// sound and visual collaborators. Nothing returned by a Notifier is ever
// consumed by the core.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Cue is a discrete named notification.
type Cue string

const (
	CueClick               Cue = "click"
	CueCriticalClick       Cue = "criticalClick"
	CuePurchase            Cue = "purchase"
	CueAchievementUnlocked Cue = "achievementUnlocked"
	CueEventStarted        Cue = "eventStarted"
	CueEventEnded          Cue = "eventEnded"
	CuePrestige            Cue = "prestige"
	CueQuestCompleted      Cue = "questCompleted"
)

// Notifier receives cues. attrs are slog-style alternating key/value pairs.
// Implementations must not block.
type Notifier interface {
	Notify(c Cue, attrs ...any)
}

// Discard drops every cue.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Cue, ...any) {}

// Log writes each cue as a structured log record at the given level.
type Log struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewLog creates a Log notifier. A nil logger uses slog.Default().
func NewLog(logger *slog.Logger, level slog.Level) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{Logger: logger, Level: level}
}

// Notify implements Notifier.
func (l *Log) Notify(c Cue, attrs ...any) {
	l.Logger.Log(context.Background(), l.Level, "cue", append([]any{"cue", string(c)}, attrs...)...)
}

// Entry is one recorded cue.
type Entry struct {
	Cue   Cue
	Attrs []any
}

// Recorder keeps every cue in arrival order. Used by tests and the scenario
// harness.
//
// Thread-safety: Recorder is safe for concurrent use via internal mutex.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify implements Notifier.
func (r *Recorder) Notify(c Cue, attrs ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Cue: c, Attrs: append([]any(nil), attrs...)})
}

// Entries returns a copy of the recorded cues.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Cues returns just the cue names in order.
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Cue, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Cue
	}
	return out
}

// Count returns how many times c was recorded.
func (r *Recorder) Count(c Cue) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Cue == c {
			n++
		}
	}
	return n
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// Multi fans a cue out to several notifiers in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(c Cue, attrs ...any) {
	for _, n := range m {
		n.Notify(c, attrs...)
	}
}
