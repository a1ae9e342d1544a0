package harness

import (
	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/progress"
)

// Trace event types.
const (
	EventAction = "action"
	EventCue    = "cue"
)

// TraceEvent is one line of a scenario trace: the outcome of one action or
// one cue that action raised. Cues follow the action that raised them.
// Step is the 1-based scenario step the event belongs to.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Step int    `json:"step"`
	Type string `json:"type"`
	Name string `json:"name"`

	// Outcome is set on actions: "applied" or "rejected".
	Outcome string  `json:"outcome,omitempty"`
	Value   float64 `json:"value,omitempty"`

	// Attrs carries a cue's key/value attributes.
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success.
	// True if every step expectation and assertion holds.
	Pass bool `json:"pass"`

	// Trace contains every action and cue in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the snapshot after the last step.
	Final economy.Snapshot `json:"final"`

	// Progress holds the final achievement and quest flags.
	Progress progress.State `json:"progress"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// CueCount returns how many cue events named name are in the trace.
func (r *Result) CueCount(name string) int {
	n := 0
	for _, e := range r.Trace {
		if e.Type == EventCue && e.Name == name {
			n++
		}
	}
	return n
}
