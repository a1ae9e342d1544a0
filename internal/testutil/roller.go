package testutil

import "sync"

// Samples that force a known outcome from a uniform [0, 1) draw.
const (
	// Hit is below every positive probability: critical hits land and the
	// event scheduler fires (and then picks the first catalog event).
	Hit = 0.0

	// Miss is above every probability the default balance uses.
	Miss = 0.99
)

// Float64Source is anything that yields uniform samples in [0, 1).
type Float64Source interface {
	Float64() float64
}

// ScriptedRoller replays a fixed sequence of samples.
//
// Once the script is exhausted it delegates to the fallback source, or
// returns Miss when there is none. An empty ScriptedRoller therefore means
// "no luck ever": no critical hits and no random events.
//
// Thread-safety: ScriptedRoller is safe for concurrent use via internal mutex.
type ScriptedRoller struct {
	mu       sync.Mutex
	values   []float64
	fallback Float64Source
	calls    int
}

// NewScriptedRoller creates a roller that returns values in order.
func NewScriptedRoller(values ...float64) *ScriptedRoller {
	return &ScriptedRoller{values: append([]float64(nil), values...)}
}

// WithFallback sets the source used once the script runs out.
func (r *ScriptedRoller) WithFallback(src Float64Source) *ScriptedRoller {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = src
	return r
}

// Push appends samples to the end of the script.
func (r *ScriptedRoller) Push(values ...float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, values...)
}

// Float64 returns the next scripted sample.
func (r *ScriptedRoller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if len(r.values) > 0 {
		v := r.values[0]
		r.values = r.values[1:]
		return v
	}
	if r.fallback != nil {
		return r.fallback.Float64()
	}
	return Miss
}

// Remaining returns how many scripted samples have not been consumed.
func (r *ScriptedRoller) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Calls returns how many samples have been drawn in total.
func (r *ScriptedRoller) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
