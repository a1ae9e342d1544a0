package engine

import "sync/atomic"

// Clock numbers a session's journal. Each action and each cue it raised
// takes the next seq, so reading a journal by seq replays the session in
// the order the loop applied it. Wall time is never consulted.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock for a new session journal; its first seq is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt resumes a journal whose last entry has seq last.
func NewClockAt(last int64) *Clock {
	c := &Clock{}
	c.seq.Store(last)
	return c
}

// Next stamps one journal entry.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current is the seq of the last stamped entry.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
