// Package engine runs the economy.
//
// ARCHITECTURE:
//
// Session:
// A Session is the synchronous composition of one economy.Game, its
// progress.Tracker, a cue Notifier, the key/value save and the journal.
// Every operation mutates, re-evaluates achievements and quests, emits
// cues, writes the whole state through and journals what happened, in
// that order. One-shot callers (the CLI, the scenario harness) drive a
// Session directly.
//
// Single-Writer Loop:
// Engine.Run owns a Session for a real-time game. It selects over
//  1. the command queue (Submit / Do from any goroutine)
//  2. the tick ticker at the balance tick interval
//  3. the auto-click ticker at 1s / effective speed
//
// and runs each wake-up to completion before reading the next. After every
// operation the loop publishes a snapshot (atomic pointer, read lock-free
// by Snapshot) and re-checks the auto-click speed, stopping the old ticker
// before arming a new one.
//
// Logical Clock:
// Journal entries are stamped with a monotonic seq from Clock.Next(), never
// with wall time, so a journal replays in the order the loop applied it.
package engine
