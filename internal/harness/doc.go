// Package harness runs deterministic gameplay scenarios.
//
// A scenario is a YAML file: a name, optional overrides of the starting
// state, a list of player steps and assertions on the outcome. The harness
// plays the steps against a real engine.Session backed by an in-memory
// store, so every step goes through the same mutate, evaluate, notify and
// save pipeline the game uses.
//
// Determinism comes from three fixed inputs:
//   - a scripted roller: "crit: hit" and "crit: miss" force the critical
//     roll of a click; every unscripted roll misses unless a seed is set
//   - a deterministic clock numbering trace events from 1
//   - a fixed session id
//
// The trace lists each action with its outcome followed by the cues it
// raised. RunWithGolden compares the trace, the final snapshot and the
// progress flags against testdata/golden/<name>.golden using goldie.
package harness
