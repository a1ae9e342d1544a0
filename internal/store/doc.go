// Package store provides SQLite-backed persistence for cosmoclicker.
//
// Two tables:
//   - kv: the opaque key/value save the economy reads at startup and writes
//     after every change. Values are strings the caller parses itself.
//   - journal: an append-only log of session actions and cues.
//
// # Ordering
//
// Journal entries are ordered by (session_id, seq) where seq comes from the
// engine's logical clock. Wall time is never stored or used for ordering,
// so a replayed scenario produces an identical journal.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// MemoryKV is a map-backed KV for tests and throwaway sessions.
package store
