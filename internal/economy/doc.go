// Package economy implements the idle-economy rules: the ledger, the
// modifier aggregator, click resolution with critical hits and combo, the
// passive income tick, upgrade purchases, random events and prestige.
//
// OWNERSHIP:
//
// A Game is not safe for concurrent use. Exactly one goroutine owns it (the
// engine loop), and every mutation runs to completion before the next one
// starts. Readers on other goroutines consume Snapshot values published by
// the owner.
//
// FAILED ACTIONS:
//
// Precondition failures (unaffordable purchase, capped upgrade, prestige
// below threshold, unknown id) are inert. The method returns false or a zero
// result and leaves the state bit-identical. They are never errors.
//
// EVENTS:
//
// An active event records the exact delta it applied to its target base
// value. Expiry subtracts that delta, so the base returns to its pre-event
// value when nothing else touched it, and purchases made while the event was
// running are kept.
package economy
