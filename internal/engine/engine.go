package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roach88/cosmoclicker/internal/economy"
)

// Engine is the single-writer game loop.
//
// The engine owns one Session and is the only goroutine that touches it.
// Three sources feed the loop: the command queue, the tick ticker (passive
// income, combo decay, event countdown) and the auto-click ticker. Each
// wake-up runs exactly one operation to completion before the next is read,
// so no two mutations ever interleave and every tick reads one consistent
// set of effective modifiers.
//
// Thread-safety model:
//   - Submit(), Do(), Snapshot(), Stop(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
type Engine struct {
	session  *Session
	queue    *commandQueue
	interval time.Duration
	auto     *autoClicker
	snap     atomic.Pointer[economy.Snapshot]
	ticks    atomic.Int64
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithTickInterval overrides the tick interval taken from the balance.
func WithTickInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.interval = d
	}
}

// WithAutoClickBase sets the auto-click period at speed 1.
//
// Default: one second. Tests use a few milliseconds.
func WithAutoClickBase(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.auto.base = d
	}
}

// New creates an Engine around a session. The first snapshot is published
// immediately so Snapshot never returns nil.
func New(s *Session, opts ...EngineOption) *Engine {
	e := &Engine{
		session:  s,
		queue:    newCommandQueue(),
		interval: s.Game().Balance().TickInterval,
		auto:     newAutoClicker(time.Second),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.publish()
	return e
}

// Submit queues a command without waiting for its outcome.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the engine has been stopped.
func (e *Engine) Submit(c Command) bool {
	c.reply = nil
	return e.queue.Enqueue(c)
}

// Do queues a command and waits for its reply or for ctx.
// Thread-safe: may be called from any goroutine.
func (e *Engine) Do(ctx context.Context, c Command) (Reply, error) {
	c.reply = make(chan Reply, 1)
	if !e.queue.Enqueue(c) {
		return Reply{}, NewStoppedError(c.Kind.String())
	}
	select {
	case r := <-c.reply:
		return r, r.Err
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

// Snapshot returns the last published snapshot. Lock-free; it may trail
// the loop by at most the operation in progress.
func (e *Engine) Snapshot() economy.Snapshot {
	return *e.snap.Load()
}

// Ticks returns how many ticks the loop has applied.
func (e *Engine) Ticks() int64 {
	return e.ticks.Load()
}

// Session returns the owned session. Only safe to use once Run has
// returned.
func (e *Engine) Session() *Session {
	return e.session
}

// Run starts the single-writer loop.
// Blocks until context is cancelled or Stop() is called.
//
// Must be called from exactly ONE goroutine.
//
// ERROR HANDLING: a failing save or journal write is logged with the
// operation and session and the loop continues. The in-memory state stays
// authoritative and the next successful save catches the store up.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting",
		"session", e.session.ID(),
		"tick_interval", e.interval,
	)

	tick := time.NewTicker(e.interval)
	defer tick.Stop()
	defer e.auto.Stop()
	e.rearm()

	for {
		// Timers and cancellation get a look-in before every command, so a
		// flood of clicks never starves passive income or shutdown.
		select {
		case <-ctx.Done():
			return e.shutdown(ctx)
		case <-tick.C:
			e.tick(ctx)
			continue
		case <-e.auto.C():
			e.autoClick(ctx)
			continue
		default:
		}

		if c, ok := e.queue.TryDequeue(); ok {
			e.process(ctx, c)
			continue
		}

		select {
		case <-ctx.Done():
			return e.shutdown(ctx)

		case <-tick.C:
			e.tick(ctx)

		case <-e.auto.C():
			e.autoClick(ctx)

		case <-e.queue.Wait():
			// The signal channel closes when the queue is closed, so this
			// case fires immediately from then on.
			if e.queue.Closed() && e.queue.Len() == 0 {
				slog.Info("engine stopping: queue closed", "session", e.session.ID())
				return nil
			}
		}
	}
}

func (e *Engine) shutdown(ctx context.Context) error {
	slog.Info("engine stopping: context cancelled", "session", e.session.ID())
	e.queue.Close()
	e.reject(e.queue.Drain())
	return ctx.Err()
}

func (e *Engine) tick(ctx context.Context) {
	if _, err := e.session.Tick(ctx); err != nil {
		logOperationError("tick", e.session.ID(), err)
	}
	e.ticks.Add(1)
	e.after()
}

func (e *Engine) autoClick(ctx context.Context) {
	if _, err := e.session.AutoClick(ctx); err != nil {
		logOperationError("auto_click", e.session.ID(), err)
	}
	e.after()
}

// Stop gracefully shuts down the engine. Commands already queued are still
// processed before Run returns.
func (e *Engine) Stop() {
	e.queue.Close()
}

// process runs one command and replies if the caller is waiting.
// Called only from Run() goroutine - single-writer guarantee.
func (e *Engine) process(ctx context.Context, c Command) {
	slog.Debug("processing command",
		"command", c.Kind.String(),
		"session", e.session.ID(),
	)

	r := c.run(ctx, e.session)
	if r.Err != nil {
		logOperationError(c.Kind.String(), e.session.ID(), r.Err)
	}
	e.after()

	if c.reply != nil {
		c.reply <- r
	}
}

// after publishes the new snapshot and follows auto-click speed changes.
func (e *Engine) after() {
	e.publish()
	e.rearm()
}

func (e *Engine) publish() {
	s := e.session.Snapshot()
	e.snap.Store(&s)
}

// rearm re-checks the effective auto-click speed after every mutation. A
// purchase, pet switch or talent can change it; prestige stops it.
func (e *Engine) rearm() {
	speed := e.session.Effective().AutoClickSpeed
	if e.auto.Rearm(speed) {
		slog.Debug("auto-clicker rearmed",
			"session", e.session.ID(),
			"speed", speed,
			"period", e.auto.Period(),
		)
	}
}

// reject answers every abandoned waiter with a stopped error.
func (e *Engine) reject(cmds []Command) {
	for _, c := range cmds {
		if c.reply != nil {
			c.reply <- Reply{Err: NewStoppedError(c.Kind.String())}
		}
	}
}

func logOperationError(op, session string, err error) {
	slog.Error("operation failed",
		"operation", op,
		"session", session,
		"error", err,
	)
}
