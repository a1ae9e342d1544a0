package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/config"
	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/engine"
	"github.com/roach88/cosmoclicker/internal/notify"
	"github.com/roach88/cosmoclicker/internal/store"
)

// game is an opened save: the SQLite store, the session over it and the
// recorder that collects the cues the session raised.
type game struct {
	store   *store.Store
	session *engine.Session
	cues    *notify.Recorder
}

// setupLogging installs the process-wide slog handler on w at base, or at
// Debug when verbose.
func setupLogging(w io.Writer, base slog.Level, verbose bool) {
	logLevel := base
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// loadBalance returns the default tunables, or the file's when path is set.
func loadBalance(path string) (config.Balance, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newRoller seeds the random source. A zero seed draws one from the clock.
func newRoller(seed uint64) economy.Roller {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return economy.NewRoller(seed)
}

// commandContext returns the command's context, or Background when the
// command is executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openGame opens the save file and restores a session from it.
//
// Without --session every invocation journals under a fresh UUIDv7 id. With
// it, entries continue after the last seq already stored for that id.
func openGame(ctx context.Context, opts *RootOptions) (*game, error) {
	bal, err := loadBalance(opts.Balance)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load balance", err)
	}

	slog.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	cues := notify.NewRecorder()
	sessionOpts := []engine.SessionOption{
		engine.WithJournal(st),
		engine.WithNotifier(notify.Multi{notify.NewLog(slog.Default(), slog.LevelDebug), cues}),
	}
	if opts.Session != "" {
		seq, err := lastSeq(ctx, st, opts.Session)
		if err != nil {
			_ = st.Close()
			return nil, WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		sessionOpts = append(sessionOpts,
			engine.WithSessionID(opts.Session),
			engine.WithSequencer(engine.NewClockAt(seq)),
		)
	}

	session, err := engine.OpenSession(ctx, st, catalog.Default(), bal, newRoller(opts.Seed), sessionOpts...)
	if err != nil {
		_ = st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load save", err)
	}

	return &game{store: st, session: session, cues: cues}, nil
}

// lastSeq finds the highest seq journaled under id, or 0 for a new id.
func lastSeq(ctx context.Context, st *store.Store, id string) (int64, error) {
	sessions, err := st.Sessions(ctx)
	if err != nil {
		return 0, err
	}
	for _, s := range sessions {
		if s.ID == id {
			return s.LastSeq, nil
		}
	}
	return 0, nil
}

// Close releases the database.
func (g *game) Close() {
	if err := g.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// CueView is one raised cue in command output.
type CueView struct {
	Cue   string         `json:"cue"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// drainCues returns the cues raised since the last drain.
func (g *game) drainCues() []CueView {
	entries := g.cues.Entries()
	g.cues.Reset()

	out := make([]CueView, 0, len(entries))
	for _, e := range entries {
		v := CueView{Cue: string(e.Cue)}
		for i := 0; i+1 < len(e.Attrs); i += 2 {
			key, ok := e.Attrs[i].(string)
			if !ok {
				continue
			}
			if v.Attrs == nil {
				v.Attrs = make(map[string]any)
			}
			v.Attrs[key] = e.Attrs[i+1]
		}
		out = append(out, v)
	}
	return out
}
