package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/engine"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Duration        time.Duration // 0 runs until interrupted
	ClicksPerSecond float64       // headless manual clicks, 0 for none
	TickInterval    time.Duration // 0 uses the balance file's interval
}

// RunResult summarises a finished run.
type RunResult struct {
	Session string           `json:"session"`
	Ticks   int64            `json:"ticks"`
	Clicks  int64            `json:"clicks"`
	State   economy.Snapshot `json:"state"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the game loop in real time",
		Long: `Start the single-writer game loop against the save.

Passive income, combo decay and cosmic events advance once per tick. The
auto-clicker fires at its purchased speed. With --clicks-per-second a
headless driver submits manual clicks as well. Every operation is saved
and journaled as it happens.

The loop stops after --duration, or on Ctrl-C.

Example:
  cosmoclicker run
  cosmoclicker run --duration 1m --clicks-per-second 5 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(opts, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	cmd.Flags().Float64Var(&opts.ClicksPerSecond, "clicks-per-second", 0, "manual clicks to submit per second")
	cmd.Flags().DurationVar(&opts.TickInterval, "tick-interval", 0, "override the balance tick interval")

	return cmd
}

func runEngine(opts *RunOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	setupLogging(cmd.ErrOrStderr(), slog.LevelInfo, opts.Verbose)

	if opts.ClicksPerSecond < 0 {
		return NewExitError(ExitCommandError, "--clicks-per-second must not be negative")
	}
	if opts.Duration < 0 || opts.TickInterval < 0 {
		return NewExitError(ExitCommandError, "--duration and --tick-interval must not be negative")
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	g, err := openGame(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer g.Close()

	var engineOpts []engine.EngineOption
	if opts.TickInterval > 0 {
		engineOpts = append(engineOpts, engine.WithTickInterval(opts.TickInterval))
	}
	eng := engine.New(g.session, engineOpts...)

	if opts.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Duration elapsed or parent context cancelled (e.g., from test)
		}
	}()

	var clicks int64
	driverDone := make(chan struct{})
	if opts.ClicksPerSecond > 0 {
		go func() {
			defer close(driverDone)
			clicks = driveClicks(ctx, eng, opts.ClicksPerSecond)
		}()
	} else {
		close(driverDone)
	}

	slog.Info("engine starting", "db", opts.Database, "session", g.session.ID())
	if opts.Format != "json" {
		fmt.Fprintln(cmd.OutOrStdout(), "Game loop started.")
		fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")
	}

	runErr := eng.Run(ctx)
	<-driverDone
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "engine error", runErr)
	}
	slog.Info("engine stopped gracefully", "ticks", eng.Ticks())

	// An operation racing the shutdown may have failed its write against the
	// cancelled context; the final save catches the store up.
	if err := g.session.Save(context.WithoutCancel(commandContext(cmd))); err != nil {
		return WrapExitError(ExitFailure, "final save failed", err)
	}

	result := RunResult{
		Session: g.session.ID(),
		Ticks:   eng.Ticks(),
		Clicks:  clicks,
		State:   eng.Snapshot(),
	}
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Stopped after %s ticks.\n", formatCount(result.Ticks))
	fmt.Fprintf(w, "Balance: %s coins, passive income %s/s\n",
		formatAmount(result.State.Balance), formatAmount(result.State.PassiveIncome))
	return nil
}

// driveClicks submits manual clicks at rate per second until ctx is done and
// returns how many were queued.
func driveClicks(ctx context.Context, eng *engine.Engine, rate float64) int64 {
	period := time.Duration(float64(time.Second) / rate)
	if period <= 0 {
		period = time.Nanosecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var n int64
	for {
		select {
		case <-ctx.Done():
			return n
		case <-ticker.C:
			if !eng.Submit(engine.Command{Kind: engine.CommandClick}) {
				return n
			}
			n++
		}
	}
}
