package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/engine"
	"github.com/roach88/cosmoclicker/internal/minigame"
)

// ActionResult is the outcome of a one-shot action command.
type ActionResult struct {
	Action  string           `json:"action"`
	Target  string           `json:"target,omitempty"`
	Applied bool             `json:"applied"`
	Value   float64          `json:"value,omitempty"`
	Cues    []CueView        `json:"cues"`
	State   economy.Snapshot `json:"state"`
}

// action is one session operation driven from the command line. apply
// reports whether the operation took effect and the amount it credited.
type action struct {
	name   string
	target string
	apply  func(ctx context.Context, s *engine.Session) (bool, float64, error)
}

// NewClickCommand creates the click command.
func NewClickCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "click [n]",
		Short: "Click the planet n times (default 1)",
		Long: `Resolve manual clicks against the save.

Each click earns click power times the combo and prestige multipliers and
may land a critical hit. The combo grows with every click made within the
combo window.

Examples:
  cosmoclicker click
  cosmoclicker click 50 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < 1 {
					return NewExitError(ExitCommandError, fmt.Sprintf("click count must be a positive integer, got %q", args[0]))
				}
				n = v
			}
			return runAction(rootOpts, cmd, action{
				name:   "click",
				target: strconv.Itoa(n),
				apply: func(ctx context.Context, s *engine.Session) (bool, float64, error) {
					total := 0.0
					for range n {
						r, err := s.Click(ctx)
						total += r.Value
						if err != nil {
							return true, total, err
						}
					}
					return true, total, nil
				},
			})
		},
	}
}

// NewBuyCommand creates the buy command.
func NewBuyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <upgrade>",
		Short: "Buy one level of an upgrade",
		Long: `Buy one level of an upgrade if the balance covers its current cost.

Run "cosmoclicker catalog" for the list of upgrade ids.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := catalog.UpgradeID(args[0])
			if _, ok := catalog.Default().Upgrade(id); !ok {
				return unknownID(rootOpts, cmd, "upgrade", args[0])
			}
			return runAction(rootOpts, cmd, action{
				name:   "buy",
				target: args[0],
				apply: func(ctx context.Context, s *engine.Session) (bool, float64, error) {
					ok, err := s.Buy(ctx, id)
					return ok, 0, err
				},
			})
		},
	}
}

// NewPrestigeCommand creates the prestige command.
func NewPrestigeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prestige",
		Short: "Reset the run for prestige points",
		Long: `Trade the current run for prestige points.

Requires a balance of at least the prestige cost. Balance, upgrades, critical
stats and the auto-clicker reset; prestige points, pets, talents, research
and achievements are kept.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(rootOpts, cmd, action{
				name: "prestige",
				apply: func(ctx context.Context, s *engine.Session) (bool, float64, error) {
					r, ok, err := s.Prestige(ctx)
					return ok, float64(r.Points), err
				},
			})
		},
	}
}

// NewPetCommand creates the pet command.
func NewPetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pet <pet|none>",
		Short: "Make an owned pet the active pet",
		Long: `Make an owned pet the active pet. Only the active pet's bonus applies.

Pass "none" to put the active pet away.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "none" {
				return runAction(rootOpts, cmd, action{
					name:   "pet",
					target: args[0],
					apply: func(ctx context.Context, s *engine.Session) (bool, float64, error) {
						return true, 0, s.ClearPet(ctx)
					},
				})
			}

			id := catalog.PetID(args[0])
			if _, ok := catalog.Default().Pet(id); !ok {
				return unknownID(rootOpts, cmd, "pet", args[0])
			}
			return runAction(rootOpts, cmd, action{
				name:   "pet",
				target: args[0],
				apply: func(ctx context.Context, s *engine.Session) (bool, float64, error) {
					ok, err := s.SelectPet(ctx, id)
					return ok, 0, err
				},
			})
		},
	}
}

// NewTalentCommand creates the talent command.
func NewTalentCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "talent <talent>",
		Short: "Invest one talent point",
		Long: `Invest one talent point into a talent.

Needs an unspent point, a level below the talent's maximum and every
prerequisite talent at its maximum.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := catalog.TalentID(args[0])
			if _, ok := catalog.Default().Talent(id); !ok {
				return unknownID(rootOpts, cmd, "talent", args[0])
			}
			return runAction(rootOpts, cmd, action{
				name:   "talent",
				target: args[0],
				apply: func(ctx context.Context, s *engine.Session) (bool, float64, error) {
					ok, err := s.InvestTalent(ctx, id)
					return ok, 0, err
				},
			})
		},
	}
}

// NewClaimCommand creates the claim command.
func NewClaimCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "claim <quest>",
		Short:         "Claim the rewards of a completed story quest",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := catalog.QuestID(args[0])
			if _, ok := catalog.Default().Quest(id); !ok {
				return unknownID(rootOpts, cmd, "quest", args[0])
			}
			return runAction(rootOpts, cmd, action{
				name:   "claim",
				target: args[0],
				apply: func(ctx context.Context, s *engine.Session) (bool, float64, error) {
					ok, err := s.ClaimQuest(ctx, id)
					return ok, 0, err
				},
			})
		},
	}
}

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Score int // reported asteroids score
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <minigame>",
		Short: "Play a mini-game and collect its reward",
		Long: fmt.Sprintf(`Play a mini-game automatically and credit its reward.

Mini-games: %s. The treasure hunt digs at random; asteroids pays
for the score given with --score.

Examples:
  cosmoclicker play roulette
  cosmoclicker play asteroids --score 420`, strings.Join(minigame.IDs, ", ")),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := minigame.New(args[0], newRoller(opts.Seed), opts.Score)
			if err != nil {
				return unknownID(rootOpts, cmd, "mini-game", args[0])
			}
			return runAction(rootOpts, cmd, action{
				name:   "play",
				target: args[0],
				apply: func(ctx context.Context, s *engine.Session) (bool, float64, error) {
					reward, err := s.PlayMiniGame(ctx, g)
					return err == nil || engine.IsPersistenceError(err), reward, err
				},
			})
		},
	}

	cmd.Flags().IntVar(&opts.Score, "score", 0, "asteroids score to report")

	return cmd
}

// NewEventCommand creates the event command.
func NewEventCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "event <event>",
		Short: "Force a cosmic event",
		Long: `Start a cosmic event now, the same way the random scheduler would.

Rejected while another event is still running.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := catalog.EventID(args[0])
			if _, ok := catalog.Default().Event(id); !ok {
				return unknownID(rootOpts, cmd, "event", args[0])
			}
			return runAction(rootOpts, cmd, action{
				name:   "event",
				target: args[0],
				apply: func(ctx context.Context, s *engine.Session) (bool, float64, error) {
					ok, err := s.ActivateEvent(ctx, id)
					return ok, 0, err
				},
			})
		},
	}
}

// unknownID reports an id outside the catalog as a command error.
func unknownID(opts *RootOptions, cmd *cobra.Command, kind, id string) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	msg := fmt.Sprintf("unknown %s %q", kind, id)
	_ = formatter.Error("E_NOT_FOUND", msg, nil)
	return NewExitError(ExitCommandError, msg)
}

// runAction opens the save, applies a and reports the outcome.
//
// A rejected action exits 1. A failed save also exits 1, though the action
// itself was applied and the next successful save carries it.
func runAction(opts *RootOptions, cmd *cobra.Command, a action) error {
	setupLogging(cmd.ErrOrStderr(), slog.LevelWarn, opts.Verbose)
	ctx := commandContext(cmd)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	g, err := openGame(ctx, opts)
	if err != nil {
		_ = formatter.Error("E_OPEN", err.Error(), nil)
		return err
	}
	defer g.Close()

	formatter.VerboseLog("session %s", g.session.ID())

	applied, value, err := a.apply(ctx, g.session)
	result := ActionResult{
		Action:  a.name,
		Target:  a.target,
		Applied: applied,
		Value:   value,
		Cues:    g.drainCues(),
		State:   g.session.Snapshot(),
	}

	if err != nil {
		code := "E_ACTION"
		if engine.IsPersistenceError(err) {
			code = "E_PERSISTENCE"
		}
		_ = formatter.Error(code, err.Error(), result)
		return WrapExitError(ExitFailure, a.name+" failed", err)
	}

	if opts.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result, Session: g.session.ID()}
		if !applied {
			response.Status = "error"
			response.Error = &CLIError{Code: "E_REJECTED", Message: a.name + " was not applied"}
		}
		if err := json.NewEncoder(formatter.Writer).Encode(response); err != nil {
			return err
		}
	} else {
		writeActionText(formatter.Writer, result)
	}

	if !applied {
		return NewExitError(ExitFailure, a.name+" was not applied")
	}
	return nil
}

func writeActionText(w io.Writer, r ActionResult) {
	label := r.Action
	if r.Target != "" {
		label += " " + r.Target
	}

	if !r.Applied {
		fmt.Fprintf(w, "✗ %s was not applied\n", label)
	} else if r.Value != 0 {
		fmt.Fprintf(w, "✓ %s (+%s)\n", label, formatAmount(r.Value))
	} else {
		fmt.Fprintf(w, "✓ %s\n", label)
	}

	for _, c := range r.Cues {
		fmt.Fprintf(w, "  • %s%s\n", c.Cue, formatAttrs(c.Attrs))
	}
	fmt.Fprintf(w, "Balance: %s coins\n", formatAmount(r.State.Balance))
}

// formatAttrs renders cue attributes as sorted key=value pairs.
func formatAttrs(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		switch v := attrs[k].(type) {
		case float64:
			b.WriteString(formatAmount(v))
		default:
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}
