package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // SQLite save file
	Balance  string // optional balance YAML
	Session  string // continue an existing journal session
	Seed     uint64 // 0 seeds from the wall clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultDatabase is the save file used when --db is not given.
const DefaultDatabase = "cosmoclicker.db"

// NewRootCommand creates the root command for the cosmoclicker CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cosmoclicker",
		Short: "cosmoclicker - an idle space economy",
		Long: `An idle/clicker economy: click for coins, buy upgrades, earn passive
income every second, ride random cosmic events and prestige for a
permanent multiplier. State is saved to a local SQLite file after every
action.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", DefaultDatabase, "path to SQLite save file")
	cmd.PersistentFlags().StringVar(&opts.Balance, "balance", "", "balance YAML overriding the default tunables")
	cmd.PersistentFlags().StringVar(&opts.Session, "session", "", "journal session id to continue")
	cmd.PersistentFlags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 picks one from the clock)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewClickCommand(opts))
	cmd.AddCommand(NewBuyCommand(opts))
	cmd.AddCommand(NewPrestigeCommand(opts))
	cmd.AddCommand(NewPetCommand(opts))
	cmd.AddCommand(NewTalentCommand(opts))
	cmd.AddCommand(NewClaimCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewEventCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
