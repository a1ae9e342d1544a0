package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoclicker/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Kind string // optional - "action" or "cue"
}

// HistoryEntry is a single line of a session journal.
type HistoryEntry struct {
	Seq    int64          `json:"seq"`
	Kind   string         `json:"kind"`
	Name   string         `json:"name"`
	Detail map[string]any `json:"detail,omitempty"`
}

// HistoryResult holds a session's journal.
type HistoryResult struct {
	Session  string         `json:"session"`
	Timeline []HistoryEntry `json:"timeline"`
	Stats    HistoryStats   `json:"stats"`
}

// HistoryStats holds summary statistics for a journal.
type HistoryStats struct {
	Actions int `json:"actions"`
	Cues    int `json:"cues"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the action journal",
		Long: `Show the journal of actions and cues stored in the save.

Without --session, lists every journaled session with its entry count.
With --session, prints that session's entries in the order they were
applied.

Examples:
  cosmoclicker history
  cosmoclicker history --session 0192f7a4-5c3e-7b1a-9d2e-6f8a1b2c3d4e
  cosmoclicker history --session 0192f7a4-5c3e-7b1a-9d2e-6f8a1b2c3d4e --kind action --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show entries of this kind (action|cue)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	if opts.Kind != "" && opts.Kind != string(store.KindAction) && opts.Kind != string(store.KindCue) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid kind %q: must be action or cue", opts.Kind))
	}

	// Open database
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.Session == "" {
		sessions, err := st.Sessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if sessions == nil {
			sessions = []store.SessionSummary{}
		}
		if opts.Format == "json" {
			return outputHistoryJSON(cmd, sessions)
		}
		return outputSessionsText(cmd.OutOrStdout(), sessions)
	}

	entries, err := st.ReadJournal(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	if len(entries) == 0 {
		if opts.Format == "json" {
			return outputHistoryJSON(cmd, HistoryResult{
				Session:  opts.Session,
				Timeline: []HistoryEntry{},
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "No entries found for session: %s\n", opts.Session)
		return nil
	}

	result := buildHistory(opts.Session, entries, store.EntryKind(opts.Kind))

	if opts.Format == "json" {
		return outputHistoryJSON(cmd, result)
	}
	return outputHistoryText(cmd.OutOrStdout(), result, opts.Verbose)
}

// buildHistory converts journal entries to timeline entries, keeping only
// kind when it is set.
func buildHistory(session string, entries []store.JournalEntry, kind store.EntryKind) HistoryResult {
	result := HistoryResult{
		Session:  session,
		Timeline: make([]HistoryEntry, 0, len(entries)),
	}

	for _, e := range entries {
		switch e.Kind {
		case store.KindAction:
			result.Stats.Actions++
		case store.KindCue:
			result.Stats.Cues++
		}
		if kind != "" && e.Kind != kind {
			continue
		}
		result.Timeline = append(result.Timeline, HistoryEntry{
			Seq:    e.Seq,
			Kind:   string(e.Kind),
			Name:   e.Name,
			Detail: e.Detail,
		})
	}

	return result
}

// outputHistoryJSON outputs a history result as JSON.
func outputHistoryJSON(cmd *cobra.Command, data any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{
		Status: "ok",
		Data:   data,
	})
}

func outputSessionsText(w io.Writer, sessions []store.SessionSummary) error {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions journaled yet.")
		return nil
	}

	fmt.Fprintf(w, "%-38s %8s\n", "SESSION", "ENTRIES")
	for _, s := range sessions {
		fmt.Fprintf(w, "%-38s %8s\n", s.ID, formatCount(int64(s.Entries)))
	}
	return nil
}

// outputHistoryText outputs the journal as a readable timeline. Cue lines
// are indented under the action that raised them.
func outputHistoryText(w io.Writer, result HistoryResult, verbose bool) error {
	fmt.Fprintf(w, "Session: %s\n", result.Session)
	fmt.Fprintf(w, "Entries: %d actions, %d cues\n", result.Stats.Actions, result.Stats.Cues)
	fmt.Fprintln(w)

	for _, e := range result.Timeline {
		indent := ""
		if e.Kind == string(store.KindCue) {
			indent = "  "
		}
		fmt.Fprintf(w, "[%d] %s%s", e.Seq, indent, e.Name)
		if verbose || e.Kind == string(store.KindAction) {
			fmt.Fprint(w, formatAttrs(e.Detail))
		}
		fmt.Fprintln(w)
	}
	return nil
}
