package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/economy"
	"github.com/roach88/cosmoclicker/internal/progress"
)

// StatusResult is the saved game as the status command reports it.
type StatusResult struct {
	State              economy.Snapshot  `json:"state"`
	AchievementPercent float64           `json:"achievementPercent"`
	Achievements       []string          `json:"achievements"`
	Quests             map[string]string `json:"quests"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved game",
		Long: `Load the save and print balance, income, multipliers, the active event
and pet, and achievement and quest progress. Nothing is written.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
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

	ps := g.session.Progress()
	result := StatusResult{
		State:              g.session.Snapshot(),
		AchievementPercent: g.session.AchievementPercent(),
		Achievements:       []string{},
		Quests:             make(map[string]string),
	}
	cat := catalog.Default()
	for _, a := range cat.Achievements {
		if ps.Achievements[a.ID] {
			result.Achievements = append(result.Achievements, string(a.ID))
		}
	}
	for _, q := range cat.Quests {
		result.Quests[string(q.ID)] = questLabel(ps.Quests[q.ID])
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	writeStatusText(formatter.Writer, result, cat)
	return nil
}

func questLabel(q progress.QuestStatus) string {
	switch {
	case q.Claimed:
		return "claimed"
	case q.Completed:
		return "completed"
	case q.Unlocked:
		return "unlocked"
	}
	return "locked"
}

func writeStatusText(w io.Writer, r StatusResult, cat *catalog.Catalog) {
	s := r.State

	fmt.Fprintf(w, "Balance:        %s coins\n", formatAmount(s.Balance))
	fmt.Fprintf(w, "Total earned:   %s coins\n", formatAmount(s.TotalEarned))
	fmt.Fprintf(w, "Clicks:         %s (%s critical)\n", formatCount(s.TotalClicks), formatCount(s.CriticalHits))
	fmt.Fprintf(w, "Click power:    %s\n", formatAmount(s.ClickPower))
	fmt.Fprintf(w, "Passive income: %s/s\n", formatAmount(s.PassiveIncome))
	fmt.Fprintf(w, "Critical:       %s%% for x%s\n", formatAmount(s.CriticalChance), formatAmount(s.CriticalMultiplier))
	fmt.Fprintf(w, "Combo:          x%s (%ds left)\n", formatAmount(s.ComboMultiplier), s.ComboTimer)
	if s.AutoClickSpeed > 0 {
		fmt.Fprintf(w, "Auto-clicker:   %s clicks/s\n", formatAmount(s.AutoClickSpeed))
	}
	fmt.Fprintf(w, "Prestige:       %d points, x%s (next at %s, worth %d)\n",
		s.PrestigePoints, formatAmount(s.PrestigeMultiplier), formatAmount(s.PrestigeCost), s.PotentialPrestige)

	if s.ActiveEvent != "" {
		name := string(s.ActiveEvent)
		if e, ok := cat.Event(s.ActiveEvent); ok {
			name = e.Name
		}
		fmt.Fprintf(w, "Event:          %s (%ds left)\n", name, s.EventRemaining)
	}
	if s.ActivePet != "" {
		name := string(s.ActivePet)
		if p, ok := cat.Pet(s.ActivePet); ok {
			name = p.Name
		}
		fmt.Fprintf(w, "Pet:            %s (%d owned)\n", name, s.PetsOwned)
	}
	if s.TalentPoints > 0 || s.ResearchPoints > 0 {
		fmt.Fprintf(w, "Talent points:  %d, research %s\n", s.TalentPoints, formatAmount(s.ResearchPoints))
	}

	fmt.Fprintf(w, "Achievements:   %d/%d (%s%%)\n", len(r.Achievements), len(cat.Achievements), formatAmount(r.AchievementPercent))
	for _, q := range cat.Quests {
		fmt.Fprintf(w, "Quest %-16s %s\n", q.ID, r.Quests[string(q.ID)])
	}
}
