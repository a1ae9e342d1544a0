package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/minigame"
)

// CatalogResult lists every definition the game knows about.
type CatalogResult struct {
	Upgrades  []catalog.Upgrade `json:"upgrades"`
	Pets      []catalog.Pet     `json:"pets"`
	Talents   []catalog.Talent  `json:"talents"`
	Events    []catalog.Event   `json:"events"`
	Quests    []catalog.Quest   `json:"quests"`
	MiniGames []string          `json:"minigames"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "catalog",
		Short:         "List upgrades, pets, talents, events and quests",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()
			result := CatalogResult{
				Upgrades:  cat.Upgrades,
				Pets:      cat.Pets,
				Talents:   cat.Talents,
				Events:    cat.Events,
				Quests:    cat.Quests,
				MiniGames: minigame.IDs,
			}

			if rootOpts.Format == "json" {
				formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return formatter.Success(result)
			}
			writeCatalogText(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func writeCatalogText(w io.Writer, r CatalogResult) {
	fmt.Fprintln(w, "Upgrades:")
	for _, u := range r.Upgrades {
		limit := ""
		if u.Capped() {
			limit = fmt.Sprintf(", max %d", u.MaxOwned)
		}
		fmt.Fprintf(w, "  %-12s %-8s %10s coins  +%s%s\n", u.ID, u.Category, formatAmount(u.Cost), formatAmount(u.Magnitude), limit)
	}

	fmt.Fprintln(w, "Pets:")
	for _, p := range r.Pets {
		fmt.Fprintf(w, "  %-12s %-20s +%s%% %s\n", p.ID, p.Name, formatAmount(p.Bonus*100), p.BonusType)
	}

	fmt.Fprintln(w, "Talents:")
	for _, t := range r.Talents {
		requires := ""
		if len(t.Requires) > 0 {
			ids := make([]string, len(t.Requires))
			for i, id := range t.Requires {
				ids[i] = string(id)
			}
			requires = " (requires " + strings.Join(ids, ", ") + ")"
		}
		fmt.Fprintf(w, "  %-20s +%s%% %s per level, max %d%s\n", t.ID, formatAmount(t.Value*100), t.Effect, t.MaxPoints, requires)
	}

	fmt.Fprintln(w, "Events:")
	for _, e := range r.Events {
		fmt.Fprintf(w, "  %-14s %s %s %s for %ds\n", e.ID, e.Target, e.Mode, formatAmount(e.Value), e.Duration)
	}

	fmt.Fprintln(w, "Quests:")
	for _, q := range r.Quests {
		fmt.Fprintf(w, "  %-18s %s\n", q.ID, q.Name)
	}

	fmt.Fprintf(w, "Mini-games: %s\n", strings.Join(r.MiniGames, ", "))
}
