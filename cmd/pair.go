package cmd

import (
	"github.com/huangsam/tabulate/core"
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/spf13/cobra"
)

// pairCmd generates the next preliminary round's draw.
var pairCmd = &cobra.Command{
	Use:   "pair [tournament-file]",
	Short: "Generate the power-paired draw for the next round.",
	Long: `Power-pair the round after the last decided one.

Teams are pooled by wins. Inside each pool the method decides who meets whom:
- high_high: first vs second, third vs fourth
- high_low:  top half against bottom half, folded (default)
- random:    seeded shuffle

Hard team conflicts are never paired. Rematches and same-institution debates
are penalised when the tournament file (or --avoid-rematch and
--protect-institution) turns them on. Sides go to the team with fewer
previous affirmatives, and judges are assigned avoiding their conflicts.

Examples:
  # Default high-low draw
  tabulate pair tournament.yaml

  # Random draw that can be reproduced
  tabulate pair tournament.yaml --method random --seed 42

  # Pull odd teams up instead of giving byes
  tabulate pair tournament.yaml --pull-down`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: tournamentSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePairings(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot generate pairings", err)
		}
	},
}
