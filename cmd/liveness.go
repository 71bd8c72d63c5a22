package cmd

import (
	"github.com/huangsam/tabulate/core"
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/spf13/cobra"
)

// livenessCmd classifies each team's break prospects.
var livenessCmd = &cobra.Command{
	Use:   "liveness [tournament-file]",
	Short: "Show which teams are safe, live or dead for the break.",
	Long: `Classify every team from win counts alone.

- safe: fewer than break-size other teams can still reach its wins
- dead: at least break-size teams already have more wins than it can reach
- live: everything else

Rounds remaining are derived from total_rounds in the tournament file unless
--rounds-remaining is given.

Examples:
  # Liveness for the open break
  tabulate liveness tournament.yaml

  # Two rounds left, break of 16
  tabulate liveness tournament.yaml --rounds-remaining 2 --break-size 16`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: tournamentSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLiveness(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute liveness", err)
		}
	},
}
