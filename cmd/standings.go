package cmd

import (
	"github.com/huangsam/tabulate/core"
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/spf13/cobra"
)

// standingsCmd ranks the teams of a tournament.
var standingsCmd = &cobra.Command{
	Use:   "standings [tournament-file]",
	Short: "Show the team standings ranked by wins and tiebreakers.",
	Long: `Rank every registered team from the submitted ballots.

Teams are ordered by wins, then by the tiebreak sequence. The sequence comes
from --tiebreakers, then --tiebreak-preset, then the tournament file, then the
default preset (wins, speaks, ranks, opponent_wins, coin_flip).

The "Decided By" column names the criterion that placed each team below the
team above it.

Examples:
  # Standings after every submitted round
  tabulate standings tournament.yaml

  # Standings as they stood after round 3
  tabulate standings tournament.yaml --round 3

  # Rank by opponent strength first
  tabulate standings tournament.yaml --tiebreak-preset strength

  # Export for a results page
  tabulate standings tournament.yaml --output csv --output-file standings.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: tournamentSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStandings(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute standings", err)
		}
	},
}
