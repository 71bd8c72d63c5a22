package cmd

import (
	"github.com/huangsam/tabulate/core"
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/spf13/cobra"
)

// breakCmd generates the break of every category.
var breakCmd = &cobra.Command{
	Use:   "break [tournament-file]",
	Short: "Show which teams break in every category.",
	Long: `Generate the break of every category in priority order.

A team breaks in at most one category. Each row carries a status:
- Breaking:        holds a break slot
- capped:          held back by the institution cap or the AIDA limit
- ineligible:      barred from the category by the eligibility list
- different_break: already breaking in a higher-priority category
- coin_flip:       missed the last slot on the coin flip alone
- promoted:        took a slot left open under the AIDA 2016 rule

Categories without a rule use the standard rule. When the tournament file
defines no categories, --break-size creates a single open category.

Examples:
  # Every category
  tabulate break tournament.yaml

  # Only the ESL break
  tabulate break tournament.yaml --category esl

  # A quick open break of 8 for a tournament without categories
  tabulate break tournament.yaml --break-size 8`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: tournamentSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBreak(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot generate break", err)
		}
	},
}
