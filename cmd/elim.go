package cmd

import (
	"github.com/huangsam/tabulate/core"
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/spf13/cobra"
)

// elimCmd seeds the break into the first elimination round.
var elimCmd = &cobra.Command{
	Use:   "elim [tournament-file]",
	Short: "Seed a break category into the first elimination round.",
	Long: `Generate the break of a category and pair its seeds 1 vs N, 2 vs N-1.

An odd break leaves the middle seed without a debate; it is listed as a bye.

Examples:
  # Octofinals of the open break
  tabulate elim tournament.yaml --break-size 16

  # Semifinals of the novice break
  tabulate elim tournament.yaml --category novice`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: tournamentSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteElimination(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot generate elimination draw", err)
		}
	},
}
