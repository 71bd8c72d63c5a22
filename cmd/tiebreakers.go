package cmd

import (
	"github.com/huangsam/tabulate/core"
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/spf13/cobra"
)

// tiebreakersCmd lists the tiebreak criteria and presets.
var tiebreakersCmd = &cobra.Command{
	Use:   "tiebreakers [tournament-file]",
	Short: "List tiebreak criteria, presets and the active sequence.",
	Long: `Print every registered tiebreak criterion with its position in the active
sequence, followed by the named presets.

The tournament file is optional; when given, its own sequence is shown as
active unless --tiebreakers or --tiebreak-preset overrides it.

Examples:
  tabulate tiebreakers
  tabulate tiebreakers tournament.yaml --tiebreak-preset adjusted`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTiebreakers(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list tiebreakers", err)
		}
	},
}
