// Package cmd defines the command-line interface for tabulate.
package cmd

import (
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(pairCmd)
	rootCmd.AddCommand(elimCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(livenessCmd)
	rootCmd.AddCommand(tiebreakersCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("tournament", "t", "", "Path to the tournament YAML or JSON file")
	rootCmd.PersistentFlags().IntP("round", "r", 0, "Only count results of rounds 1..round (0 = every result)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of teams to display (0 = all)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for speaker points")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("tiebreakers", "", "Comma-separated tiebreak sequence (e.g., wins,speaks,coin_flip)")
	rootCmd.PersistentFlags().String("tiebreak-preset", "", "Named tiebreak preset: default or speaks_first or strength or adjusted")
	rootCmd.PersistentFlags().Int64("seed", 0, "Seed for coin flips and the random method (0 = fresh seed)")
	rootCmd.PersistentFlags().Int("break-size", contract.DefaultBreakSize, "Override the break size of the selected category")
	rootCmd.PersistentFlags().String("category", "", "Break category id (defaults to the first general category)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Skip the standings snapshot cache")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of pairCmd to Viper
	pairCmd.Flags().String("method", string(schema.HighLowMethod), "Pairing method inside each pool: high_high or high_low or random")
	pairCmd.Flags().Bool("pull-down", false, "Move a pool's odd team down into the next lower pool instead of a bye")
	pairCmd.Flags().String("avoid-rematch", "", "Override rematch avoidance from the tournament file (yes/no)")
	pairCmd.Flags().String("protect-institution", "", "Override institution protection from the tournament file (yes/no)")
	if err := viper.BindPFlags(pairCmd.Flags()); err != nil {
		contract.LogFatal("Error binding pair flags", err)
	}

	// Bind all flags of livenessCmd to Viper
	livenessCmd.Flags().Int("rounds-remaining", contract.DeriveRounds, "Preliminary rounds still to be held (-1 = derive from total_rounds)")
	if err := viper.BindPFlags(livenessCmd.Flags()); err != nil {
		contract.LogFatal("Error binding liveness flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 = latest, 0 = roll back everything)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
