package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/internal/iostore"
	"github.com/huangsam/tabulate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfig loads the backend settings the store commands need.
func storeConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Handle empty backend as SQLiteBackend
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetup loads minimal configuration and opens the stores.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := storeConfig(); err != nil {
		return err
	}
	if err := iostore.InitStores(cfg.StoreBackend, cfg.StoreDBConnect, false); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeConfigWrapper loads the backend settings without opening the stores,
// so migrate can run on a fresh database and clear can drop the tables.
func storeConfigWrapper(_ *cobra.Command, _ []string) error {
	return storeConfig()
}

// sqliteFilePath returns the SQLite file the stores use.
func sqliteFilePath() string {
	if cfg.StoreDBConnect != "" {
		return cfg.StoreDBConnect
	}
	return contract.GetDBFilePath()
}

// storeCmd focused on persisted run data.
//
// Note: store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by tabulation commands. This avoids tournament
// validation for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the snapshot cache and recorded runs",
	Long: `Manage the data tabulate keeps between runs.

Every tabulation command records a run with its parameters and outputs:
- Run metadata (tournament, command, round, configuration, duration)
- Standings rows for standings runs
- Generated pairings for pair and elim runs
- Break results for break runs

Ranked standings are also cached as snapshots, so repeated commands on the
same results reuse the same coin flips.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache and run store statistics
  export  - Export runs and standings to Parquet
  clear   - Remove all stored data
  migrate - Run database schema migrations`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache and run store statistics",
	Long: `Show the backend, connection state, entry counts and table sizes of the
snapshot cache and the run store.

Examples:
  tabulate store status
  TABULATE_STORE_BACKEND=postgresql TABULATE_STORE_DB_CONNECT="host=localhost dbname=tab" tabulate store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cache := iostore.Manager.GetSnapshotCache(); cache != nil {
			status, err := cache.GetStatus()
			if err != nil {
				contract.LogFatal("Failed to get cache status", err)
			}
			iostore.PrintCacheStatus(os.Stdout, status)
			fmt.Println()
		}
		status, err := iostore.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(os.Stdout, status)
	},
}

// storeClearCmd clears the stored data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached snapshots and recorded runs",
	Long: `Delete the snapshot cache and every recorded run.

For SQLite the database file is removed. For MySQL and PostgreSQL every
tabulate table is dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  tabulate store export --output-file backup
  tabulate store clear`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearStore(cfg.StoreBackend, sqliteFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeExportCmd exports recorded runs to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs and standings to Parquet",
	Long: `Export all recorded runs and standings rows to Parquet for analytics tools.

Requires: --output-file parameter

Examples:
  # Writes worlds.runs.parquet and worlds.standings.parquet
  tabulate store export --output-file worlds
  duckdb -c "SELECT * FROM read_parquet('worlds.standings.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExportRuns(os.Stdout, iostore.Manager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export runs", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the run store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  tabulate store migrate

  # Migrate to specific version
  tabulate store migrate --target-version 1

  # Roll back everything
  tabulate store migrate --target-version 0`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
