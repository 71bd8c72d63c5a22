package iostore

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/internal/parquet"
)

// ExportRuns writes the stored runs and standings to two Parquet files
// derived from outputFile.
func ExportRuns(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total standings records: %d\n", status.TableSizes[standingsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	standings, err := store.GetAllStandings()
	if err != nil {
		return fmt.Errorf("failed to retrieve standings: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteFile(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	standingsFile := outputFile + ".standings.parquet"
	if err := parquet.WriteFile(parquet.ConvertStandingRecords(standings), standingsFile); err != nil {
		return fmt.Errorf("failed to write standings: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d standings records to: %s\n", len(standings), standingsFile)
	return nil
}
