package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/internal/parquet"
	"github.com/huangsam/tabulate/schema"
)

// standingsFixedWidth is the width of every standings column except the team name.
const standingsFixedWidth = 70

// WriteStandingResults outputs ranked standings, dispatching based on the output format configured.
func WriteStandingResults(standings []schema.Standing, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONStandings(w, standings)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVStandings(w, standings, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg.OutputFile, parquet.ConvertStandings(standings))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStandingsTable(w, standings, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
}

// writeStandingsTable generates and writes the human-readable standings table.
func writeStandingsTable(w io.Writer, standings []schema.Standing, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	headers := []string{"Rank", "Team", "Institution", "Record", "Speaks", "Ranks", "Opp Wins", "Decided By"}
	nameWidth := GetMaxTableNameWidth(cfg, standingsFixedWidth)

	var data [][]string
	for _, s := range standings {
		name := s.Name
		if name == "" {
			name = s.TeamID
		}
		data = append(data, []string{
			strconv.Itoa(s.Rank),
			contract.TruncateName(name, nameWidth),
			contract.TruncateName(s.Institution, nameWidth),
			schema.FormatRecord(s.Wins, s.Losses),
			fmtFloat(s.Speaks),
			fmtFloat(s.Ranks),
			fmt.Sprintf(intFmt, s.OpponentWins),
			string(s.DecidedBy),
		})
	}
	if err := writeTable(w, headers, data); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d teams\n", len(standings)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Tabulated in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}
