package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/internal/parquet"
	"github.com/huangsam/tabulate/schema"
)

// livenessFixedWidth is the width of the liveness columns besides the team name.
const livenessFixedWidth = 25

// livenessRow is a liveness result with the team name resolved.
type livenessRow struct {
	Name string `json:"name"`
	schema.LivenessResult
}

// WriteLivenessResults outputs liveness results, dispatching based on the output format configured.
func WriteLivenessResults(results []schema.LivenessResult, teams []schema.Team, cfg *contract.Config, breakSize int) error {
	rows := enrichLiveness(results, teams)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVLiveness(w, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg.OutputFile, parquet.ConvertLiveness(results))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLivenessTable(w, rows, cfg, breakSize)
		}, "Wrote table")
	}
}

func enrichLiveness(results []schema.LivenessResult, teams []schema.Team) []livenessRow {
	names := schema.TeamNames(teams)
	rows := make([]livenessRow, len(results))
	for i, r := range results {
		name := names[r.TeamID]
		if name == "" {
			name = r.TeamID
		}
		rows[i] = livenessRow{Name: name, LivenessResult: r}
	}
	return rows
}

// writeLivenessTable generates and writes the human-readable liveness table.
func writeLivenessTable(w io.Writer, rows []livenessRow, cfg *contract.Config, breakSize int) error {
	nameWidth := GetMaxTableNameWidth(cfg, livenessFixedWidth)
	counts := make(map[schema.Liveness]int)

	var data [][]string
	for _, r := range rows {
		counts[r.Status]++
		data = append(data, []string{
			contract.TruncateName(r.Name, nameWidth),
			strconv.Itoa(r.Wins),
			contract.GetColorLivenessLabel(r.Status),
		})
	}
	if err := writeTable(w, []string{"Team", "Wins", "Status"}, data); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Break of %d: %d safe, %d live, %d dead\n",
		breakSize, counts[schema.SafeStatus], counts[schema.LiveStatus], counts[schema.DeadStatus])
	return err
}

// writeCSVLiveness writes one row per team.
func writeCSVLiveness(w io.Writer, rows []livenessRow) error {
	return writeCSVWithHeader(w, []string{"team_id", "name", "wins", "status"}, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{r.TeamID, r.Name, strconv.Itoa(r.Wins), string(r.Status)}); err != nil {
				return err
			}
		}
		return nil
	})
}
