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

// breaksFixedWidth is the width of every break column except the team name.
const breaksFixedWidth = 55

// WriteBreakResults outputs break results, dispatching based on the output format configured.
// Results of several categories are written in the order given.
func WriteBreakResults(results []schema.BreakResult, teams []schema.Team, cfg *contract.Config, duration time.Duration) error {
	enriched := schema.EnrichBreaks(results, teams)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONBreaks(w, enriched)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVBreaks(w, enriched)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg.OutputFile, parquet.ConvertBreaks(results))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBreaksTable(w, enriched, cfg, duration)
		}, "Wrote table")
	}
}

// writeBreaksTable generates and writes the human-readable break table.
func writeBreaksTable(w io.Writer, enriched []schema.EnrichedBreak, cfg *contract.Config, duration time.Duration) error {
	headers := []string{"Category", "Break", "Rank", "Team", "Institution", "Status"}
	nameWidth := GetMaxTableNameWidth(cfg, breaksFixedWidth)

	var (
		data       [][]string
		categories []string
	)
	breaking := make(map[string]int)
	for _, b := range enriched {
		if _, seen := breaking[b.CategoryID]; !seen {
			categories = append(categories, b.CategoryID)
			breaking[b.CategoryID] = 0
		}
		if b.IsBreaking {
			breaking[b.CategoryID]++
		}
		data = append(data, []string{
			b.CategoryID,
			formatBreakRank(b.BreakRank),
			strconv.Itoa(b.Rank),
			contract.TruncateName(b.Name, nameWidth),
			contract.TruncateName(b.Institution, nameWidth),
			contract.GetColorBreakLabel(b.BreakResult),
		})
	}
	if err := writeTable(w, headers, data); err != nil {
		return err
	}

	for _, c := range categories {
		if _, err := fmt.Fprintf(w, "Category %s: %d teams breaking\n", c, breaking[c]); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Break generated in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// formatBreakRank renders a break rank, using "-" for teams outside the break.
func formatBreakRank(rank int) string {
	if rank <= 0 {
		return contract.OutValue
	}
	return strconv.Itoa(rank)
}
