package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/internal/parquet"
	"github.com/huangsam/tabulate/schema"
)

// pairingsFixedWidth is the width of the pairing columns besides the two team names.
const pairingsFixedWidth = 40

// WritePairingResults outputs a round's pairings, dispatching based on the output format configured.
func WritePairingResults(output schema.PairingOutput, teams []schema.Team, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	enriched := schema.EnrichPairings(output.Pairings, teams)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONPairings(w, output, enriched)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVPairings(w, output.Round, enriched, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg.OutputFile, parquet.ConvertPairings(output.Round, output.Pairings))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePairingsTable(w, output, enriched, teams, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writePairingsTable generates and writes the human-readable draw.
func writePairingsTable(
	w io.Writer,
	output schema.PairingOutput,
	enriched []schema.EnrichedPairing,
	teams []schema.Team,
	cfg *contract.Config,
	fmtFloat func(float64) string,
	duration time.Duration,
) error {
	// Both team names share what is left of the line
	nameWidth := GetMaxTableNameWidth(cfg, pairingsFixedWidth) / 2
	nameWidth = max(nameWidth, minNameWidth)

	var data [][]string
	for _, p := range enriched {
		data = append(data, []string{
			strconv.Itoa(p.Number),
			contract.TruncateName(p.AffName, nameWidth),
			contract.TruncateName(p.NegName, nameWidth),
			p.JudgeID,
			p.Room,
			fmtFloat(p.Quality),
		})
	}
	if _, err := fmt.Fprintf(w, "Round %d draw (%s)\n", output.Round, output.Method); err != nil {
		return err
	}
	if err := writeTable(w, []string{"#", "Aff", "Neg", "Judge", "Room", "Quality"}, data); err != nil {
		return err
	}

	if len(output.Byes) > 0 {
		names := schema.TeamNames(teams)
		byes := make([]string, len(output.Byes))
		for i, id := range output.Byes {
			byes[i] = id
			if n := names[id]; n != "" {
				byes[i] = n
			}
		}
		if _, err := fmt.Fprintf(w, "Byes: %s\n", strings.Join(byes, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Paired %d debates in %v. Store backend: %s\n", len(enriched), duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}
