package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/tabulate/schema"
)

// writeJSONPairings writes the draw with numbered pairings and resolved names.
func writeJSONPairings(w io.Writer, output schema.PairingOutput, enriched []schema.EnrichedPairing) error {
	type JSONPairingOutput struct {
		Round    int                      `json:"round"`
		Method   schema.PairingMethod     `json:"method"`
		Pairings []schema.EnrichedPairing `json:"pairings"`
		Byes     []string                 `json:"byes"`
	}
	byes := output.Byes
	if byes == nil {
		byes = []string{}
	}
	return writeJSON(w, JSONPairingOutput{
		Round:    output.Round,
		Method:   output.Method,
		Pairings: enriched,
		Byes:     byes,
	})
}

// writeCSVPairings writes one row per debate.
func writeCSVPairings(w io.Writer, round int, enriched []schema.EnrichedPairing, fmtFloat func(float64) string) error {
	header := []string{
		"round",
		"debate_no",
		"aff_id",
		"aff_name",
		"neg_id",
		"neg_name",
		"judge_id",
		"room",
		"quality",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range enriched {
			rec := []string{
				strconv.Itoa(round),
				strconv.Itoa(p.Number),
				p.AffID,
				p.AffName,
				p.NegID,
				p.NegName,
				p.JudgeID,
				p.Room,
				fmtFloat(p.Quality),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
