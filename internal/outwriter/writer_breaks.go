package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
)

// writeJSONBreaks writes the break results with a plain status label added.
func writeJSONBreaks(w io.Writer, enriched []schema.EnrichedBreak) error {
	type JSONBreakResult struct {
		Status string `json:"status"`
		schema.EnrichedBreak
	}

	output := make([]JSONBreakResult, len(enriched))
	for i, b := range enriched {
		output[i] = JSONBreakResult{
			Status:        contract.GetPlainBreakLabel(b.BreakResult),
			EnrichedBreak: b,
		}
	}
	return writeJSON(w, output)
}

// writeCSVBreaks writes one row per team and category.
func writeCSVBreaks(w io.Writer, enriched []schema.EnrichedBreak) error {
	header := []string{
		"category_id",
		"break_rank",
		"rank",
		"team_id",
		"name",
		"institution",
		"is_breaking",
		"status",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range enriched {
			rec := []string{
				b.CategoryID,
				strconv.Itoa(b.BreakRank),
				strconv.Itoa(b.Rank),
				b.TeamID,
				b.Name,
				b.Institution,
				strconv.FormatBool(b.IsBreaking),
				contract.GetPlainBreakLabel(b.BreakResult),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
