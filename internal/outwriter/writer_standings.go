package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/tabulate/schema"
)

// writeJSONStandings writes the standings with their win-loss record added.
func writeJSONStandings(w io.Writer, standings []schema.Standing) error {
	return writeJSON(w, schema.EnrichStandings(standings))
}

// writeCSVStandings writes the standings in CSV format.
func writeCSVStandings(w io.Writer, standings []schema.Standing, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"team_id",
		"name",
		"institution",
		"wins",
		"losses",
		"speaks",
		"ranks",
		"adjusted_speaks",
		"adjusted_ranks",
		"opponent_wins",
		"decided_by",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range standings {
			rec := []string{
				strconv.Itoa(s.Rank),
				s.TeamID,
				s.Name,
				s.Institution,
				fmt.Sprintf(intFmt, s.Wins),
				fmt.Sprintf(intFmt, s.Losses),
				fmtFloat(s.Speaks),
				fmtFloat(s.Ranks),
				fmtFloat(s.AdjustedSpeaks),
				fmtFloat(s.AdjustedRanks),
				fmt.Sprintf(intFmt, s.OpponentWins),
				string(s.DecidedBy),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
