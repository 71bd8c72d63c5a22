package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
)

// criterionDescriptions explains each registered tiebreak criterion.
var criterionDescriptions = map[schema.Criterion]string{
	schema.WinsCriterion:           "More wins ranks higher",
	schema.SpeaksCriterion:         "Higher total speaker points",
	schema.RanksCriterion:          "Lower total speaker ranks",
	schema.AdjustedSpeaksCriterion: "Speaker points without the best and worst round",
	schema.AdjustedRanksCriterion:  "Speaker ranks without the best and worst round",
	schema.OpponentWinsCriterion:   "Higher sum of opponents' wins",
	schema.HeadToHeadCriterion:     "Winner of the direct meetings",
	schema.CoinFlipCriterion:       "Random draw, must come last",
}

// criterionInfo is one registry entry with its position in the active sequence.
type criterionInfo struct {
	Name        schema.Criterion `json:"name"`
	Description string           `json:"description"`
	Position    int              `json:"position"` // 1-based, 0 when inactive
}

// WriteTiebreakerCatalog outputs every criterion, the active sequence and the presets.
func WriteTiebreakerCatalog(active []schema.Criterion, cfg *contract.Config) error {
	infos := make([]criterionInfo, len(schema.AllCriteria))
	for i, c := range schema.AllCriteria {
		infos[i] = criterionInfo{
			Name:        c,
			Description: criterionDescriptions[c],
			Position:    slices.Index(active, c) + 1,
		}
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Active   []schema.Criterion            `json:"active"`
				Criteria []criterionInfo               `json:"criteria"`
				Presets  map[string][]schema.Criterion `json:"presets"`
			}{active, infos, schema.TiebreakPresets})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"criterion", "position", "description"}, func(cw *csv.Writer) error {
				for _, info := range infos {
					if err := cw.Write([]string{string(info.Name), strconv.Itoa(info.Position), info.Description}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for tiebreakers")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTiebreakersTable(w, infos)
		}, "Wrote table")
	}
}

func writeTiebreakersTable(w io.Writer, infos []criterionInfo) error {
	var data [][]string
	for _, info := range infos {
		position := contract.OutValue
		if info.Position > 0 {
			position = strconv.Itoa(info.Position)
		}
		data = append(data, []string{position, string(info.Name), info.Description})
	}
	if err := writeTable(w, []string{"Active", "Criterion", "Description"}, data); err != nil {
		return err
	}

	names := make([]string, 0, len(schema.TiebreakPresets))
	for name := range schema.TiebreakPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	presets := make([][]string, len(names))
	for i, name := range names {
		seq := make([]string, len(schema.TiebreakPresets[name]))
		for j, c := range schema.TiebreakPresets[name] {
			seq[j] = string(c)
		}
		presets[i] = []string{name, strings.Join(seq, " > ")}
	}
	return writeTable(w, []string{"Preset", "Sequence"}, presets)
}
