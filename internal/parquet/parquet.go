// Package parquet provides row types and writers for exporting tabulate data
// to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/tabulate/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single tabulation run with metadata.
// This struct maps to the tabulate_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Tournament names the tournament the run was computed for
	Tournament string `parquet:"tournament,snappy"`

	// Command is the CLI command that produced the run
	Command string `parquet:"command,snappy"`

	// Round is the last round of results the run used (0 = all)
	Round int32 `parquet:"round,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// DurationMs is the duration of the run in milliseconds (nullable)
	DurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRows is the number of output rows the run recorded
	TotalRows int32 `parquet:"total_rows,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// StoredStanding is one standings row of a recorded run.
// This struct maps to the tabulate_standings database table.
type StoredStanding struct {
	RunID          int64   `parquet:"run_id,snappy"`
	TeamID         string  `parquet:"team_id,snappy"`
	Rank           int32   `parquet:"rank,snappy"`
	Wins           int32   `parquet:"wins,snappy"`
	Losses         int32   `parquet:"losses,snappy"`
	Speaks         float64 `parquet:"speaks,snappy"`
	Ranks          float64 `parquet:"ranks,snappy"`
	AdjustedSpeaks float64 `parquet:"adjusted_speaks,snappy"`
	AdjustedRanks  float64 `parquet:"adjusted_ranks,snappy"`
	OpponentWins   int32   `parquet:"opponent_wins,snappy"`
	DecidedBy      *string `parquet:"decided_by,optional,snappy"`
}

// StandingRow is one row of the standings output.
type StandingRow struct {
	Rank           int32   `parquet:"rank,snappy"`
	TeamID         string  `parquet:"team_id,snappy"`
	Name           string  `parquet:"name,snappy"`
	Institution    string  `parquet:"institution,snappy"`
	Wins           int32   `parquet:"wins,snappy"`
	Losses         int32   `parquet:"losses,snappy"`
	Speaks         float64 `parquet:"speaks,snappy"`
	Ranks          float64 `parquet:"ranks,snappy"`
	AdjustedSpeaks float64 `parquet:"adjusted_speaks,snappy"`
	AdjustedRanks  float64 `parquet:"adjusted_ranks,snappy"`
	OpponentWins   int32   `parquet:"opponent_wins,snappy"`
	DecidedBy      *string `parquet:"decided_by,optional,snappy"`
}

// PairingRow is one row of the pairings output.
type PairingRow struct {
	Round    int32   `parquet:"round,snappy"`
	DebateNo int32   `parquet:"debate_no,snappy"`
	AffID    string  `parquet:"aff_id,snappy"`
	NegID    string  `parquet:"neg_id,snappy"`
	JudgeID  *string `parquet:"judge_id,optional,snappy"`
	Room     *string `parquet:"room,optional,snappy"`
	Quality  float64 `parquet:"quality,snappy"`
}

// BreakRow is one row of the break output.
type BreakRow struct {
	CategoryID string  `parquet:"category_id,snappy"`
	TeamID     string  `parquet:"team_id,snappy"`
	Rank       int32   `parquet:"rank,snappy"`
	BreakRank  int32   `parquet:"break_rank,snappy"`
	IsBreaking bool    `parquet:"is_breaking,snappy"`
	Remark     *string `parquet:"remark,optional,snappy"`
}

// LivenessRow is one row of the liveness output.
type LivenessRow struct {
	TeamID string `parquet:"team_id,snappy"`
	Wins   int32  `parquet:"wins,snappy"`
	Status string `parquet:"status,snappy"`
}

// Write writes rows to w as a single Parquet file. The schema is derived
// from the struct tags of T.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:        record.RunID,
			Tournament:   record.Tournament,
			Command:      record.Command,
			Round:        int32(record.Round),
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			DurationMs:   record.DurationMs,
			TotalRows:    record.TotalRows,
			ConfigParams: record.ConfigParams,
		}
	}
	return result
}

// ConvertStandingRecords converts schema.StandingRecord to StoredStanding for Parquet export.
func ConvertStandingRecords(records []schema.StandingRecord) []StoredStanding {
	result := make([]StoredStanding, len(records))
	for i, r := range records {
		result[i] = StoredStanding(r)
	}
	return result
}

// ConvertStandings converts ranked standings to output rows.
func ConvertStandings(standings []schema.Standing) []StandingRow {
	result := make([]StandingRow, len(standings))
	for i, s := range standings {
		result[i] = StandingRow{
			Rank:           int32(s.Rank),
			TeamID:         s.TeamID,
			Name:           s.Name,
			Institution:    s.Institution,
			Wins:           int32(s.Wins),
			Losses:         int32(s.Losses),
			Speaks:         s.Speaks,
			Ranks:          s.Ranks,
			AdjustedSpeaks: s.AdjustedSpeaks,
			AdjustedRanks:  s.AdjustedRanks,
			OpponentWins:   int32(s.OpponentWins),
			DecidedBy:      optional(string(s.DecidedBy)),
		}
	}
	return result
}

// ConvertPairings converts generated pairings to output rows.
func ConvertPairings(round int, pairings []schema.GeneratedPairing) []PairingRow {
	result := make([]PairingRow, len(pairings))
	for i, p := range pairings {
		result[i] = PairingRow{
			Round:    int32(round),
			DebateNo: int32(i + 1),
			AffID:    p.AffID,
			NegID:    p.NegID,
			JudgeID:  optional(p.JudgeID),
			Room:     optional(p.Room),
			Quality:  p.Quality,
		}
	}
	return result
}

// ConvertBreaks converts break results to output rows.
func ConvertBreaks(results []schema.BreakResult) []BreakRow {
	result := make([]BreakRow, len(results))
	for i, r := range results {
		result[i] = BreakRow{
			CategoryID: r.CategoryID,
			TeamID:     r.TeamID,
			Rank:       int32(r.Rank),
			BreakRank:  int32(r.BreakRank),
			IsBreaking: r.IsBreaking,
			Remark:     optional(string(r.Remark)),
		}
	}
	return result
}

// ConvertLiveness converts liveness results to output rows.
func ConvertLiveness(results []schema.LivenessResult) []LivenessRow {
	result := make([]LivenessRow, len(results))
	for i, r := range results {
		result[i] = LivenessRow{TeamID: r.TeamID, Wins: int32(r.Wins), Status: string(r.Status)}
	}
	return result
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
