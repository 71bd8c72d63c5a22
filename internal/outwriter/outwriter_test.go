package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTeams = []schema.Team{
	{ID: "a", Name: "Alpha", Institution: "North"},
	{ID: "b", Name: "Bravo", Institution: "South"},
	{ID: "c", Name: "Charlie", Institution: "North"},
	{ID: "d", Name: "Delta", Institution: "East"},
}

func testStandings() []schema.Standing {
	return []schema.Standing{
		{Rank: 1, TeamRecord: schema.TeamRecord{TeamID: "a", Name: "Alpha", Institution: "North", Wins: 3, Speaks: 231.25, Ranks: 6, OpponentWins: 4}},
		{Rank: 2, TeamRecord: schema.TeamRecord{TeamID: "b", Name: "Bravo", Institution: "South", Wins: 2, Losses: 1, Speaks: 229}, DecidedBy: schema.WinsCriterion},
	}
}

func testConfig(t *testing.T, output schema.OutputMode, file string) *contract.Config {
	t.Helper()
	cfg := &contract.Config{
		Output:       output,
		Precision:    1,
		Width:        120,
		StoreBackend: schema.NoneBackend,
	}
	if file != "" {
		cfg.OutputFile = filepath.Join(t.TempDir(), file)
	}
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewOutWriter(t *testing.T) {
	assert.NotNil(t, NewOutWriter())
}

func TestWriteStandingsTable(t *testing.T) {
	fmtFloat, intFmt := createFormatters(1)
	var buf bytes.Buffer
	cfg := testConfig(t, schema.TextOut, "")
	require.NoError(t, writeStandingsTable(&buf, testStandings(), cfg, fmtFloat, intFmt, time.Second))

	out := buf.String()
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "3-0")
	assert.Contains(t, out, "231.2")
	assert.Contains(t, out, "wins")
	assert.Contains(t, out, "Showing 2 teams")
	assert.Contains(t, out, "Store backend: none")
}

func TestWriteStandingsCSV(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	var buf bytes.Buffer
	require.NoError(t, writeCSVStandings(&buf, testStandings(), fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, "rank", records[0][0])
	assert.Equal(t, []string{"1", "a", "Alpha", "North", "3", "0", "231.25", "6.00", "0.00", "0.00", "4", ""}, records[1])
	assert.Equal(t, "wins", records[2][11])
}

func TestWriteStandingsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONStandings(&buf, testStandings()))

	var result []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "3-0", result[0]["record"])
	assert.Equal(t, "a", result[0]["team_id"])
	assert.NotContains(t, result[0], "decided_by")
	assert.Equal(t, "wins", result[1]["decided_by"])
}

func TestWriteStandingResults_Files(t *testing.T) {
	tests := []struct {
		name   string
		output schema.OutputMode
		file   string
		check  func(t *testing.T, path string)
	}{
		{
			name:   "json",
			output: schema.JSONOut,
			file:   "standings.json",
			check: func(t *testing.T, path string) {
				assert.True(t, json.Valid([]byte(readFile(t, path))))
			},
		},
		{
			name:   "csv",
			output: schema.CSVOut,
			file:   "standings.csv",
			check: func(t *testing.T, path string) {
				assert.True(t, strings.HasPrefix(readFile(t, path), "rank,team_id,"))
			},
		},
		{
			name:   "text",
			output: schema.TextOut,
			file:   "standings.txt",
			check: func(t *testing.T, path string) {
				assert.Contains(t, readFile(t, path), "Bravo")
			},
		},
		{
			name:   "parquet",
			output: schema.ParquetOut,
			file:   "standings.parquet",
			check: func(t *testing.T, path string) {
				info, err := os.Stat(path)
				require.NoError(t, err)
				assert.Greater(t, info.Size(), int64(0))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, tt.output, tt.file)
			require.NoError(t, WriteStandingResults(testStandings(), cfg, time.Millisecond))
			tt.check(t, cfg.OutputFile)
		})
	}
}

func TestWriteParquetRequiresFile(t *testing.T) {
	cfg := testConfig(t, schema.ParquetOut, "")
	err := WriteStandingResults(testStandings(), cfg, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file")
}

func TestWritePairings(t *testing.T) {
	output := schema.PairingOutput{
		Round:  4,
		Method: schema.HighLowMethod,
		Pairings: []schema.GeneratedPairing{
			{AffID: "a", NegID: "b", JudgeID: "j1", Room: "R1", Quality: 90},
			{AffID: "c", NegID: "x", Quality: 100},
		},
		Byes: []string{"d"},
	}

	t.Run("table", func(t *testing.T) {
		fmtFloat, _ := createFormatters(1)
		var buf bytes.Buffer
		cfg := testConfig(t, schema.TextOut, "")
		enriched := schema.EnrichPairings(output.Pairings, testTeams)
		require.NoError(t, writePairingsTable(&buf, output, enriched, testTeams, cfg, fmtFloat, time.Second))
		out := buf.String()
		assert.Contains(t, out, "Round 4 draw (high_low)")
		assert.Contains(t, out, "Alpha")
		assert.Contains(t, out, "90.0")
		assert.Contains(t, out, "Byes: Delta")
		assert.Contains(t, out, "Paired 2 debates")
	})

	t.Run("csv", func(t *testing.T) {
		fmtFloat, _ := createFormatters(0)
		var buf bytes.Buffer
		require.NoError(t, writeCSVPairings(&buf, 4, schema.EnrichPairings(output.Pairings, testTeams), fmtFloat))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"4", "1", "a", "Alpha", "b", "Bravo", "j1", "R1", "90"}, records[1])
		assert.Equal(t, "x", records[2][5], "unknown ids fall back to the id")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		noByes := output
		noByes.Byes = nil
		require.NoError(t, writeJSONPairings(&buf, noByes, schema.EnrichPairings(output.Pairings, testTeams)))
		var result map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, float64(4), result["round"])
		assert.Equal(t, []any{}, result["byes"])
		pairings := result["pairings"].([]any)
		require.Len(t, pairings, 2)
		assert.Equal(t, "Bravo", pairings[0].(map[string]any)["neg_name"])
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "draw.parquet")
		require.NoError(t, WritePairingResults(output, testTeams, cfg, 0))
		assert.FileExists(t, cfg.OutputFile)
	})
}

func TestWriteBreaks(t *testing.T) {
	results := []schema.BreakResult{
		{TeamID: "a", CategoryID: "open", Rank: 1, BreakRank: 1, IsBreaking: true},
		{TeamID: "c", CategoryID: "open", Rank: 2, Remark: schema.CappedRemark},
		{TeamID: "b", CategoryID: "novice", Rank: 3, BreakRank: 1, IsBreaking: true},
		{TeamID: "d", CategoryID: "novice", Rank: 4},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := testConfig(t, schema.TextOut, "")
		require.NoError(t, writeBreaksTable(&buf, schema.EnrichBreaks(results, testTeams), cfg, time.Second))
		out := buf.String()
		assert.Contains(t, out, "Breaking")
		assert.Contains(t, out, "capped")
		assert.Contains(t, out, "Category open: 1 teams breaking")
		assert.Contains(t, out, "Category novice: 1 teams breaking")
		assert.Less(t, strings.Index(out, "Category open"), strings.Index(out, "Category novice"))
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCSVBreaks(&buf, schema.EnrichBreaks(results, testTeams)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, []string{"open", "0", "2", "c", "Charlie", "North", "false", "capped"}, records[2])
		assert.Equal(t, "-", records[4][7])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeJSONBreaks(&buf, schema.EnrichBreaks(results, testTeams)))
		var result []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		require.Len(t, result, 4)
		assert.Equal(t, "Breaking", result[0]["status"])
		assert.Equal(t, "Alpha", result[0]["name"])
		assert.Equal(t, "capped", result[1]["remark"])
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "break.parquet")
		require.NoError(t, WriteBreakResults(results, testTeams, cfg, 0))
		assert.FileExists(t, cfg.OutputFile)
	})
}

func TestFormatBreakRank(t *testing.T) {
	assert.Equal(t, "-", formatBreakRank(0))
	assert.Equal(t, "3", formatBreakRank(3))
}

func TestWriteLiveness(t *testing.T) {
	results := []schema.LivenessResult{
		{TeamID: "a", Wins: 4, Status: schema.SafeStatus},
		{TeamID: "b", Wins: 3, Status: schema.LiveStatus},
		{TeamID: "z", Wins: 0, Status: schema.DeadStatus},
	}
	rows := enrichLiveness(results, testTeams)
	assert.Equal(t, "Alpha", rows[0].Name)
	assert.Equal(t, "z", rows[2].Name)

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeLivenessTable(&buf, rows, testConfig(t, schema.TextOut, ""), 2))
		assert.Contains(t, buf.String(), "Break of 2: 1 safe, 1 live, 1 dead")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCSVLiveness(&buf, rows))
		assert.Equal(t, "team_id,name,wins,status\na,Alpha,4,safe\nb,Bravo,3,live\nz,z,0,dead\n", buf.String())
	})

	t.Run("json file", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut, "live.json")
		require.NoError(t, WriteLivenessResults(results, testTeams, cfg, 2))
		var result []map[string]any
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &result))
		assert.Equal(t, "safe", result[0]["status"])
		assert.Equal(t, "Bravo", result[1]["name"])
	})
}

func TestWriteTiebreakerCatalog(t *testing.T) {
	active := schema.TiebreakPresets["strength"]

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut, "tb.json")
		require.NoError(t, WriteTiebreakerCatalog(active, cfg))
		var result struct {
			Active   []string
			Criteria []criterionInfo
			Presets  map[string][]string
		}
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &result))
		assert.Equal(t, "wins", result.Active[0])
		require.Len(t, result.Criteria, len(schema.AllCriteria))
		for _, c := range result.Criteria {
			assert.NotEmpty(t, c.Description, c.Name)
		}
		assert.Contains(t, result.Presets, "default")
	})

	t.Run("csv marks positions", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "tb.csv")
		require.NoError(t, WriteTiebreakerCatalog(active, cfg))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "head_to_head,3,")
		assert.Contains(t, out, "ranks,0,")
	})

	t.Run("table", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut, "tb.txt")
		require.NoError(t, WriteTiebreakerCatalog(active, cfg))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "speaks_first")
		assert.Contains(t, out, "opponent_wins")
		assert.Contains(t, out, "Random draw")
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		assert.Error(t, WriteTiebreakerCatalog(active, testConfig(t, schema.ParquetOut, "tb.parquet")))
	})
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		width, fixed, expected int
	}{
		{width: 80, fixed: 70, expected: minNameWidth},
		{width: 100, fixed: 70, expected: 20},
		{width: 300, fixed: 70, expected: maxNameWidth},
	}
	for _, tt := range tests {
		cfg := &contract.Config{Width: tt.width}
		assert.Equal(t, tt.expected, GetMaxTableNameWidth(cfg, tt.fixed))
	}
}
