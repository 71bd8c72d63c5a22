package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/tabulate/internal/contract"
	mcp_internal "github.com/huangsam/tabulate/internal/mcp"
	"github.com/huangsam/tabulate/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tournamentYAML = `name: MCP Cup
total_rounds: 4
teams:
  - {id: a, name: Alpha, institution: North}
  - {id: b, name: Bravo, institution: South}
  - {id: c, name: Charlie, institution: East}
  - {id: d, name: Delta, institution: West}
results:
  - {round: 1, aff_id: a, neg_id: b, winner: aff, aff_speaks: 75, neg_speaks: 74}
  - {round: 1, aff_id: c, neg_id: d, winner: aff, aff_speaks: 73, neg_speaks: 72}
  - {round: 2, aff_id: a, neg_id: c, winner: aff, aff_speaks: 76, neg_speaks: 72}
  - {round: 2, aff_id: b, neg_id: d, winner: aff, aff_speaks: 75, neg_speaks: 71}
categories:
  - {id: open, name: Open, break_size: 2, is_general: true}
`

func writeTournament(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tournamentYAML), 0o644))
	return path
}

func callTool(t *testing.T, baseCfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseCfg, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func baseConfig() *contract.Config {
	return &contract.Config{
		Output:          schema.JSONOut,
		RoundsRemaining: contract.DeriveRounds,
		StoreBackend:    schema.NoneBackend,
		Weights:         schema.DefaultQualityWeights(),
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	path := writeTournament(t)

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantErr string
	}{
		{name: "missing tournament", tool: "get_standings", args: map[string]any{}, wantErr: "tournament_path is required"},
		{name: "negative round", tool: "get_standings", args: map[string]any{"tournament_path": path, "round": -1.0}, wantErr: "round cannot be negative"},
		{name: "limit too large", tool: "get_standings", args: map[string]any{"tournament_path": path, "limit": 5000.0}, wantErr: "limit cannot exceed"},
		{name: "bad tiebreakers", tool: "get_standings", args: map[string]any{"tournament_path": path, "tiebreakers": "coin_flip,wins"}, wantErr: "invalid tiebreakers"},
		{name: "bad method", tool: "get_pairings", args: map[string]any{"tournament_path": path, "method": "swiss"}, wantErr: "invalid method 'swiss'"},
		{name: "negative break size", tool: "get_break", args: map[string]any{"tournament_path": path, "break_size": -2.0}, wantErr: "break_size cannot be negative"},
		{name: "bad rounds remaining", tool: "get_liveness", args: map[string]any{"tournament_path": path, "rounds_remaining": -3.0}, wantErr: "rounds_remaining must be -1 or greater"},
		{name: "unknown category", tool: "get_elimination", args: map[string]any{"tournament_path": path, "category": "esl"}, wantErr: "unknown break category 'esl'"},
		{name: "missing file", tool: "get_break", args: map[string]any{"tournament_path": filepath.Join(t.TempDir(), "none.yaml")}, wantErr: "failed to read tournament file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, baseConfig(), tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.wantErr)
		})
	}
}

func TestMCPServerHandlers_Results(t *testing.T) {
	path := writeTournament(t)

	t.Run("get_standings", func(t *testing.T) {
		res := callTool(t, baseConfig(), "get_standings", map[string]any{"tournament_path": path, "limit": 2.0})
		require.False(t, res.IsError, resultText(t, res))

		var standings []schema.EnrichedStanding
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &standings))
		require.Len(t, standings, 2)
		assert.Equal(t, "a", standings[0].TeamID)
		assert.Equal(t, "2-0", standings[0].Record)
	})

	t.Run("get_pairings", func(t *testing.T) {
		res := callTool(t, baseConfig(), "get_pairings", map[string]any{"tournament_path": path, "seed": 3.0})
		require.False(t, res.IsError, resultText(t, res))

		var output struct {
			Round    int                      `json:"round"`
			Method   string                   `json:"method"`
			Pairings []schema.EnrichedPairing `json:"pairings"`
			Byes     []string                 `json:"byes"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &output))
		assert.Equal(t, 3, output.Round)
		assert.Equal(t, "high_low", output.Method)
		require.Len(t, output.Pairings, 1)
		assert.Equal(t, "Bravo", output.Pairings[0].AffName)
		assert.ElementsMatch(t, []string{"a", "d"}, output.Byes)
	})

	t.Run("get_elimination", func(t *testing.T) {
		res := callTool(t, baseConfig(), "get_elimination", map[string]any{"tournament_path": path})
		require.False(t, res.IsError, resultText(t, res))
		assert.Contains(t, resultText(t, res), `"method": "elimination"`)
		assert.Contains(t, resultText(t, res), `"byes": []`)
	})

	t.Run("get_break", func(t *testing.T) {
		res := callTool(t, baseConfig(), "get_break", map[string]any{"tournament_path": path})
		require.False(t, res.IsError, resultText(t, res))

		var results []schema.EnrichedBreak
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &results))
		require.Len(t, results, 4)
		assert.True(t, results[0].IsBreaking)
		assert.Equal(t, "Alpha", results[0].Name)
		assert.False(t, results[2].IsBreaking)
	})

	t.Run("get_liveness", func(t *testing.T) {
		res := callTool(t, baseConfig(), "get_liveness", map[string]any{"tournament_path": path, "rounds_remaining": 0.0})
		require.False(t, res.IsError, resultText(t, res))

		var output struct {
			BreakSize int `json:"break_size"`
			Teams     []struct {
				TeamID string `json:"team_id"`
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"teams"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &output))
		assert.Equal(t, 2, output.BreakSize)
		require.Len(t, output.Teams, 4)
		assert.Equal(t, "Alpha", output.Teams[0].Name)
		assert.Equal(t, "safe", output.Teams[0].Status)
		assert.Equal(t, "dead", output.Teams[3].Status)
	})

	t.Run("base config is not modified", func(t *testing.T) {
		cfg := baseConfig()
		callTool(t, cfg, "get_standings", map[string]any{"tournament_path": path, "tiebreakers": "wins,coin_flip"})
		assert.Empty(t, cfg.TournamentPath)
		assert.Nil(t, cfg.Tiebreakers)
	})
}
