package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/tabulate/core"
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// livenessEntry is one team in the get_liveness response.
type livenessEntry struct {
	Name string `json:"name"`
	schema.LivenessResult
}

// newConfig clones the base config and applies the arguments every tool shares.
func (h *toolHandler) newConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("tournament_path", ""); p != "" {
		cfg.TournamentPath = p
	}
	if cfg.TournamentPath == "" {
		return nil, errors.New("tournament_path is required")
	}
	cfg.Round = request.GetInt("round", cfg.Round)
	if cfg.Round < 0 {
		return nil, fmt.Errorf("round cannot be negative (received %d)", cfg.Round)
	}
	return cfg, nil
}

// applyBreakArgs reads the category and break_size arguments.
func applyBreakArgs(cfg *contract.Config, request mcp.CallToolRequest) error {
	if c := request.GetString("category", ""); c != "" {
		cfg.Category = c
	}
	cfg.BreakSize = request.GetInt("break_size", cfg.BreakSize)
	if cfg.BreakSize < 0 {
		return fmt.Errorf("break_size cannot be negative (received %d)", cfg.BreakSize)
	}
	return nil
}

func (h *toolHandler) handleGetStandings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.newConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		if l > contract.MaxResultLimit {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: limit cannot exceed %d", contract.MaxResultLimit)), nil
		}
		cfg.ResultLimit = l
	}
	if tb := request.GetString("tiebreakers", ""); tb != "" {
		sequence, err := contract.ParseTiebreakers(tb)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid tiebreakers: %v", err)), nil
		}
		cfg.Tiebreakers = sequence
	}

	standings, _, err := core.GetStandingsResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("standings failed: %v", err)), nil
	}

	enriched := schema.EnrichStandings(standings)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPairings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.newConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if m := request.GetString("method", ""); m != "" {
		cfg.Method = schema.PairingMethod(m)
		if _, ok := schema.ValidPairingMethods[cfg.Method]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid method '%s'. must be high_high, high_low, random", m)), nil
		}
	}
	if s := request.GetInt("seed", 0); s != 0 {
		cfg.Seed = int64(s)
	}

	output, t, err := core.GetPairingsResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pairing failed: %v", err)), nil
	}
	return pairingResult(output, t)
}

func (h *toolHandler) handleGetElimination(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.newConfig(request)
	if err == nil {
		err = applyBreakArgs(cfg, request)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	output, t, err := core.GetEliminationResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("elimination draw failed: %v", err)), nil
	}
	return pairingResult(output, t)
}

func (h *toolHandler) handleGetBreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.newConfig(request)
	if err == nil {
		err = applyBreakArgs(cfg, request)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	results, t, err := core.GetBreakResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("break failed: %v", err)), nil
	}

	enriched := schema.EnrichBreaks(results, t.Teams)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetLiveness(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.newConfig(request)
	if err == nil {
		err = applyBreakArgs(cfg, request)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.RoundsRemaining = request.GetInt("rounds_remaining", cfg.RoundsRemaining)
	if cfg.RoundsRemaining < contract.DeriveRounds {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: rounds_remaining must be %d or greater", contract.DeriveRounds)), nil
	}

	results, t, breakSize, err := core.GetLivenessResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("liveness failed: %v", err)), nil
	}

	names := schema.TeamNames(t.Teams)
	teams := make([]livenessEntry, len(results))
	for i, r := range results {
		teams[i] = livenessEntry{Name: names[r.TeamID], LivenessResult: r}
	}
	jsonData, _ := json.MarshalIndent(map[string]any{
		"break_size": breakSize,
		"teams":      teams,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// pairingResult renders a draw with team names and a non-null bye list.
func pairingResult(output schema.PairingOutput, t *schema.Tournament) (*mcp.CallToolResult, error) {
	byes := output.Byes
	if byes == nil {
		byes = []string{}
	}
	jsonData, _ := json.MarshalIndent(map[string]any{
		"round":    output.Round,
		"method":   output.Method,
		"pairings": schema.EnrichPairings(output.Pairings, t.Teams),
		"byes":     byes,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
